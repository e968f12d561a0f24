package repository

import (
	"context"
	"errors"
	"strings"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}

	base := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("status = ?", model.ProductStatusActive)

	//名前の部分一致
	if s := strings.TrimSpace(q.Q); s != "" {
		base = base.Where("name ILIKE ?", "%"+s+"%")
	}

	//価格帯での絞り込みは先頭帯の単価が対象
	if q.MinPrice != nil {
		base = base.Where("(pricing_tiers->0->>'price')::bigint >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		base = base.Where("(pricing_tiers->0->>'price')::bigint <= ?", *q.MaxPrice)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return []model.Product{}, 0, err
	}

	order := "created_at desc"
	switch q.Sort {
	case "rating":
		order = "avg_rating desc, review_count desc"
	case "oldest":
		order = "created_at asc"
	}

	var items []model.Product
	offset := (q.Page - 1) * q.Limit
	if err := base.Order(order).Limit(q.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Product{}, 0, err
	}

	return items, total, nil
}

func (r *ProductGormRepository) ListByUser(ctx context.Context, userID int64) ([]model.Product, error) {
	var items []model.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).Save(&p)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 集計キャッシュ2列だけの更新
func (r *ProductGormRepository) UpdateRating(ctx context.Context, productID int64, avgRating float64, reviewCount int64) error {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{
			"avg_rating":   avgRating,
			"review_count": reviewCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) SoftDelete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
