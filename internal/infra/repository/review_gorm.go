package repository

import (
	"context"
	"errors"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type ReviewGormRepository struct {
	db *gorm.DB
}

func NewReviewGormRepository(db *gorm.DB) *ReviewGormRepository {
	return &ReviewGormRepository{db: db}
}

func (r *ReviewGormRepository) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error) {
	var rv model.Review
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Review{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Review{}, err
	}
	return rv, nil
}

func (r *ReviewGormRepository) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at desc, id desc").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *ReviewGormRepository) Create(ctx context.Context, rv model.Review) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return 0, err
	}
	return rv.ID, nil
}

func (r *ReviewGormRepository) Update(ctx context.Context, rv model.Review) error {
	res := r.db.WithContext(ctx).Save(&rv)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ReviewGormRepository) DeleteByID(ctx context.Context, reviewID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, reviewID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
