package repository

import (
	"context"
	"errors"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type SubscriptionGormRepository struct {
	db *gorm.DB
}

func NewSubscriptionGormRepository(db *gorm.DB) *SubscriptionGormRepository {
	return &SubscriptionGormRepository{db: db}
}

func (r *SubscriptionGormRepository) Create(ctx context.Context, sub model.Subscription) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&sub).Error; err != nil {
		return 0, err
	}
	return sub.ID, nil
}

func (r *SubscriptionGormRepository) FindByID(ctx context.Context, subID int64) (model.Subscription, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).Where("id = ?", subID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Subscription{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Subscription{}, err
	}
	return s, nil
}

func (r *SubscriptionGormRepository) FindLatestByUser(ctx context.Context, userID int64) (model.Subscription, bool, error) {
	var s model.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at desc, id desc").
		First(&s).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Subscription{}, false, nil
	}
	if err != nil {
		return model.Subscription{}, false, err
	}
	return s, true, nil
}

func (r *SubscriptionGormRepository) ListByStatus(ctx context.Context, status model.SubscriptionStatus) ([]model.Subscription, error) {
	var subs []model.Subscription
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("submitted_at asc").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *SubscriptionGormRepository) Update(ctx context.Context, sub model.Subscription) error {
	res := r.db.WithContext(ctx).Save(&sub)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
