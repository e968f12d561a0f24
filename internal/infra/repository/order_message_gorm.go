package repository

import (
	"context"
	"errors"

	"bulkbuy/internal/domain/model"

	"gorm.io/gorm"
)

type OrderMessageGormRepository struct {
	db *gorm.DB
}

func NewOrderMessageGormRepository(db *gorm.DB) *OrderMessageGormRepository {
	return &OrderMessageGormRepository{db: db}
}

func (r *OrderMessageGormRepository) Create(ctx context.Context, msg model.OrderMessage) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return 0, err
	}
	return msg.ID, nil
}

func (r *OrderMessageGormRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderMessage, error) {
	var msgs []model.OrderMessage
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *OrderMessageGormRepository) FindLastByOrderID(ctx context.Context, orderID int64) (model.OrderMessage, bool, error) {
	var msg model.OrderMessage
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at desc, id desc").
		First(&msg).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderMessage{}, false, nil
	}
	if err != nil {
		return model.OrderMessage{}, false, err
	}
	return msg, true, nil
}
