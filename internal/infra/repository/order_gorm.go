package repository

import (
	"context"
	"errors"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// 買い手または明細の売り手として参加している注文
func (r *OrderGormRepository) ListByParticipant(ctx context.Context, userID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? OR id IN (?)", userID,
			r.db.Model(&model.OrderItem{}).Select("order_id").Where("seller_id = ?", userID)).
		Order("updated_at desc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

// statusとupdated_at（完了時はcompleted_atも）を1回のUPDATEで書く
func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, completedAt *time.Time) error {
	fields := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if completedAt != nil {
		fields["completed_at"] = *completedAt
	}

	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(fields)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) FindPendingByBuyerAndProduct(ctx context.Context, buyerID int64, productID int64) (model.Order, bool, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND status = ?", buyerID, model.OrderStatusPending).
		Where("id IN (?)",
			r.db.Model(&model.OrderItem{}).Select("order_id").Where("product_id = ?", productID)).
		Order("created_at asc").
		First(&o).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, false, nil
	}
	if err != nil {
		return model.Order{}, false, err
	}
	return o, true, nil
}

func (r *OrderGormRepository) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id IN (?)",
			r.db.Model(&model.OrderItem{}).Select("order_id").Where("seller_id = ?", sellerID)).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

// completed注文に含まれる自分の明細の売上合計
func (r *OrderGormRepository) SumCompletedBySeller(ctx context.Context, sellerID int64) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Select("SUM(order_items.price * order_items.quantity)").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.seller_id = ? AND orders.status = ?", sellerID, model.OrderStatusCompleted).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}
