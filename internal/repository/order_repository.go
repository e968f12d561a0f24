package repository

import (
	"context"
	"time"

	"bulkbuy/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//買い手の購入履歴（新しい順）
	ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error)
	//買い手または明細の売り手として関わる注文（更新が新しい順）
	ListByParticipant(ctx context.Context, userID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	//status・updated_at（完了時はcompleted_atも）を1回の更新で書く
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, completedAt *time.Time) error

	//同じ(買い手, 商品)のpending注文を探す（二重交渉防止）
	FindPendingByBuyerAndProduct(ctx context.Context, buyerID int64, productID int64) (model.Order, bool, error)

	CountBySeller(ctx context.Context, sellerID int64) (int64, error)
	//completedになった注文の売り手取り分合計
	SumCompletedBySeller(ctx context.Context, sellerID int64) (int64, error)
}
