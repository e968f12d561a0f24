package repository

import (
	"context"

	"bulkbuy/internal/domain/model"
)

// レビューの永続化。(user_id, product_id)が論理キー。
type ReviewRepository interface {
	FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error)
	//商品の全レビュー（新しい順）。集計の正本はこの全件。
	ListByProduct(ctx context.Context, productID int64) ([]model.Review, error)
	Create(ctx context.Context, r model.Review) (int64, error)
	Update(ctx context.Context, r model.Review) error
	DeleteByID(ctx context.Context, reviewID int64) error
}
