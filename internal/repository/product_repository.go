package repository

import (
	"context"
	"errors"

	"bulkbuy/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	//レビュー集計キャッシュ（avg_rating / review_count）だけを書き換える
	UpdateRating(ctx context.Context, productID int64, avgRating float64, reviewCount int64) error
	SoftDelete(ctx context.Context, id int64) error

	CountByUser(ctx context.Context, userID int64) (int64, error)
}
