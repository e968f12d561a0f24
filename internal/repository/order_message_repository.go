package repository

import (
	"context"

	"bulkbuy/internal/domain/model"
)

type OrderMessageRepository interface {
	Create(ctx context.Context, msg model.OrderMessage) (int64, error)
	//古い順（チャット表示順）
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderMessage, error)
	//スレッド一覧のプレビュー用に最後の1件
	FindLastByOrderID(ctx context.Context, orderID int64) (model.OrderMessage, bool, error)
}
