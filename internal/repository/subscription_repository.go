package repository

import (
	"context"

	"bulkbuy/internal/domain/model"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub model.Subscription) (int64, error)
	FindByID(ctx context.Context, subID int64) (model.Subscription, error)
	//ユーザーの最新申請（submitted_atが新しい順の先頭）
	FindLatestByUser(ctx context.Context, userID int64) (model.Subscription, bool, error)
	ListByStatus(ctx context.Context, status model.SubscriptionStatus) ([]model.Subscription, error)
	Update(ctx context.Context, sub model.Subscription) error
}
