package repository

import (
	"context"

	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders        repo.OrderRepository
	orderItems    repo.OrderItemRepository
	orderMessages repo.OrderMessageRepository
	products      repo.ProductRepository
	reviews       repo.ReviewRepository
	users         repo.UserRepository
	subscriptions repo.SubscriptionRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository               { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository       { return r.orderItems }
func (r *txReposGorm) OrderMessages() repo.OrderMessageRepository { return r.orderMessages }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Reviews() repo.ReviewRepository             { return r.reviews }
func (r *txReposGorm) Users() repo.UserRepository                 { return r.users }
func (r *txReposGorm) Subscriptions() repo.SubscriptionRepository { return r.subscriptions }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fn内の書き込みは全てcommitされるか全てrollbackされる
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:        NewOrderGormRepository(tx),
			orderItems:    NewOrderItemGormRepository(tx),
			orderMessages: NewOrderMessageGormRepository(tx),
			products:      NewProductGormRepository(tx),
			reviews:       NewReviewGormRepository(tx),
			users:         NewUserRepository(tx),
			subscriptions: NewSubscriptionGormRepository(tx),
		}
		return fn(r)
	})
}
