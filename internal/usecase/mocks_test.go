package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	args := m.Called(ctx, tokenHash)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) ListByStatus(ctx context.Context, status model.VerificationStatus) ([]model.User, error) {
	args := m.Called(ctx, status)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) ListAll(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) ListByUser(ctx context.Context, userID int64) ([]model.Product, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) UpdateRating(ctx context.Context, productID int64, avgRating float64, reviewCount int64) error {
	args := m.Called(ctx, productID, avgRating, reviewCount)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) CountByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByBuyer(ctx context.Context, buyerID int64) ([]model.Order, error) {
	args := m.Called(ctx, buyerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByParticipant(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus, completedAt *time.Time) error {
	args := m.Called(ctx, orderID, status, completedAt)
	return args.Error(0)
}

func (m *OrderRepoMock) FindPendingByBuyerAndProduct(ctx context.Context, buyerID int64, productID int64) (model.Order, bool, error) {
	args := m.Called(ctx, buyerID, productID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) CountBySeller(ctx context.Context, sellerID int64) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) SumCompletedBySeller(ctx context.Context, sellerID int64) (int64, error) {
	args := m.Called(ctx, sellerID)
	return args.Get(0).(int64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type OrderMessageRepoMock struct{ mock.Mock }

func (m *OrderMessageRepoMock) Create(ctx context.Context, msg model.OrderMessage) (int64, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderMessageRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderMessage, error) {
	args := m.Called(ctx, orderID)
	msgs, _ := args.Get(0).([]model.OrderMessage)
	return msgs, args.Error(1)
}

func (m *OrderMessageRepoMock) FindLastByOrderID(ctx context.Context, orderID int64) (model.OrderMessage, bool, error) {
	args := m.Called(ctx, orderID)
	msg, _ := args.Get(0).(model.OrderMessage)
	return msg, args.Bool(1), args.Error(2)
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) FindByUserAndProduct(ctx context.Context, userID int64, productID int64) (model.Review, error) {
	args := m.Called(ctx, userID, productID)
	r, _ := args.Get(0).(model.Review)
	return r, args.Error(1)
}

func (m *ReviewRepoMock) ListByProduct(ctx context.Context, productID int64) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]model.Review)
	return reviews, args.Error(1)
}

func (m *ReviewRepoMock) Create(ctx context.Context, r model.Review) (int64, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(int64), args.Error(1)
}

func (m *ReviewRepoMock) Update(ctx context.Context, r model.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *ReviewRepoMock) DeleteByID(ctx context.Context, reviewID int64) error {
	args := m.Called(ctx, reviewID)
	return args.Error(0)
}

type SubscriptionRepoMock struct{ mock.Mock }

func (m *SubscriptionRepoMock) Create(ctx context.Context, sub model.Subscription) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *SubscriptionRepoMock) FindByID(ctx context.Context, subID int64) (model.Subscription, error) {
	args := m.Called(ctx, subID)
	sub, _ := args.Get(0).(model.Subscription)
	return sub, args.Error(1)
}

func (m *SubscriptionRepoMock) FindLatestByUser(ctx context.Context, userID int64) (model.Subscription, bool, error) {
	args := m.Called(ctx, userID)
	sub, _ := args.Get(0).(model.Subscription)
	return sub, args.Bool(1), args.Error(2)
}

func (m *SubscriptionRepoMock) ListByStatus(ctx context.Context, status model.SubscriptionStatus) ([]model.Subscription, error) {
	args := m.Called(ctx, status)
	subs, _ := args.Get(0).([]model.Subscription)
	return subs, args.Error(1)
}

func (m *SubscriptionRepoMock) Update(ctx context.Context, sub model.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

type RefreshTokenRepoMock struct{ mock.Mock }

func (m *RefreshTokenRepoMock) Create(ctx context.Context, token *model.RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) FindByTokenHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	rt, _ := args.Get(0).(*model.RefreshToken)
	return rt, args.Error(1)
}

func (m *RefreshTokenRepoMock) MarkUsed(ctx context.Context, tokenID string, usedAt time.Time) error {
	args := m.Called(ctx, tokenID, usedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) Revoke(ctx context.Context, tokenID string, revokedAt time.Time) error {
	args := m.Called(ctx, tokenID, revokedAt)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *RefreshTokenRepoMock) DeleteByID(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Txのpassthrough
// =====================

// テスト用のTxRepos。各repoのmockを束ねる。
type txReposStub struct {
	orders   *OrderRepoMock
	items    *OrderItemRepoMock
	messages *OrderMessageRepoMock
	products *ProductRepoMock
	reviews  *ReviewRepoMock
	users    *UserRepoMock
	subs     *SubscriptionRepoMock
}

func (s *txReposStub) Orders() repo.OrderRepository               { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository       { return s.items }
func (s *txReposStub) OrderMessages() repo.OrderMessageRepository { return s.messages }
func (s *txReposStub) Products() repo.ProductRepository           { return s.products }
func (s *txReposStub) Reviews() repo.ReviewRepository             { return s.reviews }
func (s *txReposStub) Users() repo.UserRepository                 { return s.users }
func (s *txReposStub) Subscriptions() repo.SubscriptionRepository { return s.subs }

// fnをそのまま実行する（commit/rollbackはしない）
type txManagerStub struct {
	repos *txReposStub
}

func (t *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(t.repos)
}

func newTxStub() (*txManagerStub, *txReposStub) {
	repos := &txReposStub{
		orders:   new(OrderRepoMock),
		items:    new(OrderItemRepoMock),
		messages: new(OrderMessageRepoMock),
		products: new(ProductRepoMock),
		reviews:  new(ReviewRepoMock),
		users:    new(UserRepoMock),
		subs:     new(SubscriptionRepoMock),
	}
	return &txManagerStub{repos: repos}, repos
}

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error containing %q, got %q", want, err.Error())
	}
}
