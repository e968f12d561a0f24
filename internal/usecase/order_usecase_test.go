package usecase_test

import (
	"context"
	"testing"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"
	"bulkbuy/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newOrderUC(strict bool) (*usecase.OrderUsecase, *txReposStub, *AuditRepoMock) {
	tx, r := newTxStub()
	audit := new(AuditRepoMock)
	return usecase.NewOrderUsecase(tx, audit, strict), r, audit
}

// =====================
// Initiate
// =====================

func TestOrderUsecase_Initiate_SelfPurchaseRejected(t *testing.T) {
	uc, _, _ := newOrderUC(false)

	_, err := uc.Initiate(context.Background(), 5, usecase.InitiateOrderInput{
		ProductID:   10,
		SellerID:    5,
		Quantity:    100,
		TotalAmount: 50000,
	})
	assertErrContains(t, err, "you cannot order your own product")
}

func TestOrderUsecase_Initiate_InvalidQuantity(t *testing.T) {
	uc, _, _ := newOrderUC(false)

	_, err := uc.Initiate(context.Background(), 1, usecase.InitiateOrderInput{
		ProductID:   10,
		SellerID:    2,
		Quantity:    0,
		TotalAmount: 50000,
	})
	assertErrContains(t, err, "invalid quantity")
}

// 同じ(買い手, 商品)のpending注文があれば新規作成せずそれが返る
func TestOrderUsecase_Initiate_Idempotent_ReturnsExistingPending(t *testing.T) {
	ctx := context.Background()

	uc, r, _ := newOrderUC(false)

	existing := model.Order{ID: 42, BuyerID: 1, Status: model.OrderStatusPending, TotalAmount: 9000}
	r.orders.On("FindPendingByBuyerAndProduct", mock.Anything, int64(1), int64(10)).
		Return(existing, true, nil)
	r.items.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{OrderID: 42, ProductID: 10, SellerID: 2, Quantity: 50}}, nil)

	out, err := uc.Initiate(ctx, 1, usecase.InitiateOrderInput{
		ProductID:   10,
		SellerID:    2,
		Quantity:    50,
		TotalAmount: 9000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)

	// 新規注文は作られない
	r.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	r.orders.AssertExpectations(t)
}

func TestOrderUsecase_Initiate_CreatesPendingWithSnapshot(t *testing.T) {
	ctx := context.Background()

	uc, r, _ := newOrderUC(false)

	product := model.Product{
		ID:     10,
		UserID: 2,
		Name:   "Rice 50kg",
		Status: model.ProductStatusActive,
		Images: []string{"https://cdn.example/rice.jpg"},
		PricingTiers: []model.PricingTier{
			{Min: 1, Max: 99, Price: 200},
			{Min: 100, Max: 0, Price: 150},
		},
	}

	r.orders.On("FindPendingByBuyerAndProduct", mock.Anything, int64(1), int64(10)).
		Return(model.Order{}, false, nil)
	r.products.On("FindByID", mock.Anything, int64(10)).Return(product, nil)
	r.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.BuyerID == 1 && o.Status == model.OrderStatusPending && o.TotalAmount == 15000
	})).Return(int64(7), nil)
	r.items.On("CreateBulk", mock.Anything, int64(7), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 1 {
			return false
		}
		it := items[0]
		// 数量100は2段目の帯に入る
		return it.ProductID == 10 && it.SellerID == 2 && it.Quantity == 100 &&
			it.Price == 150 && it.Name == "Rice 50kg" && it.Image == "https://cdn.example/rice.jpg"
	})).Return(nil)

	out, err := uc.Initiate(ctx, 1, usecase.InitiateOrderInput{
		ProductID:   10,
		SellerID:    2,
		Quantity:    100,
		TotalAmount: 15000,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "pending", out.Status)

	r.orders.AssertExpectations(t)
	r.items.AssertExpectations(t)
}

func TestOrderUsecase_Initiate_SellerMustOwnProduct(t *testing.T) {
	ctx := context.Background()

	uc, r, _ := newOrderUC(false)

	r.orders.On("FindPendingByBuyerAndProduct", mock.Anything, int64(1), int64(10)).
		Return(model.Order{}, false, nil)
	r.products.On("FindByID", mock.Anything, int64(10)).
		Return(model.Product{ID: 10, UserID: 99, Status: model.ProductStatusActive}, nil)

	_, err := uc.Initiate(ctx, 1, usecase.InitiateOrderInput{
		ProductID:   10,
		SellerID:    2,
		Quantity:    10,
		TotalAmount: 1000,
	})
	assertErrContains(t, err, "invalid seller")
}

// =====================
// UpdateStatus
// =====================

func setupOrderForStatus(r *txReposStub, order model.Order, sellerID int64) {
	r.orders.On("FindByID", mock.Anything, order.ID).Return(order, nil)
	r.items.On("ListByOrderID", mock.Anything, order.ID).
		Return([]model.OrderItem{{OrderID: order.ID, SellerID: sellerID}}, nil)
}

func TestOrderUsecase_UpdateStatus_InvalidStatusRejected(t *testing.T) {
	uc, _, _ := newOrderUC(false)

	_, err := uc.UpdateStatus(context.Background(), 1, 1, "SHIPPED")
	assertErrContains(t, err, "invalid status")

	_, err = uc.UpdateStatus(context.Background(), 1, 1, "delivered")
	assertErrContains(t, err, "invalid status")
}

func TestOrderUsecase_UpdateStatus_OrderNotFound(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	r.orders.On("FindByID", mock.Anything, int64(99)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.UpdateStatus(context.Background(), 99, 1, "cancelled")
	assertErrContains(t, err, "order not found")

	r.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_StrangerForbidden(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 999, "processing")
	assertErrContains(t, err, "unauthorized to update this order")

	r.orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderUsecase_UpdateStatus_BuyerCanOnlyCancel(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 1, "shipped")
	assertErrContains(t, err, "buyers can only cancel orders")
}

func TestOrderUsecase_UpdateStatus_BuyerCancelSucceeds(t *testing.T) {
	uc, r, audit := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)
	r.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCancelled, (*time.Time)(nil)).Return(nil)
	// 監査ログに前後のステータスが残る
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 1 &&
			l.Action == model.AuditActionUpdateOrderStatus &&
			l.ResourceType == model.AuditResourceOrder &&
			l.ResourceID == 1 &&
			l.BeforeJSON == `{"status":"pending"}` &&
			l.AfterJSON == `{"status":"cancelled"}`
	})).Return(nil)

	msg, err := uc.UpdateStatus(context.Background(), 1, 1, "cancelled")
	assert.NoError(t, err)
	assert.Equal(t, "Order status updated to cancelled", msg)

	r.orders.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestOrderUsecase_UpdateStatus_SellerCannotCancel(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 2, "cancelled")
	assertErrContains(t, err, "sellers cannot cancel orders")
}

func TestOrderUsecase_UpdateStatus_CompletedSetsCompletedAt(t *testing.T) {
	uc, r, audit := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusShipped}, 2)
	r.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusCompleted,
		mock.MatchedBy(func(ts *time.Time) bool { return ts != nil && !ts.IsZero() })).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	msg, err := uc.UpdateStatus(context.Background(), 1, 2, "completed")
	assert.NoError(t, err)
	assert.Equal(t, "Order status updated to completed", msg)

	r.orders.AssertExpectations(t)
}

// 既定では遷移は自由。shipped→processingの巻き戻しも通る。
func TestOrderUsecase_UpdateStatus_LooseFlowAllowsBackwards(t *testing.T) {
	uc, r, audit := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusShipped}, 2)
	r.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusProcessing, (*time.Time)(nil)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 1, 2, "processing")
	assert.NoError(t, err)

	r.orders.AssertExpectations(t)
}

// =====================
// strictFlow
// =====================

func TestOrderUsecase_UpdateStatus_StrictBlocksBackwards(t *testing.T) {
	uc, r, _ := newOrderUC(true)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusShipped}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 2, "processing")
	assertErrContains(t, err, "status cannot move backwards")
}

func TestOrderUsecase_UpdateStatus_StrictBlocksCancelAfterShipped(t *testing.T) {
	uc, r, _ := newOrderUC(true)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusShipped}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 1, "cancelled")
	assertErrContains(t, err, "order can no longer be cancelled")
}

func TestOrderUsecase_UpdateStatus_StrictClosedOrderFrozen(t *testing.T) {
	uc, r, _ := newOrderUC(true)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusCompleted}, 2)

	_, err := uc.UpdateStatus(context.Background(), 1, 2, "shipped")
	assertErrContains(t, err, "order already closed")
}

func TestOrderUsecase_UpdateStatus_StrictForwardStillWorks(t *testing.T) {
	uc, r, audit := newOrderUC(true)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)
	r.orders.On("UpdateStatus", mock.Anything, int64(1), model.OrderStatusProcessing, (*time.Time)(nil)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := uc.UpdateStatus(context.Background(), 1, 2, "processing")
	assert.NoError(t, err)
}

// =====================
// Messages
// =====================

func TestOrderUsecase_PostMessage_NonParticipantForbidden(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)

	_, err := uc.PostMessage(context.Background(), 999, 1, "hello")
	assertErrContains(t, err, "not a participant of this order")
}

func TestOrderUsecase_PostMessage_EmptyBodyRejected(t *testing.T) {
	uc, _, _ := newOrderUC(false)

	_, err := uc.PostMessage(context.Background(), 1, 1, "   ")
	assertErrContains(t, err, "invalid body")
}

func TestOrderUsecase_PostMessage_Success(t *testing.T) {
	uc, r, _ := newOrderUC(false)

	setupOrderForStatus(r, model.Order{ID: 1, BuyerID: 1, Status: model.OrderStatusPending}, 2)
	r.messages.On("Create", mock.Anything, mock.MatchedBy(func(msg model.OrderMessage) bool {
		return msg.OrderID == 1 && msg.SenderID == 2 && msg.Body == "can you ship friday?"
	})).Return(int64(3), nil)

	out, err := uc.PostMessage(context.Background(), 2, 1, "  can you ship friday?  ")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.ID)
	assert.Equal(t, int64(2), out.SenderID)

	r.messages.AssertExpectations(t)
}
