package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"
)

type OrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository

	//trueのとき前進のみの遷移に絞る（既定はfalse＝ロール表のみ）
	strictFlow bool
}

func NewOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, strictFlow bool) *OrderUsecase {
	return &OrderUsecase{tx: tx, auditRepo: auditRepo, strictFlow: strictFlow}
}

type InitiateOrderInput struct {
	ProductID   int64
	SellerID    int64
	Quantity    int64
	TotalAmount int64
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	SellerID  int64  `json:"seller_id"`
	Image     string `json:"image,omitempty"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	BuyerID     int64             `json:"buyer_id"`
	Status      string            `json:"status"`
	TotalAmount int64             `json:"total_amount"`
	CreatedAt   time.Time         `json:"created_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
	Items       []OrderItemOutput `json:"items"`
}

type ThreadOutput struct {
	OrderID         int64     `json:"order_id"`
	Status          string    `json:"status"`
	TotalAmount     int64     `json:"total_amount"`
	CounterpartID   int64     `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	LastMessage     string    `json:"last_message,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type MessageOutput struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	SenderID  int64     `json:"sender_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// 前進のみモードで使う並び
var statusRank = map[model.OrderStatus]int{
	model.OrderStatusPending:    0,
	model.OrderStatusProcessing: 1,
	model.OrderStatusShipped:    2,
	model.OrderStatusCompleted:  3,
}

// 交渉開始。同じ(買い手, 商品)のpending注文があれば新規作成せずそれを返す。
func (u *OrderUsecase) Initiate(ctx context.Context, buyerID int64, in InitiateOrderInput) (OrderOutput, error) {
	if buyerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 || in.SellerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid request")
	}
	//自分の商品は買えない
	if buyerID == in.SellerID {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "you cannot order your own product")
	}
	if in.Quantity <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if in.TotalAmount <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid total_amount")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//進行中の同一交渉があればそれを返す
		existing, found, err := r.Orders().FindPendingByBuyerAndProduct(ctx, buyerID, in.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items)
			return nil
		}

		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.Status != model.ProductStatusActive {
			return NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		//売り手は商品の所有者であること
		if p.UserID != in.SellerID {
			return NewHTTPError(http.StatusBadRequest, "invalid seller")
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			BuyerID:     buyerID,
			Status:      model.OrderStatusPending,
			TotalAmount: in.TotalAmount,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//明細は作成時点の商品情報のスナップショット
		image := ""
		if len(p.Images) > 0 {
			image = p.Images[0]
		}
		item := model.OrderItem{
			ProductID: in.ProductID,
			Name:      p.Name,
			Price:     p.UnitPriceFor(in.Quantity),
			Quantity:  in.Quantity,
			SellerID:  in.SellerID,
			Image:     image,
			CreatedAt: now,
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, []model.OrderItem{item}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:          orderID,
			BuyerID:     buyerID,
			Status:      model.OrderStatusPending,
			TotalAmount: in.TotalAmount,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		item.OrderID = orderID
		out = toOrderOutput(created, []model.OrderItem{item})
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// ステータス更新。買い手はcancelledのみ、売り手はcancelled以外のみ。
func (u *OrderUsecase) UpdateStatus(ctx context.Context, orderID int64, requesterID int64, requested string) (string, error) {
	if requesterID <= 0 {
		return "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return "", NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	status, ok := model.ParseOrderStatus(requested)
	if !ok {
		return "", NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		isBuyer := o.BuyerID == requesterID
		isSeller := false
		for _, it := range items {
			if it.SellerID == requesterID {
				isSeller = true
				break
			}
		}

		if !isBuyer && !isSeller {
			return NewHTTPError(http.StatusForbidden, "unauthorized to update this order")
		}
		if isBuyer && status != model.OrderStatusCancelled {
			return NewHTTPError(http.StatusForbidden, "buyers can only cancel orders")
		}
		if isSeller && status == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusForbidden, "sellers cannot cancel orders")
		}

		if u.strictFlow {
			if err := checkStrictTransition(o.Status, status); err != nil {
				return err
			}
		}

		var completedAt *time.Time
		if status == model.OrderStatusCompleted {
			now := time.Now()
			completedAt = &now
		}

		beforeStatus := string(o.Status)
		if err := r.Orders().UpdateStatus(ctx, orderID, status, completedAt); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "order not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（UPDATE_ORDER_STATUS）
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  requesterID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   `{"status":"` + beforeStatus + `"}`,
			AfterJSON:    `{"status":"` + string(status) + `"}`,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return "", err
	}
	return "Order status updated to " + string(status), nil
}

// 前進のみモード。completed/cancelledは終端。
func checkStrictTransition(current model.OrderStatus, next model.OrderStatus) error {
	if current == model.OrderStatusCompleted || current == model.OrderStatusCancelled {
		return NewHTTPError(http.StatusBadRequest, "order already closed")
	}
	if next == model.OrderStatusCancelled {
		if current != model.OrderStatusPending && current != model.OrderStatusProcessing {
			return NewHTTPError(http.StatusBadRequest, "order can no longer be cancelled")
		}
		return nil
	}
	if statusRank[next] <= statusRank[current] {
		return NewHTTPError(http.StatusBadRequest, "status cannot move backwards")
	}
	return nil
}

// 購入履歴（新しい順）
func (u *OrderUsecase) ListMyOrders(ctx context.Context, buyerID int64) ([]OrderOutput, error) {
	if buyerID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByBuyer(ctx, buyerID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// 自分が参加しているスレッド一覧（更新が新しい順）
func (u *OrderUsecase) MyThreads(ctx context.Context, userID int64) ([]ThreadOutput, error) {
	if userID <= 0 {
		return []ThreadOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []ThreadOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByParticipant(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]ThreadOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//相手：買い手なら先頭明細の売り手、売り手なら買い手
			counterpartID := o.BuyerID
			if o.BuyerID == userID && len(items) > 0 {
				counterpartID = items[0].SellerID
			}

			counterpartName := ""
			if cu, err := r.Users().FindByID(ctx, counterpartID); err == nil && cu != nil {
				counterpartName = cu.FullName
			}

			last := ""
			if msg, found, err := r.OrderMessages().FindLastByOrderID(ctx, o.ID); err == nil && found {
				last = msg.Body
			}

			outs = append(outs, ThreadOutput{
				OrderID:         o.ID,
				Status:          string(o.Status),
				TotalAmount:     o.TotalAmount,
				CounterpartID:   counterpartID,
				CounterpartName: counterpartName,
				LastMessage:     last,
				UpdatedAt:       o.UpdatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return []ThreadOutput{}, err
	}
	return outs, nil
}

// スレッドのメッセージ（参加者のみ・古い順）
func (u *OrderUsecase) Messages(ctx context.Context, userID int64, orderID int64) ([]MessageOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var outs []MessageOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := requireParticipant(ctx, r, orderID, userID); err != nil {
			return err
		}

		msgs, err := r.OrderMessages().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]MessageOutput, 0, len(msgs))
		for _, m := range msgs {
			outs = append(outs, MessageOutput{
				ID:        m.ID,
				OrderID:   m.OrderID,
				SenderID:  m.SenderID,
				Body:      m.Body,
				CreatedAt: m.CreatedAt,
			})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return outs, nil
}

// メッセージ投稿（参加者のみ）
func (u *OrderUsecase) PostMessage(ctx context.Context, userID int64, orderID int64, body string) (MessageOutput, error) {
	if userID <= 0 {
		return MessageOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	body = strings.TrimSpace(body)
	if body == "" || len(body) > 2000 {
		return MessageOutput{}, NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var out MessageOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := requireParticipant(ctx, r, orderID, userID); err != nil {
			return err
		}

		now := time.Now()
		msg := model.OrderMessage{
			OrderID:   orderID,
			SenderID:  userID,
			Body:      body,
			CreatedAt: now,
		}
		id, err := r.OrderMessages().Create(ctx, msg)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = MessageOutput{
			ID:        id,
			OrderID:   orderID,
			SenderID:  userID,
			Body:      body,
			CreatedAt: now,
		}
		return nil
	})

	if err != nil {
		return MessageOutput{}, err
	}
	return out, nil
}

// 買い手または明細の売り手であることを確認する
func requireParticipant(ctx context.Context, r repo.TxRepos, orderID int64, userID int64) error {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.BuyerID == userID {
		return nil
	}

	items, err := r.OrderItems().ListByOrderID(ctx, orderID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	for _, it := range items {
		if it.SellerID == userID {
			return nil
		}
	}
	return NewHTTPError(http.StatusForbidden, "not a participant of this order")
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			SellerID:  it.SellerID,
			Image:     it.Image,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		BuyerID:     o.BuyerID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
		Items:       outItems,
	}
}
