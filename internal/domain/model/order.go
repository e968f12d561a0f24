package model

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatusは認識済みの5値だけ受け付ける。
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

// 買い手と売り手の交渉スレッド1件。
// 参加者（buyer_idと明細のseller_id）は作成後に変わらない。
type Order struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID     int64       `gorm:"not null;index" json:"buyer_id"`
	Status      OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount int64       `gorm:"not null" json:"total_amount"`
	CreatedAt   time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}
