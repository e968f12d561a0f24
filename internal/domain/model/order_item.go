package model

import "time"

// 注文明細。作成時点の商品情報をスナップショットで持つ。
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	ProductID int64     `gorm:"not null;index" json:"product_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Price     int64     `gorm:"not null" json:"price"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	SellerID  int64     `gorm:"not null;index" json:"seller_id"`
	Image     string    `gorm:"type:varchar(512)" json:"image,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
