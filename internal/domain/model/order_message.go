package model

import "time"

// 注文スレッド内のメッセージ。参加者（買い手・売り手）のみ投稿可。
type OrderMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	SenderID  int64     `gorm:"not null;index" json:"sender_id"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
