package model

import "time"

// 商品レビュー。(user_id, product_id)で一意＝1ユーザー1商品1件。
type Review struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_reviews_user_product" json:"user_id"`
	ProductID int64     `gorm:"not null;uniqueIndex:idx_reviews_user_product;index" json:"product_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
