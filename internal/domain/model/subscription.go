package model

import "time"

type PlanType string

const (
	PlanTypeMonthly PlanType = "monthly"
	PlanTypeAnnual  PlanType = "annual"
)

type SubscriptionStatus string

const (
	SubscriptionStatusPending  SubscriptionStatus = "pending"
	SubscriptionStatusVerified SubscriptionStatus = "verified"
	SubscriptionStatusRejected SubscriptionStatus = "rejected"
)

// 出品者プランの支払い申請。振込レシートを管理者が目視審査する。
type Subscription struct {
	ID         int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64              `gorm:"not null;index" json:"user_id"`
	PlanType   PlanType           `gorm:"type:varchar(20);not null" json:"plan_type"`
	Amount     int64              `gorm:"not null" json:"amount"`
	ReceiptURL string             `gorm:"type:varchar(512);not null" json:"receipt_url"`
	Status     SubscriptionStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	SubmittedAt time.Time  `gorm:"not null" json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}
