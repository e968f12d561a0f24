package model

import "time"

// KYC審査、サブスク審査、注文ステータス更新など。
type AuditAction string

const (
	//KYCを承認/却下した操作。
	AuditActionReviewKYC AuditAction = "REVIEW_KYC"
	//サブスク支払いを承認/却下した操作。
	AuditActionReviewSubscription AuditAction = "REVIEW_SUBSCRIPTION"
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	//ユーザーに対する操作。
	AuditResourceUser AuditResourceType = "user"

	//サブスク申請に対する操作。
	AuditResourceSubscription AuditResourceType = "subscription"

	//注文に対する操作。
	AuditResourceOrder AuditResourceType = "order"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作したユーザー（主に管理者）のID。
	ActorUserID int64 `gorm:"not null;index" json:"actor_user_id"`

	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	BeforeJSON string `gorm:"type:text" json:"before_json"`
	AfterJSON  string `gorm:"type:text" json:"after_json"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
