package model

import "time"

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// KYC審査のステータス
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationVerified   VerificationStatus = "verified"
	VerificationRejected   VerificationStatus = "rejected"
)

// サブスク支払いの審査状態（ユーザー側に持つコピー）
type PaymentStatus string

const (
	PaymentStatusNone     PaymentStatus = "none"
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusVerified PaymentStatus = "verified"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// 本人確認の提出書類
type KYCData struct {
	NIN         string     `gorm:"type:varchar(50)" json:"nin,omitempty"`
	BVN         string     `gorm:"type:varchar(50)" json:"bvn,omitempty"`
	PassportURL string     `gorm:"type:varchar(512)" json:"passport_url,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName     string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'buyer'" json:"role"`

	//KYC（提出するまでunverified）
	Status       VerificationStatus `gorm:"type:varchar(20);not null;default:'unverified';index" json:"status"`
	KYC          KYCData            `gorm:"embedded;embeddedPrefix:kyc_" json:"kyc"`
	KYCAdminNote string             `gorm:"type:text" json:"kyc_admin_note,omitempty"`

	//サブスク審査の結果コピー（正本はsubscriptions）
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;default:'none'" json:"payment_status"`

	//パスワード再設定（ハッシュのみ保存）
	ResetPasswordTokenHash string     `gorm:"type:varchar(128);index" json:"-"`
	ResetPasswordExpires   *time.Time `json:"-"`

	TokenVersion int  `gorm:"not null;default:0" json:"-"`
	IsActive     bool `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
