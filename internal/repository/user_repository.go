package repository

import (
	"context"
	"errors"

	"bulkbuy/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//パスワード再設定トークン（ハッシュ・未失効）で1件取得する。
	FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error)
	// ユーザー情報の更新=>KYC提出・審査結果・ロール変更・最終ログインなど
	Update(ctx context.Context, user *model.User) error
	//KYCステータスで絞った一覧（管理者の審査キュー）
	ListByStatus(ctx context.Context, status model.VerificationStatus) ([]model.User, error)
	//全ユーザー一覧（新しい順）
	ListAll(ctx context.Context) ([]model.User, error)
	//トークンのバージョンを＋１
	IncrementTokenVersion(ctx context.Context, userID int64) error
}
