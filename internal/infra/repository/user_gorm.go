package repository

import (
	"context"
	"errors"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewUserRepository(db *gorm.DB) repo.UserRepository {
	return &userGormRepository{db: db}
}

func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userGormRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// 失効していない再設定トークンだけ照合する
func (r *userGormRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("reset_password_token_hash = ? AND reset_password_expires > ?", tokenHash, time.Now()).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repo.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}

func (r *userGormRepository) ListByStatus(ctx context.Context, status model.VerificationStatus) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("kyc_submitted_at asc").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userGormRepository) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userGormRepository) IncrementTokenVersion(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Update("token_version", gorm.Expr("token_version + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrUserNotFound
	}
	return nil
}
