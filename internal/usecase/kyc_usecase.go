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

type KYCUsecase struct {
	users repo.UserRepository
}

func NewKYCUsecase(users repo.UserRepository) *KYCUsecase {
	return &KYCUsecase{users: users}
}

type SubmitKYCInput struct {
	NIN         string
	BVN         string
	PassportURL string
}

type KYCStatusOutput struct {
	Status string `json:"status"`
}

// 書類提出。pending/verifiedの間は再提出できない。
func (u *KYCUsecase) Submit(ctx context.Context, userID int64, in SubmitKYCInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	nin := strings.TrimSpace(in.NIN)
	bvn := strings.TrimSpace(in.BVN)
	passport := strings.TrimSpace(in.PassportURL)
	if nin == "" || bvn == "" || passport == "" {
		return NewHTTPError(http.StatusBadRequest, "nin, bvn and passport are required")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//審査中・承認済みはガード
	if user.Status == model.VerificationPending {
		return NewHTTPError(http.StatusBadRequest, "verification is already pending")
	}
	if user.Status == model.VerificationVerified {
		return NewHTTPError(http.StatusBadRequest, "account is already verified")
	}

	now := time.Now()
	user.Status = model.VerificationPending
	user.KYC = model.KYCData{
		NIN:         nin,
		BVN:         bvn,
		PassportURL: passport,
		SubmittedAt: &now,
	}

	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *KYCUsecase) Status(ctx context.Context, userID int64) (KYCStatusOutput, error) {
	if userID <= 0 {
		return KYCStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return KYCStatusOutput{}, NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return KYCStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	status := user.Status
	if status == "" {
		status = model.VerificationUnverified
	}
	return KYCStatusOutput{Status: string(status)}, nil
}
