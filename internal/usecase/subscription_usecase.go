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

type SubscriptionUsecase struct {
	subs  repo.SubscriptionRepository
	users repo.UserRepository
}

func NewSubscriptionUsecase(subs repo.SubscriptionRepository, users repo.UserRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{subs: subs, users: users}
}

type SubmitSubscriptionInput struct {
	PlanType   string
	Amount     int64
	ReceiptURL string
}

type SubscriptionStatusOutput struct {
	ID          int64      `json:"id,omitempty"`
	Status      string     `json:"status"`
	PlanType    string     `json:"plan_type,omitempty"`
	Amount      int64      `json:"amount,omitempty"`
	ReceiptURL  string     `json:"receipt_url,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
}

// 支払い申請。レシートを添えてpendingで積む。
func (u *SubscriptionUsecase) Submit(ctx context.Context, userID int64, in SubmitSubscriptionInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	plan := model.PlanType(strings.TrimSpace(in.PlanType))
	if plan != model.PlanTypeMonthly && plan != model.PlanTypeAnnual {
		return NewHTTPError(http.StatusBadRequest, "invalid plan_type")
	}
	if in.Amount <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid amount")
	}
	receipt := strings.TrimSpace(in.ReceiptURL)
	if receipt == "" {
		return NewHTTPError(http.StatusBadRequest, "receipt is required")
	}

	user, err := u.users.FindByID(ctx, userID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "account not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_, err = u.subs.Create(ctx, model.Subscription{
		UserID:      userID,
		PlanType:    plan,
		Amount:      in.Amount,
		ReceiptURL:  receipt,
		Status:      model.SubscriptionStatusPending,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//審査待ちをユーザー側にも反映
	user.PaymentStatus = model.PaymentStatusPending
	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 最新の申請状況。期限切れのverifiedはnone扱い（再申請フォームに戻す）。
func (u *SubscriptionUsecase) MyStatus(ctx context.Context, userID int64) (SubscriptionStatusOutput, error) {
	if userID <= 0 {
		return SubscriptionStatusOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	sub, found, err := u.subs.FindLatestByUser(ctx, userID)
	if err != nil {
		return SubscriptionStatusOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !found {
		return SubscriptionStatusOutput{Status: "none"}, nil
	}

	if sub.Status == model.SubscriptionStatusVerified && sub.ExpiryDate != nil {
		if time.Now().After(*sub.ExpiryDate) {
			return SubscriptionStatusOutput{Status: "none"}, nil
		}
	}

	return SubscriptionStatusOutput{
		ID:          sub.ID,
		Status:      string(sub.Status),
		PlanType:    string(sub.PlanType),
		Amount:      sub.Amount,
		ReceiptURL:  sub.ReceiptURL,
		SubmittedAt: &sub.SubmittedAt,
		ExpiryDate:  sub.ExpiryDate,
	}, nil
}
