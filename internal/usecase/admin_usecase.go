package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"
)

// 認可はロールで判定する（AdminRoleGuard）。管理者メールの
// ハードコード比較はしない。
type AdminUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	subs      repo.SubscriptionRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	subs repo.SubscriptionRepository,
	auditRepo repo.AuditLogRepository,
) *AdminUsecase {
	return &AdminUsecase{
		tx:        tx,
		users:     users,
		subs:      subs,
		auditRepo: auditRepo,
	}
}

type ReviewKYCInput struct {
	UserID    int64
	Status    string // verified / rejected
	AdminNote string
}

type ReviewSubscriptionInput struct {
	SubID  int64
	UserID int64
	Status string // verified / rejected
}

// 審査待ちKYCの一覧
func (u *AdminUsecase) PendingKYC(ctx context.Context) ([]model.User, error) {
	users, err := u.users.ListByStatus(ctx, model.VerificationPending)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

// KYCの承認/却下
func (u *AdminUsecase) ReviewKYC(ctx context.Context, actorAdminID int64, in ReviewKYCInput) error {
	if actorAdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.UserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}

	status := model.VerificationStatus(in.Status)
	if status != model.VerificationVerified && status != model.VerificationRejected {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	user, err := u.users.FindByID(ctx, in.UserID)
	if errors.Is(err, repo.ErrUserNotFound) {
		return NewHTTPError(http.StatusNotFound, "user not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := string(user.Status)
	user.Status = status
	user.KYCAdminNote = in.AdminNote

	if err := u.users.Update(ctx, user); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//監査ログ（REVIEW_KYC）
	beforeJSON := `{"status":"` + before + `"}`
	afterJSON := `{"status":"` + string(status) + `"}`
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorAdminID,
		Action:       model.AuditActionReviewKYC,
		ResourceType: model.AuditResourceUser,
		ResourceID:   in.UserID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// 審査待ちサブスクの一覧
func (u *AdminUsecase) PendingSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subs, err := u.subs.ListByStatus(ctx, model.SubscriptionStatusPending)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return subs, nil
}

// サブスクの承認/却下。申請とユーザーの2件は同一トランザクションで更新する
// （承認済みなのにロールが変わらない片side書き込みを残さない）。
func (u *AdminUsecase) ReviewSubscription(ctx context.Context, actorAdminID int64, in ReviewSubscriptionInput) error {
	if actorAdminID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.SubID <= 0 || in.UserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	status := model.SubscriptionStatus(in.Status)
	if status != model.SubscriptionStatusVerified && status != model.SubscriptionStatusRejected {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		sub, err := r.Subscriptions().FindByID(ctx, in.SubID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "subscription not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if sub.UserID != in.UserID {
			return NewHTTPError(http.StatusBadRequest, "subscription does not belong to user")
		}

		user, err := r.Users().FindByID(ctx, in.UserID)
		if errors.Is(err, repo.ErrUserNotFound) {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		beforeStatus := string(sub.Status)

		sub.Status = status
		sub.ApprovedAt = &now
		if status == model.SubscriptionStatusVerified {
			var expiry time.Time
			if sub.PlanType == model.PlanTypeAnnual {
				expiry = now.AddDate(1, 0, 0)
			} else {
				expiry = now.AddDate(0, 1, 0)
			}
			sub.ExpiryDate = &expiry
		}

		if err := r.Subscriptions().Update(ctx, sub); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		user.PaymentStatus = model.PaymentStatus(status)
		//adminは降格させない
		if user.Role != model.RoleAdmin {
			if status == model.SubscriptionStatusVerified {
				user.Role = model.RoleSeller
			} else {
				user.Role = model.RoleBuyer
			}
		}

		if err := r.Users().Update(ctx, user); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//監査ログ（REVIEW_SUBSCRIPTION）
		beforeJSON := `{"status":"` + beforeStatus + `"}`
		afterJSON := `{"status":"` + string(status) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actorAdminID,
			Action:       model.AuditActionReviewSubscription,
			ResourceType: model.AuditResourceSubscription,
			ResourceID:   in.SubID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

type ListAuditLogsInput struct {
	ActorUserID *int64
	Action      string
	Limit       int
	Offset      int
}

// 管理者操作ログの一覧（新しい順）
func (u *AdminUsecase) AuditLogs(ctx context.Context, in ListAuditLogsInput) ([]model.AuditLog, error) {
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.Action != "" {
		action := model.AuditAction(in.Action)
		switch action {
		case model.AuditActionReviewKYC, model.AuditActionReviewSubscription, model.AuditActionUpdateOrderStatus:
			filter.Action = &action
		default:
			return nil, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
	}

	logs, err := u.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return logs, nil
}

// 全ユーザー一覧。password_hashはjsonタグで常に落ちる。
func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}
