package usecase

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"
)

// 商品のavg_rating/review_countをレビュー全件から再計算して保つ。
// キャッシュ2列はレビュー集合からいつでも導出できる値で、正本はreviews。
type ReviewUsecase struct {
	tx      repo.TransactionManager
	reviews repo.ReviewRepository
}

func NewReviewUsecase(tx repo.TransactionManager, reviews repo.ReviewRepository) *ReviewUsecase {
	return &ReviewUsecase{tx: tx, reviews: reviews}
}

type UpsertReviewInput struct {
	ProductID int64
	Rating    int
	Comment   string
}

type ReviewListOutput struct {
	Reviews     []model.Review `json:"reviews"`
	AvgRating   float64        `json:"avg_rating"`
	ReviewCount int64          `json:"review_count"`
}

// 全件の平均（小数1桁丸め）と件数。0件なら(0, 0)。
func computeAggregate(reviews []model.Review) (float64, int64) {
	if len(reviews) == 0 {
		return 0, 0
	}

	var sum int64
	for _, r := range reviews {
		sum += int64(r.Rating)
	}

	avg := math.Round(float64(sum)/float64(len(reviews))*10) / 10
	return avg, int64(len(reviews))
}

// レビュー投稿・上書き。(user, product)につき1件。
func (u *ReviewUsecase) Upsert(ctx context.Context, userID int64, in UpsertReviewInput) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	comment := strings.TrimSpace(in.Comment)
	if comment == "" || len(comment) > 2000 {
		return NewHTTPError(http.StatusBadRequest, "invalid comment")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Products().FindByID(ctx, in.ProductID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()

		existing, err := r.Reviews().FindByUserAndProduct(ctx, userID, in.ProductID)
		switch {
		case err == nil:
			existing.Rating = in.Rating
			existing.Comment = comment
			existing.UpdatedAt = now
			if err := r.Reviews().Update(ctx, existing); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		case errors.Is(err, repo.ErrNotFound):
			_, err := r.Reviews().Create(ctx, model.Review{
				UserID:    userID,
				ProductID: in.ProductID,
				Rating:    in.Rating,
				Comment:   comment,
				CreatedAt: now,
				UpdatedAt: now,
			})
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		default:
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return u.recompute(ctx, r, p.ID)
	})
}

// レビュー削除。本人のみ。削除後も集計を全件から引き直す。
func (u *ReviewUsecase) Delete(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		rv, err := r.Reviews().FindByUserAndProduct(ctx, userID, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "review not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//キー推測対策。取得キーと保存済みuser_idの両方を見る。
		if rv.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "you can only delete your own review")
		}

		if err := r.Reviews().DeleteByID(ctx, rv.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return u.recompute(ctx, r, productID)
	})
}

// 商品のレビュー一覧（新しい順）と、その場で計算した集計。
// 表示はキャッシュ列ではなく常にこの計算結果を使う（ズレの自己修復）。
func (u *ReviewUsecase) ListForProduct(ctx context.Context, productID int64) (ReviewListOutput, error) {
	if productID <= 0 {
		return ReviewListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	reviews, err := u.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return ReviewListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	avg, count := computeAggregate(reviews)
	return ReviewListOutput{
		Reviews:     reviews,
		AvgRating:   avg,
		ReviewCount: count,
	}, nil
}

// レビュー全件を読み直してキャッシュ2列を書き戻す
func (u *ReviewUsecase) recompute(ctx context.Context, r repo.TxRepos, productID int64) error {
	all, err := r.Reviews().ListByProduct(ctx, productID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	avg, count := computeAggregate(all)
	if err := r.Products().UpdateRating(ctx, productID, avg, count); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
