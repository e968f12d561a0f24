package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"bulkbuy/internal/domain/model"
	repo "bulkbuy/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 外部ストレージ上のメディア掃除（ベストエフォート）
type MediaCleaner interface {
	Cleanup(ctx context.Context, urls []string)
}

type ProductUsecase struct {
	productRepo repo.ProductRepository
	orderRepo   repo.OrderRepository
	cleaner     MediaCleaner
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	orderRepo repo.OrderRepository,
	cleaner MediaCleaner,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cleaner:     cleaner,
	}
}

// POST /products/addの入力DTO
type CreateProductInput struct {
	Name         string
	Description  string
	IsPromo      bool
	Images       []string
	Video        string
	PricingTiers []model.PricingTier
}

type UpdateProductInput struct {
	Name         string
	Description  string
	IsPromo      bool
	Images       []string
	Video        string
	PricingTiers []model.PricingTier
	Status       string
}

type ListProductsInput struct {
	Page     int
	Limit    int
	Q        string
	MinPrice *int64
	MaxPrice *int64
	Sort     string
}

type ProductListOutput struct {
	Items []model.Product `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

type DashboardOutput struct {
	ProductCount     int64 `json:"product_count"`
	OrderCount       int64 `json:"order_count"`
	CompletedRevenue int64 `json:"completed_revenue"`
}

// 出品。seller（またはadmin）だけが登録できる。
func (u *ProductUsecase) Create(ctx context.Context, userID int64, role model.Role, in CreateProductInput) (model.Product, error) {
	if userID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if role != model.RoleSeller && role != model.RoleAdmin {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "seller account required")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if err := model.ValidateTiers(in.PricingTiers); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p := model.Product{
		UserID:       userID,
		Name:         name,
		Description:  in.Description,
		IsPromo:      in.IsPromo,
		Images:       in.Images,
		Video:        in.Video,
		PricingTiers: in.PricingTiers,
		Status:       model.ProductStatusActive,
	}

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

func (u *ProductUsecase) ListMine(ctx context.Context, userID int64) ([]model.Product, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.productRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func (u *ProductUsecase) Update(ctx context.Context, userID int64, productID int64, in UpdateProductInput) (model.Product, error) {
	if userID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//所有チェック（他人の商品なら403）
	if p.UserID != userID {
		return model.Product{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 255 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}
	if err := model.ValidateTiers(in.PricingTiers); err != nil {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	switch in.Status {
	case "", string(model.ProductStatusActive), string(model.ProductStatusWithdrawn):
		// OK
	default:
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	p.Name = name
	p.Description = in.Description
	p.IsPromo = in.IsPromo
	p.Images = in.Images
	p.Video = in.Video
	p.PricingTiers = in.PricingTiers
	if in.Status != "" {
		p.Status = model.ProductStatus(in.Status)
	}

	if err := u.productRepo.Update(ctx, p); err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

// 削除後にメディア参照を掃除する。掃除の失敗は削除を失敗にしない。
func (u *ProductUsecase) Delete(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.UserID != userID {
		return NewHTTPError(http.StatusForbidden, "forbidden")
	}

	if err := u.productRepo.SoftDelete(ctx, productID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	urls := append([]string{}, p.Images...)
	if p.Video != "" {
		urls = append(urls, p.Video)
	}
	u.cleaner.Cleanup(ctx, urls)

	return nil
}

func (u *ProductUsecase) ListPublic(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid q")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid min_price")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid max_price")
	}

	items, total, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{
		Page:     in.Page,
		Limit:    in.Limit,
		Q:        in.Q,
		MinPrice: in.MinPrice,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Items: items,
		Total: total,
		Page:  in.Page,
		Limit: in.Limit,
	}, nil
}

// 公開詳細。取り下げ済みは存在しない扱い。
func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.Status != model.ProductStatusActive {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	return p, nil
}

// 出品者ダッシュボード
func (u *ProductUsecase) Dashboard(ctx context.Context, userID int64) (DashboardOutput, error) {
	if userID <= 0 {
		return DashboardOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	products, err := u.productRepo.CountByUser(ctx, userID)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	orders, err := u.orderRepo.CountBySeller(ctx, userID)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	revenue, err := u.orderRepo.SumCompletedBySeller(ctx, userID)
	if err != nil {
		return DashboardOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DashboardOutput{
		ProductCount:     products,
		OrderCount:       orders,
		CompletedRevenue: revenue,
	}, nil
}
