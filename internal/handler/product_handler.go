package handler

import (
	"net/http"
	"strconv"

	"bulkbuy/internal/domain/model"
	"bulkbuy/internal/middleware"
	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// AuthJWTが入れたuser_idを取り出す
func currentUserID(c echo.Context) int64 {
	v, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok {
		return 0
	}
	return v
}

// AuthJWTが入れたroleを取り出す
func currentUserRole(c echo.Context) model.Role {
	v, ok := c.Get(middleware.CtxUserRoleKey).(string)
	if !ok {
		return ""
	}
	return model.Role(v)
}

func paramInt64(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// /api/products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開ルートと認証付きルートを登録
func (h *ProductHandler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	public.GET("", h.list)
	public.GET("/:id", h.detail)

	authed.POST("/add", h.create)
	authed.GET("/user", h.listMine)
	authed.PUT("/update/:productId", h.update)
	authed.DELETE("/delete/:productId", h.delete)
	authed.GET("/user-dashboard", h.dashboard)
}

type productRequest struct {
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	IsPromo      bool                `json:"is_promo"`
	Images       []string            `json:"images"`
	Video        string              `json:"video"`
	PricingTiers []model.PricingTier `json:"pricing_tiers"`
	Status       string              `json:"status,omitempty"`
}

func (h *ProductHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	q := c.QueryParam("q")
	sort := c.QueryParam("sort")

	var minPrice *int64
	if v := c.QueryParam("min_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
		}
		minPrice = &x
	}

	var maxPrice *int64
	if v := c.QueryParam("max_price"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
		}
		maxPrice = &x
	}

	out, err := h.uc.ListPublic(c.Request().Context(), usecase.ListProductsInput{
		Page:     page,
		Limit:    limit,
		Q:        q,
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Sort:     sort,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) create(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Create(c.Request().Context(), currentUserID(c), currentUserRole(c), usecase.CreateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		IsPromo:      req.IsPromo,
		Images:       req.Images,
		Video:        req.Video,
		PricingTiers: req.PricingTiers,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, p)
}

func (h *ProductHandler) listMine(c echo.Context) error {
	items, err := h.uc.ListMine(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, items)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := paramInt64(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	p, err := h.uc.Update(c.Request().Context(), currentUserID(c), id, usecase.UpdateProductInput{
		Name:         req.Name,
		Description:  req.Description,
		IsPromo:      req.IsPromo,
		Images:       req.Images,
		Video:        req.Video,
		PricingTiers: req.PricingTiers,
		Status:       req.Status,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) delete(c echo.Context) error {
	id, err := paramInt64(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), currentUserID(c), id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "product deleted"})
}

func (h *ProductHandler) dashboard(c echo.Context) error {
	out, err := h.uc.Dashboard(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
