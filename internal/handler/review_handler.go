package handler

import (
	"net/http"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// レビューの投稿/削除は認証必須。一覧は商品ルート側で公開。
type ReviewHandler struct {
	uc *usecase.ReviewUsecase
}

func NewReviewHandler(uc *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	// GET /api/products/:id/reviews
	public.GET("/:id/reviews", h.listForProduct)

	authed.POST("", h.upsert)
	authed.DELETE("/:productId", h.delete)
}

type upsertReviewRequest struct {
	ProductID int64  `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (h *ReviewHandler) listForProduct(c echo.Context) error {
	productID, err := paramInt64(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ListForProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ReviewHandler) upsert(c echo.Context) error {
	var req upsertReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Upsert(c.Request().Context(), currentUserID(c), usecase.UpsertReviewInput{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "review saved"})
}

func (h *ReviewHandler) delete(c echo.Context) error {
	productID, err := paramInt64(c, "productId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.uc.Delete(c.Request().Context(), currentUserID(c), productID); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "review deleted"})
}
