package handler

import (
	"net/http"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/subscriptions（認証必須）
type SubscriptionHandler struct {
	uc *usecase.SubscriptionUsecase
}

func NewSubscriptionHandler(uc *usecase.SubscriptionUsecase) *SubscriptionHandler {
	return &SubscriptionHandler{uc: uc}
}

func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.submit)
	g.GET("/status", h.myStatus)
}

type submitSubscriptionRequest struct {
	PlanType   string `json:"plan_type"`
	Amount     int64  `json:"amount"`
	ReceiptURL string `json:"receipt_url"`
}

func (h *SubscriptionHandler) submit(c echo.Context) error {
	var req submitSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Submit(c.Request().Context(), currentUserID(c), usecase.SubmitSubscriptionInput{
		PlanType:   req.PlanType,
		Amount:     req.Amount,
		ReceiptURL: req.ReceiptURL,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, usecase.SuccessResponse{Message: "payment submitted for review"})
}

func (h *SubscriptionHandler) myStatus(c echo.Context) error {
	out, err := h.uc.MyStatus(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
