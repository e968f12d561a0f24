package handler

import (
	"net/http"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/kyc（認証必須）
type KYCHandler struct {
	uc *usecase.KYCUsecase
}

func NewKYCHandler(uc *usecase.KYCUsecase) *KYCHandler {
	return &KYCHandler{uc: uc}
}

func (h *KYCHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/submit", h.submit)
	g.GET("/status", h.status)
}

type submitKYCRequest struct {
	NIN         string `json:"nin"`
	BVN         string `json:"bvn"`
	PassportURL string `json:"passport_url"`
}

func (h *KYCHandler) submit(c echo.Context) error {
	var req submitKYCRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.Submit(c.Request().Context(), currentUserID(c), usecase.SubmitKYCInput{
		NIN:         req.NIN,
		BVN:         req.BVN,
		PassportURL: req.PassportURL,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "verification submitted"})
}

func (h *KYCHandler) status(c echo.Context) error {
	out, err := h.uc.Status(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
