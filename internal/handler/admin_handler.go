package handler

import (
	"net/http"
	"strconv"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin（AuthJWT + AdminRoleGuardの下に置く）
type AdminHandler struct {
	uc *usecase.AdminUsecase
}

func NewAdminHandler(uc *usecase.AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/kyc/pending", h.pendingKYC)
	g.POST("/kyc/review", h.reviewKYC)
	g.GET("/subscriptions/pending", h.pendingSubscriptions)
	g.POST("/subscriptions/review", h.reviewSubscription)
	g.GET("/users", h.listUsers)
	g.GET("/audit-logs", h.auditLogs)
}

type reviewKYCRequest struct {
	UserID    int64  `json:"user_id"`
	Status    string `json:"status"`
	AdminNote string `json:"admin_note"`
}

type reviewSubscriptionRequest struct {
	SubID  int64  `json:"sub_id"`
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
}

func (h *AdminHandler) pendingKYC(c echo.Context) error {
	out, err := h.uc.PendingKYC(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) reviewKYC(c echo.Context) error {
	var req reviewKYCRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ReviewKYC(c.Request().Context(), currentUserID(c), usecase.ReviewKYCInput{
		UserID:    req.UserID,
		Status:    req.Status,
		AdminNote: req.AdminNote,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "kyc reviewed"})
}

func (h *AdminHandler) pendingSubscriptions(c echo.Context) error {
	out, err := h.uc.PendingSubscriptions(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) reviewSubscription(c echo.Context) error {
	var req reviewSubscriptionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if err := h.uc.ReviewSubscription(c.Request().Context(), currentUserID(c), usecase.ReviewSubscriptionInput{
		SubID:  req.SubID,
		UserID: req.UserID,
		Status: req.Status,
	}); err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: "subscription reviewed"})
}

func (h *AdminHandler) auditLogs(c echo.Context) error {
	var in usecase.ListAuditLogsInput

	if v := c.QueryParam("actor_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid actor_id"})
		}
		in.ActorUserID = &id
	}
	in.Action = c.QueryParam("action")

	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		in.Limit = l
	}
	if v := c.QueryParam("offset"); v != "" {
		o, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid offset"})
		}
		in.Offset = o
	}

	out, err := h.uc.AuditLogs(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listUsers(c echo.Context) error {
	out, err := h.uc.ListUsers(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}
