package handler

import (
	"net/http"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/orders（全ルート認証必須）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/initiate", h.initiate)
	g.GET("", h.listMine)
	g.PATCH("/status/:orderId", h.updateStatus)
	g.PUT("/complete/:orderId", h.complete)
	g.GET("/my-chats", h.myChats)
	g.GET("/messages/:orderId", h.messages)
	g.POST("/messages/:orderId", h.postMessage)
}

type initiateOrderRequest struct {
	ProductID   int64 `json:"product_id"`
	SellerID    int64 `json:"seller_id"`
	Quantity    int64 `json:"quantity"`
	TotalAmount int64 `json:"total_amount"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type postMessageRequest struct {
	Body string `json:"body"`
}

func (h *OrderHandler) initiate(c echo.Context) error {
	var req initiateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Initiate(c.Request().Context(), currentUserID(c), usecase.InitiateOrderInput{
		ProductID:   req.ProductID,
		SellerID:    req.SellerID,
		Quantity:    req.Quantity,
		TotalAmount: req.TotalAmount,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMine(c echo.Context) error {
	out, err := h.uc.ListMyOrders(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) updateStatus(c echo.Context) error {
	orderID, err := paramInt64(c, "orderId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	msg, err := h.uc.UpdateStatus(c.Request().Context(), orderID, currentUserID(c), req.Status)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: msg})
}

// completedへのショートカット
func (h *OrderHandler) complete(c echo.Context) error {
	orderID, err := paramInt64(c, "orderId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	msg, err := h.uc.UpdateStatus(c.Request().Context(), orderID, currentUserID(c), "completed")
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, usecase.SuccessResponse{Message: msg})
}

func (h *OrderHandler) myChats(c echo.Context) error {
	out, err := h.uc.MyThreads(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) messages(c echo.Context) error {
	orderID, err := paramInt64(c, "orderId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Messages(c.Request().Context(), currentUserID(c), orderID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) postMessage(c echo.Context) error {
	orderID, err := paramInt64(c, "orderId")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req postMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.PostMessage(c.Request().Context(), currentUserID(c), orderID, req.Body)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
