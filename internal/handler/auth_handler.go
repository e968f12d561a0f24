package handler

import (
	"errors"
	"net/http"
	"time"

	"bulkbuy/internal/usecase"

	"github.com/labstack/echo/v4"
)

const refreshCookieName = "refresh"

type AuthHandler struct {
	uc           *usecase.AuthUsecase
	refreshTTL   time.Duration
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(uc *usecase.AuthUsecase, refreshTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		uc:           uc,
		refreshTTL:   refreshTTL,
		cookieSecure: cookieSecure,
	}
}

func (h *AuthHandler) RegisterRoutes(public *echo.Group, authed *echo.Group) {
	public.POST("/signup", h.signup)
	public.POST("/login", h.login)
	public.POST("/refresh", h.refresh)
	public.POST("/logout", h.logout)
	public.POST("/forgot-password", h.forgotPassword)
	public.POST("/reset-password/:token", h.resetPassword)

	authed.GET("/me", h.me)
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password string `json:"password"`
}

// usecaseのsentinel errorをHTTPステータスへ変換
func writeAuthError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrSecurityIncident):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already used"})
	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}

func (h *AuthHandler) signup(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.Register(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInternal) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Login(c.Request().Context(), req, userAgent)
	if err != nil {
		if errors.Is(err, usecase.ErrInternal) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return writeAuthError(c, err)
	}

	//refreshはHttpOnly cookieで返す（bodyには載せない）
	h.setRefreshCookie(c, out.RefreshTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	userAgent := c.Request().Header.Get("User-Agent")

	out, err := h.uc.Refresh(c.Request().Context(), cookie.Value, userAgent)
	if err != nil {
		h.clearRefreshCookie(c)
		if errors.Is(err, usecase.ErrInternal) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return writeAuthError(c, err)
	}

	h.setRefreshCookie(c, out.RefreshTokenPlain)

	return c.JSON(http.StatusOK, out.Body)
}

func (h *AuthHandler) logout(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Logout(c.Request().Context(), cookie.Value)
	if err != nil {
		h.clearRefreshCookie(c)
		return writeAuthError(c, err)
	}

	h.clearRefreshCookie(c)

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	out, err := h.uc.Me(c.Request().Context(), currentUserID(c))
	if err != nil {
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) forgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ForgotPassword(c.Request().Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrInternal) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) resetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.ResetPassword(c.Request().Context(), c.Param("token"), req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInternal) {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return writeAuthError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// refreshtokenをCookieにセット。
func (h *AuthHandler) setRefreshCookie(c echo.Context, plainRefresh string) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    plainRefresh,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(h.refreshTTL),
	})
}

func (h *AuthHandler) clearRefreshCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
