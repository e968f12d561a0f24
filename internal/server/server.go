package server

import (
	"net/http"

	"bulkbuy/internal/config"
	"bulkbuy/internal/handler"
	appmw "bulkbuy/internal/middleware"
	"bulkbuy/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// ルートを束ねるDIコンテナ
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Review       *handler.ReviewHandler
	KYC          *handler.KYCHandler
	Subscription *handler.SubscriptionHandler
	Admin        *handler.AdminHandler
}

// echoを組み立てて返す。Startは呼び出し側で。
func New(cfg config.Config, log zerolog.Logger, users repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(appmw.RequestLogger(log))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowCredentials: true,
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	authJWT := appmw.AuthJWT(cfg)
	tvGuard := appmw.TokenVersionGuard(users)

	// /api/auth
	authPublic := api.Group("/auth")
	authPrivate := api.Group("/auth", authJWT, tvGuard)
	h.Auth.RegisterRoutes(authPublic, authPrivate)

	// /api/products（一覧/詳細/レビュー閲覧は公開）
	productsPublic := api.Group("/products")
	productsPrivate := api.Group("/products", authJWT, tvGuard)
	h.Product.RegisterRoutes(productsPublic, productsPrivate)

	// /api/reviews
	reviewsPrivate := api.Group("/reviews", authJWT, tvGuard)
	h.Review.RegisterRoutes(productsPublic, reviewsPrivate)

	// /api/orders
	orders := api.Group("/orders", authJWT, tvGuard)
	h.Order.RegisterRoutes(orders)

	// /api/kyc
	kyc := api.Group("/kyc", authJWT, tvGuard)
	h.KYC.RegisterRoutes(kyc)

	// /api/subscriptions
	subs := api.Group("/subscriptions", authJWT, tvGuard)
	h.Subscription.RegisterRoutes(subs)

	// /api/admin（ロールで入場制限）
	admin := api.Group("/admin", authJWT, tvGuard, appmw.AdminRoleGuard())
	h.Admin.RegisterRoutes(admin)

	return e
}
