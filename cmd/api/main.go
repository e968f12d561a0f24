package main

import (
	"os"
	"time"

	"bulkbuy/internal/config"
	"bulkbuy/internal/domain/model"
	"bulkbuy/internal/handler"
	"bulkbuy/internal/infra/db"
	"bulkbuy/internal/infra/mail"
	"bulkbuy/internal/infra/media"
	infraRepo "bulkbuy/internal/infra/repository"
	"bulkbuy/internal/server"
	"bulkbuy/internal/usecase"
	"bulkbuy/internal/validator"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	// .envは任意（コンテナでは環境変数直渡し）
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("GO_ENV") == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("db connect failed")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.OrderMessage{},
		&model.Review{},
		&model.Subscription{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("auto migrate failed")
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	subRepo := infraRepo.NewSubscriptionGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	mailer := mail.NewLogMailer(log)
	cleaner := media.NewLogCleaner(log)
	authValidator := validator.NewAuthValidator(userRepo)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, rtRepo, authValidator, mailer)
	productUC := usecase.NewProductUsecase(productRepo, orderRepo, cleaner)
	orderUC := usecase.NewOrderUsecase(txManager, auditRepo, cfg.OrderStrictFlow)
	reviewUC := usecase.NewReviewUsecase(txManager, reviewRepo)
	kycUC := usecase.NewKYCUsecase(userRepo)
	subUC := usecase.NewSubscriptionUsecase(subRepo, userRepo)
	adminUC := usecase.NewAdminUsecase(txManager, userRepo, subRepo, auditRepo)

	//Handler生成
	refreshTTL := 30 * 24 * time.Hour
	cookieSecure := cfg.GoEnv != "dev"

	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC, refreshTTL, cookieSecure),
		Product:      handler.NewProductHandler(productUC),
		Order:        handler.NewOrderHandler(orderUC),
		Review:       handler.NewReviewHandler(reviewUC),
		KYC:          handler.NewKYCHandler(kycUC),
		Subscription: handler.NewSubscriptionHandler(subUC),
		Admin:        handler.NewAdminHandler(adminUC),
	}

	e := server.New(cfg, log, userRepo, handlers)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
