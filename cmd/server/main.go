package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/gigwork-backend/internal/config"
	"github.com/ignatzorin/gigwork-backend/internal/db"
	"github.com/ignatzorin/gigwork-backend/internal/goroutine"
	httpHandlers "github.com/ignatzorin/gigwork-backend/internal/http/handlers"
	httpRouter "github.com/ignatzorin/gigwork-backend/internal/http/router"
	"github.com/ignatzorin/gigwork-backend/internal/logger"
	"github.com/ignatzorin/gigwork-backend/internal/repository"
	"github.com/ignatzorin/gigwork-backend/internal/service"
	"github.com/ignatzorin/gigwork-backend/internal/storage"
	"github.com/ignatzorin/gigwork-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	logLevel := "info"
	if cfg.Env == "development" {
		logLevel = "debug"
		logger.Init(logLevel)
		logger.SetTextFormatter()
	} else {
		logger.Init(logLevel)
	}

	// Подключение к базе и миграции.
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Инициализируем вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	documentStorage, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(dbConn)
	jobRepo := repository.NewJobRepository(dbConn)
	applicationRepo := repository.NewApplicationRepository(dbConn)
	orderRepo := repository.NewOrderRepository(dbConn)
	walletRepo := repository.NewWalletRepository(dbConn)
	disputeRepo := repository.NewDisputeRepository(dbConn)
	notificationRepo := repository.NewNotificationRepository(dbConn)
	verificationRepo := repository.NewVerificationRepository(dbConn)

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()

	// Сервисы.
	authService := service.NewAuthService(userRepo, tokenManager)
	notificationService := service.NewNotificationService(notificationRepo, hub)
	jobService := service.NewJobService(jobRepo, notificationService)
	applicationService := service.NewApplicationService(applicationRepo, jobRepo, notificationService, cfg.PlatformFeeRate)
	orderService := service.NewOrderService(orderRepo, notificationService, cfg.ConfirmationWindow)
	walletService := service.NewWalletService(walletRepo, orderRepo, notificationService, cfg.WithdrawalFeeRate, cfg.WithdrawalMin, cfg.WithdrawalMax)
	disputeService := service.NewDisputeService(disputeRepo, orderRepo, notificationService)
	verificationService := service.NewVerificationService(verificationRepo, documentStorage)

	// Фоновая уборка: вакансии с истёкшим дедлайном откликов и
	// просроченные refresh-сессии.
	goroutine.SafeGoWithContext(ctx, func(ctx context.Context) {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := jobService.ExpireOverdue(ctx); err != nil {
					logger.Log.WithError(err).Warn("не удалось закрыть просроченные вакансии")
				} else if n > 0 {
					logger.Log.WithField("count", n).Info("закрыты просроченные вакансии")
				}
				if n, err := authService.CleanupExpiredSessions(ctx); err != nil {
					logger.Log.WithError(err).Warn("не удалось удалить просроченные сессии")
				} else if n > 0 {
					logger.Log.WithField("count", n).Info("удалены просроченные сессии")
				}
			}
		}
	})

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	jobHandler := httpHandlers.NewJobHandler(jobService)
	applicationHandler := httpHandlers.NewApplicationHandler(applicationService)
	orderHandler := httpHandlers.NewOrderHandler(orderService)
	walletHandler := httpHandlers.NewWalletHandler(walletService)
	disputeHandler := httpHandlers.NewDisputeHandler(disputeService)
	notificationHandler := httpHandlers.NewNotificationHandler(notificationService)
	verificationHandler := httpHandlers.NewVerificationHandler(verificationService)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(dbConn)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg,
		authHandler, jobHandler, applicationHandler, orderHandler,
		walletHandler, disputeHandler, notificationHandler,
		verificationHandler, wsHandler, healthHandler,
		tokenManager, userRepo)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s", cfg.HTTPPort)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// safeClose закрывает соединение с базой.
func safeClose(db *sqlx.DB) {
	if err := db.Close(); err != nil {
		log.Printf("main: ошибка закрытия базы: %v", err)
	}
}
