package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/gigwork-backend/internal/config"
	"github.com/ignatzorin/gigwork-backend/internal/http/handlers"
	"github.com/ignatzorin/gigwork-backend/internal/http/middleware"
	"github.com/ignatzorin/gigwork-backend/internal/models"
	"github.com/ignatzorin/gigwork-backend/internal/service"
)

// SetupRouter собирает все HTTP маршруты сервиса.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	jobHandler *handlers.JobHandler,
	applicationHandler *handlers.ApplicationHandler,
	orderHandler *handlers.OrderHandler,
	walletHandler *handlers.WalletHandler,
	disputeHandler *handlers.DisputeHandler,
	notificationHandler *handlers.NotificationHandler,
	verificationHandler *handlers.VerificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
	users middleware.UserLoader,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager, users))
	{
		protectedAuth.GET("/me", authHandler.Me)
		protectedAuth.POST("/switch-role", authHandler.SwitchRole)
		protectedAuth.POST("/roles", authHandler.EnableRole)
	}

	// Публичные маршруты
	api.GET("/jobs", jobHandler.List)
	api.GET("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Get)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager, users))
	{
		protected.GET("/jobs/mine", jobHandler.ListMine)
		protected.POST("/jobs", jobHandler.Create)
		protected.PUT("/jobs/:id", middleware.UUIDValidator("id"), jobHandler.Update)
		protected.POST("/jobs/:id/cancel", middleware.UUIDValidator("id"), jobHandler.Cancel)
		protected.POST("/jobs/:id/duplicate", middleware.UUIDValidator("id"), jobHandler.Duplicate)
		protected.POST("/jobs/:id/apply", middleware.UUIDValidator("id"), applicationHandler.Apply)
		protected.GET("/jobs/:id/applications", middleware.UUIDValidator("id"), applicationHandler.ListByJob)

		protected.GET("/applications/mine", applicationHandler.ListMine)
		protected.GET("/applications/:id", middleware.UUIDValidator("id"), applicationHandler.Get)
		protected.POST("/applications/:id/accept", middleware.UUIDValidator("id"), applicationHandler.Accept)
		protected.POST("/applications/:id/reject", middleware.UUIDValidator("id"), applicationHandler.Reject)
		protected.POST("/applications/:id/cancel", middleware.UUIDValidator("id"), applicationHandler.Cancel)

		protected.GET("/orders/mine", orderHandler.ListMine)
		protected.GET("/orders/:id", middleware.UUIDValidator("id"), orderHandler.Get)
		protected.POST("/orders/:id/action", middleware.UUIDValidator("id"), orderHandler.Action)
		protected.POST("/orders/:id/fund", middleware.UUIDValidator("id"), walletHandler.FundOrder)
		protected.GET("/orders/:id/payment", middleware.UUIDValidator("id"), walletHandler.PaymentByOrder)

		protected.GET("/wallet", walletHandler.Get)
		protected.POST("/wallet/deposit", walletHandler.Deposit)
		protected.GET("/wallet/transactions", walletHandler.History)
		protected.POST("/wallet/withdrawals", walletHandler.RequestWithdrawal)
		protected.GET("/wallet/withdrawals", walletHandler.ListWithdrawals)

		protected.POST("/disputes", disputeHandler.Open)
		protected.GET("/disputes/mine", disputeHandler.ListMine)
		protected.GET("/disputes/:id", middleware.UUIDValidator("id"), disputeHandler.Get)
		protected.POST("/disputes/:id/messages", middleware.UUIDValidator("id"), disputeHandler.AddMessage)
		protected.GET("/disputes/:id/messages", middleware.UUIDValidator("id"), disputeHandler.Messages)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread-count", notificationHandler.UnreadCount)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkRead)
		protected.POST("/notifications/read-all", notificationHandler.MarkAllRead)

		protected.POST("/verification", verificationHandler.Submit)
		protected.GET("/verification", verificationHandler.ListMine)
	}

	// Администрирование
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager, users))
	admin.Use(middleware.RequireRole(models.UserRoleAdmin))
	{
		admin.POST("/jobs/:id/moderate", middleware.UUIDValidator("id"), jobHandler.Moderate)
		admin.POST("/disputes/:id/resolve", middleware.UUIDValidator("id"), disputeHandler.Resolve)
		admin.POST("/withdrawals/:id/process", middleware.UUIDValidator("id"), walletHandler.ProcessWithdrawal)
		admin.GET("/verification", verificationHandler.ListPending)
		admin.POST("/verification/:id/review", middleware.UUIDValidator("id"), verificationHandler.Review)
	}

	return r
}
