package router

import (
	"github.com/gin-gonic/gin"

	"github.com/noelvk/taskpad-backend/internal/config"
	"github.com/noelvk/taskpad-backend/internal/http/handlers"
	"github.com/noelvk/taskpad-backend/internal/http/middleware"
	"github.com/noelvk/taskpad-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
	wsHandler *handlers.WSHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.GET("/ws", wsHandler.Handle)

	tasks := r.Group("/tasks")

	// Публичные маршруты аутентификации под общим rate limit.
	public := tasks.Group("")
	public.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		public.POST("/register_user", authHandler.RegisterUser)
		public.POST("/generate_otp", authHandler.GenerateOTP)
		public.GET("/validate_otp", authHandler.ValidateOTP)
	}

	// Защищённые маршруты задач.
	protected := tasks.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/task_list", taskHandler.List)
		protected.POST("/create_task", taskHandler.Create)
		protected.PATCH("/update_task", taskHandler.Update)
		protected.DELETE("/delete_task", taskHandler.Delete)
		protected.POST("/order_tasks", taskHandler.Order)
	}

	return r
}
