package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noelvk/taskpad-backend/internal/config"
	"github.com/noelvk/taskpad-backend/internal/db"
	httpHandlers "github.com/noelvk/taskpad-backend/internal/http/handlers"
	httpRouter "github.com/noelvk/taskpad-backend/internal/http/router"
	"github.com/noelvk/taskpad-backend/internal/logger"
	"github.com/noelvk/taskpad-backend/internal/repository"
	"github.com/noelvk/taskpad-backend/internal/service"
	"github.com/noelvk/taskpad-backend/internal/sms"
	"github.com/noelvk/taskpad-backend/internal/ws"
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
	dbConn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.PoolOptions{
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose(dbConn)

	if err := db.RunMigrations(ctx, dbConn, cfg.MigrationsPath); err != nil {
		log.Fatalf("main: ошибка миграций: %v", err)
	}

	executor := db.NewExecutor(dbConn)

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret)

	var otpSender service.OTPSender
	if cfg.SMSAPIKey != "" {
		otpSender = sms.NewClient(cfg.SMSAPIKey, cfg.SMSSender)
	}

	// Репозитории.
	userRepo := repository.NewUserRepository(executor)
	otpRepo := repository.NewOTPRepository(executor)
	taskRepo := repository.NewTaskRepository(executor)

	// Сервисы.
	authService := service.NewAuthService(userRepo, otpRepo, tokenManager, otpSender, cfg.OTPLength)
	taskService := service.NewTaskService(taskRepo)

	// Вебсокеты: события об изменениях задач уходят владельцу.
	hub := ws.NewHub()
	go hub.Run()
	taskService.SetNotifier(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService)
	taskHandler := httpHandlers.NewTaskHandler(taskService)
	healthHandler := httpHandlers.NewHealthHandler(executor)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, taskHandler, healthHandler, wsHandler, tokenManager)

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
