package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/kitir-joshi/task-manager-app/internal/config"
	"github.com/kitir-joshi/task-manager-app/internal/database"
	"github.com/kitir-joshi/task-manager-app/internal/handlers"
	"github.com/kitir-joshi/task-manager-app/internal/middleware"
	"github.com/kitir-joshi/task-manager-app/internal/repository"
	"github.com/kitir-joshi/task-manager-app/internal/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		logger.Fatalf("auth jwt secret is required")
	}

	gin.SetMode(cfg.Server.GinMode)

	if err := database.Connect(cfg); err != nil {
		logger.Fatalf("connect database: %v", err)
	}
	if err := database.Migrate(); err != nil {
		logger.Fatalf("run migrations: %v", err)
	}
	logger.Info("database ready")

	userRepo := repository.NewUserRepository(database.GetDB())
	taskRepo := repository.NewTaskRepository(database.GetDB())

	tokenTTL := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret, tokenTTL)
	taskService := services.NewTaskService(taskRepo, userRepo)
	userService := services.NewUserService(userRepo)

	handlers.SetLogger(logger)
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	userHandler := handlers.NewUserHandler(userService, taskService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.RequireAuth(cfg.Auth.JWTSecret), authHandler.Me)
		}

		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			tasks.GET("", taskHandler.ListTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/stats/overview", taskHandler.Stats)
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/comments", taskHandler.AddComment)
		}

		users := api.Group("/users")
		users.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
		{
			users.GET("", middleware.RequireAdmin(), userHandler.ListUsers)
			users.GET("/profile", userHandler.GetProfile)
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/change-password", userHandler.ChangePassword)
			users.GET("/stats", userHandler.GetStats)
			users.GET("/tasks", userHandler.GetTasks)
			users.PUT("/:userId/role", middleware.RequireAdmin(), userHandler.UpdateRole)
			users.PUT("/:userId/status", middleware.RequireAdmin(), userHandler.UpdateStatus)
		}
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
}
