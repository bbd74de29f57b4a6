package app

import (
	"context"
	"go-auth-api/config"
	"go-auth-api/db"
	"go-auth-api/handler"
	"go-auth-api/logger"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to redis: %v", err)
	}
	defer redisClient.Close()

	// --- Wiring All Layers Together ---
	// The signing key and token lifetimes are read once here and injected
	// into the token service; nothing else touches the secret.
	jwtCfg := config.AppConfig.JWT
	accessTTL := time.Duration(jwtCfg.AccessTTLMinutes) * time.Minute
	refreshTTL := time.Duration(jwtCfg.RefreshTTLHours) * time.Hour
	tokenService := service.NewTokenService([]byte(jwtCfg.SecretKey), accessTTL, refreshTTL)

	userRepo := repository.NewUserRepository(database)

	authService := service.NewAuthService(userRepo, tokenService)
	userService := service.NewUserService(userRepo, redisClient)

	userHandler := handler.NewUserHandler(userService)
	authHandler := handler.NewAuthHandler(authService, refreshTTL)
	profileHandler := handler.NewProfileHandler(userService)

	authMW := handler.AuthMiddleware(tokenService)

	r := router.NewRouter(userHandler, authHandler, profileHandler, authMW)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
