package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/auth-service/internal/config"
	handlers "nomadpal/auth-service/internal/handler"
	repositories "nomadpal/auth-service/internal/repository"
	"nomadpal/auth-service/internal/services"
	"nomadpal/auth-service/internal/utils"
	"nomadpal/internal/cache"
	"nomadpal/internal/mongodb"
	"nomadpal/internal/shutdown"
)

func main() {
	ctx, shutdownManager := shutdown.New(context.Background())
	shutdownManager.StartListening()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	mongoClient, err := mongodb.NewMongoDBConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	db := mongoClient.Database(cfg.MongoDB.DBName)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	redisClient, err := cache.NewRedisClient(cfg.Server.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	userRepo := repositories.NewUserRepository(db)
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("[AUTH] Failed to create user indexes: %v", err)
	}

	jwtUtil := utils.NewJWTUtil(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	googleAuth := services.NewGoogleAuthService(cfg.Auth.GoogleClientID)
	authService := services.NewAuthService(userRepo, jwtUtil, googleAuth, redisClient, cfg.Auth.SessionTTL)
	authHandler := handlers.NewAuthHandler(authService)

	router := gin.Default()
	authHandler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Auth service running on :%s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return server.Shutdown(ctx)
	})

	select {}
}
