package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/internal/cache"
	"nomadpal/internal/events"
	"nomadpal/internal/mongodb"
	"nomadpal/internal/shutdown"
	"nomadpal/user-service/internal/config"
	"nomadpal/user-service/internal/handler"
	"nomadpal/user-service/internal/repository"
	"nomadpal/user-service/internal/services"
)

func main() {
	ctx, shutdownManager := shutdown.New(context.Background())
	shutdownManager.StartListening()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	client, err := mongodb.NewMongoDBConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	db := client.Database(cfg.MongoDB.DBName)
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Disconnecting MongoDB...")
		return client.Disconnect(ctx)
	})

	redisClient, err := cache.NewRedisClient(cfg.Server.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	userRepo := repository.NewUserRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	if err := reviewRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("[USERS] Failed to create review indexes: %v", err)
	}

	userSvc := services.NewUserService(userRepo, reviewRepo, redisClient)
	reviewSvc := services.NewReviewService(userRepo, reviewRepo, events.NewRedisPublisher(redisClient.Raw()))
	h := handler.NewUserHandler(userSvc, reviewSvc)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.RedirectTrailingSlash = false

	h.RegisterRoutes(router, authclient.AuthMiddleware(authclient.NewAuthClient(cfg.AuthService.URL)))

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
	go func() {
		log.Println("User service listening on", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] HTTP server shutting down...")
		return srv.Shutdown(ctx)
	})

	select {}
}
