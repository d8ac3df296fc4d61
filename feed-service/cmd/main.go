package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/feed-service/internal/config"
	"nomadpal/feed-service/internal/handler"
	"nomadpal/feed-service/internal/repository"
	"nomadpal/feed-service/internal/services"
	"nomadpal/internal/authclient"
	"nomadpal/internal/cache"
	"nomadpal/internal/events"
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

	postRepo := repository.NewPostRepository(db)
	locationService := services.NewLocationService(redisClient)
	postService := services.NewPostService(postRepo, redisClient, locationService, events.NewRedisPublisher(redisClient.Raw()))
	postHandler := handler.NewPostHandler(postService, locationService)

	cacheRefresher := services.NewCacheRefresher(postService, cfg.Cache.RefreshInterval)
	cacheRefresher.Start(ctx)

	router := gin.Default()
	postHandler.RegisterRoutes(router, authclient.AuthMiddleware(authclient.NewAuthClient(cfg.AuthService.URL)))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Feed service running on :%s", cfg.Server.Port)
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
