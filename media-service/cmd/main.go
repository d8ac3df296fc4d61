package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/internal/mongodb"
	"nomadpal/internal/shutdown"
	"nomadpal/media-service/internal/config"
	"nomadpal/media-service/internal/handler"
	"nomadpal/media-service/internal/repository"
	service "nomadpal/media-service/internal/services"
	"nomadpal/media-service/internal/utils"
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
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	db := mongoClient.Database(cfg.MongoDB.DBName)

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	storage, err := utils.NewMinioStorage(ctx, utils.MinioConfig{
		Endpoint:  cfg.Minio.Endpoint,
		AccessKey: cfg.Minio.AccessKey,
		SecretKey: cfg.Minio.SecretKey,
		Bucket:    cfg.Minio.Bucket,
		UseSSL:    cfg.Minio.UseSSL,
	})
	if err != nil {
		log.Fatalf("minio init: %v", err)
	}

	repo := repository.NewMediaRepository(db)
	publicURL := strings.TrimRight(cfg.Minio.PublicURL, "/") + "/" + storage.Bucket()
	svc := service.NewMediaService(repo, storage, utils.NewUserClient(cfg.UserService.URL), publicURL)
	mediaHandler := handler.NewMediaHandler(svc)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.RedirectTrailingSlash = false
	mediaHandler.RegisterRoutes(router, authclient.AuthMiddleware(authclient.NewAuthClient(cfg.AuthService.URL)))

	server := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Media Service running on port %s", cfg.Server.Port)
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
