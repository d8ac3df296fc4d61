package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nomadpal/concierge-service/internal/config"
	"nomadpal/concierge-service/internal/handler"
	"nomadpal/concierge-service/internal/repository"
	"nomadpal/concierge-service/internal/services"
	"nomadpal/concierge-service/internal/utils"
	"nomadpal/internal/authclient"
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
		log.Fatal("Mongo connection failed:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return mongoClient.Disconnect(ctx)
	})

	db := mongoClient.Database(cfg.MongoDB.DBName)

	repo := repository.NewChatRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Printf("[CONCIERGE] Failed to create indexes: %v", err)
	}

	var responder services.Responder = services.NewCannedResponder(rand.NewSource(time.Now().UnixNano()))
	if cfg.LLM.APIKey != "" {
		llm := services.NewLLMResponder(services.LLMConfig{
			APIKey:       cfg.LLM.APIKey,
			BaseURL:      cfg.LLM.BaseURL,
			Model:        cfg.LLM.Model,
			HistoryLimit: cfg.LLM.HistoryLimit,
		})
		responder = services.NewFallbackResponder(llm, responder, log.Printf)
		log.Printf("[CONCIERGE] Using LLM responder with model %s", cfg.LLM.Model)
	}

	conciergeService := services.NewConciergeService(repo, responder, utils.NewMarketplaceClient(cfg.Marketplace.URL))
	chatHandler := handler.NewChatHandler(conciergeService)

	router := gin.Default()
	chatHandler.RegisterRoutes(router, authclient.AuthMiddleware(authclient.NewAuthClient(cfg.AuthService.URL)))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Concierge service running on :%s", cfg.Server.Port)
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
