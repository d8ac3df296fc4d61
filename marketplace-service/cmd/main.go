package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"nomadpal/internal/authclient"
	"nomadpal/internal/mongodb"
	"nomadpal/internal/shutdown"
	"nomadpal/marketplace-service/config"
	"nomadpal/marketplace-service/internal/handler"
	"nomadpal/marketplace-service/internal/repository"
	"nomadpal/marketplace-service/internal/service"
	"nomadpal/marketplace-service/utils/middleware"
)

func main() {
	ctx, shutdownManager := shutdown.New(context.Background())
	shutdownManager.StartListening()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Error parsing configs: %v", err)
	}

	// Connect to MongoDB
	client, err := mongodb.NewMongoDBConnection(ctx, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Error connecting to MongoDB: %v", err)
	}
	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing MongoDB connection...")
		return client.Disconnect(ctx)
	})

	// Initialize components
	serviceRepo := repository.NewServiceRepository(client.Database(cfg.MongoDB.DBName))
	serviceSrv := services.NewMarketplaceService(serviceRepo)
	serviceHandler := handlers.NewServiceHandler(serviceSrv)
	authClient := authclient.NewAuthClient(cfg.AuthService.URL)

	// Setup router
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	serviceHandler.RegisterRoutes(router,
		authclient.JWTWithAuth(authClient),
		authclient.JWTWithAuth(authClient, "admin"),
	)

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server started on port %s", cfg.Server.Port)
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
