package main

import (
	"context"
	"errors"
	"log"
	"net/http"

	"nomadpal/api-gateway/internal/config"
	"nomadpal/api-gateway/setup"
	"nomadpal/internal/authclient"
	"nomadpal/internal/shutdown"
)

func main() {
	_, shutdownManager := shutdown.New(context.Background())
	shutdownManager.StartListening()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	log.Printf("AUTH_SERVICE_URL: %s", cfg.Services.Auth)

	authMW := authclient.AuthMiddleware(authclient.NewAuthClient(cfg.Services.Auth))
	router, err := setup.NewRouter(cfg, authMW)
	if err != nil {
		log.Fatalf("Failed to configure routes: %v", err)
	}

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("API Gateway listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to run API Gateway: %v", err)
		}
	}()

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Shutting down HTTP server...")
		return srv.Shutdown(ctx)
	})

	select {}
}
