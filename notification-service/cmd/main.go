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
	"nomadpal/notification-service/internal/config"
	"nomadpal/notification-service/internal/handler"
	"nomadpal/notification-service/internal/repository"
	"nomadpal/notification-service/internal/services"
	"nomadpal/notification-service/internal/utils/email"
	"nomadpal/notification-service/internal/utils/push"
	"nomadpal/notification-service/internal/utils/sms"
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

	redisClient, err := cache.NewRedisClient(cfg.Server.RedisURL)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	shutdownManager.Register(func(ctx context.Context) error {
		log.Println("[SHUTDOWN] Closing Redis connection...")
		return redisClient.Close()
	})

	var channels []services.Channel
	if cfg.SMTP.Host != "" {
		channels = append(channels, services.NewEmailChannel(
			email.NewSMTPClient(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Password, cfg.SMTP.From)))
	}
	if cfg.Twilio.AccountSID != "" {
		channels = append(channels, services.NewSMSChannel(
			sms.NewTwilioClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)))
	}
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := push.NewFCMClient(ctx, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Printf("[NOTIFIER] Push disabled: %v", err)
		} else {
			channels = append(channels, services.NewPushChannel(fcmClient))
		}
	}
	log.Printf("[NOTIFIER] %d delivery channels enabled", len(channels))

	repo := repository.NewMongoNotificationRepo(db)
	notificationService := services.NewNotificationService(repo, repository.NewRecipientRepository(db), channels...)
	notificationHandler := handler.NewHandler(notificationService)

	go func() {
		if err := events.Subscribe(ctx, redisClient.Raw(), notificationService.HandleEvent, events.ChannelFeed, events.ChannelReview); err != nil {
			log.Printf("[EVENTS] Subscriber stopped: %v", err)
		}
	}()

	router := gin.Default()
	notificationHandler.RegisterRoutes(router, authclient.AuthMiddleware(authclient.NewAuthClient(cfg.AuthService.URL)))

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Notification service running on :%s", cfg.Server.Port)
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
