package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/concierge-service/internal/models"
	"nomadpal/internal/authclient"
	"nomadpal/internal/validator"
)

type ConciergeService interface {
	Messages(ctx context.Context, userID, location string) ([]models.ChatMessage, error)
	Send(ctx context.Context, userID string, req models.SendMessageRequest) (*models.Exchange, error)
	Clear(ctx context.Context, userID string) error
	QuickActions() []models.QuickAction
	Recommendations(ctx context.Context, location string) ([]models.RecommendedService, error)
}

type ChatHandler struct {
	Service ConciergeService
}

func NewChatHandler(service ConciergeService) *ChatHandler {
	return &ChatHandler{Service: service}
}

func (h *ChatHandler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	api := router.Group("/concierge")
	api.Use(authMW)
	{
		api.GET("/messages", h.GetMessages)
		api.POST("/messages", h.SendMessage)
		api.DELETE("/messages", h.ClearMessages)
		api.GET("/quick-actions", h.QuickActions)
		api.GET("/recommendations", h.Recommendations)
	}
}

func (h *ChatHandler) GetMessages(c *gin.Context) {
	messages, err := h.Service.Messages(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Query("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exchange, err := h.Service.Send(c.Request.Context(), c.GetString(authclient.KeyUserID), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exchange)
}

func (h *ChatHandler) ClearMessages(c *gin.Context) {
	if err := h.Service.Clear(c.Request.Context(), c.GetString(authclient.KeyUserID)); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) QuickActions(c *gin.Context) {
	c.JSON(http.StatusOK, h.Service.QuickActions())
}

func (h *ChatHandler) Recommendations(c *gin.Context) {
	services, err := h.Service.Recommendations(c.Request.Context(), c.Query("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, services)
}

func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not fetch recommendations"})
	default:
		log.Printf("[CONCIERGE] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process message"})
	}
}
