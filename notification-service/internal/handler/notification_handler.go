package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/notification-service/internal/models"
)

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, limit, offset int64) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, userID, id string) error
}

type Handler struct {
	service NotificationService
}

func NewHandler(service NotificationService) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	api := router.Group("/notifications")
	api.Use(authMW)
	{
		api.GET("", h.GetNotifications)
		api.PUT("/:id/read", h.MarkAsRead)
	}
}

// GET /notifications?limit=&offset=
func (h *Handler) GetNotifications(c *gin.Context) {
	limit, err := queryInt(c, "limit")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
		return
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "offset must be a number"})
		return
	}

	notifs, err := h.service.GetNotifications(c.Request.Context(), c.GetString(authclient.KeyUserID), limit, offset)
	if err != nil {
		log.Printf("[NOTIFIER] List failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notifs)
}

func (h *Handler) MarkAsRead(c *gin.Context) {
	err := h.service.MarkAsRead(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "marked as read"})
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Printf("[NOTIFIER] Mark as read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mark as read"})
	}
}

func queryInt(c *gin.Context, key string) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
