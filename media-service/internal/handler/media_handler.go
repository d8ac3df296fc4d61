package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/media-service/internal/models"
)

type MediaService interface {
	UploadAvatar(ctx context.Context, userID, authHeader string, file io.Reader, upload models.Upload) (*models.Media, error)
	GetUserMedia(ctx context.Context, userID string) ([]models.Media, error)
}

type MediaHandler struct {
	svc MediaService
}

func NewMediaHandler(svc MediaService) *MediaHandler {
	return &MediaHandler{svc: svc}
}

func (h *MediaHandler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	media := router.Group("/media")
	media.Use(authMW)
	{
		media.POST("/avatar", h.UploadAvatar)
		media.GET("/user/:id", h.GetUserMedia)
	}
}

func (h *MediaHandler) UploadAvatar(c *gin.Context) {
	// leave room for the multipart envelope
	const limit = models.MaxAvatarSize + 1<<20
	if c.Request.ContentLength > limit {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": models.ErrTooLarge.Error()})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": models.ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	media, err := h.svc.UploadAvatar(
		c.Request.Context(),
		c.GetString(authclient.KeyUserID),
		c.GetHeader("Authorization"),
		file,
		models.Upload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrUnsupportedMedia):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrUpstream):
			log.Printf("[MEDIA] Avatar stored but profile update failed: %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "media": media})
		default:
			log.Printf("[MEDIA] Upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": media.URL, "media": media})
}

func (h *MediaHandler) GetUserMedia(c *gin.Context) {
	medias, err := h.svc.GetUserMedia(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, medias)
}
