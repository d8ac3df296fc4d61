package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/feed-service/internal/models"
	"nomadpal/feed-service/internal/services"
	"nomadpal/internal/authclient"
	"nomadpal/internal/validator"
)

type PostHandler struct {
	service   services.PostService
	locations services.LocationService
}

func NewPostHandler(service services.PostService, locations services.LocationService) *PostHandler {
	return &PostHandler{service: service, locations: locations}
}

func (h *PostHandler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	posts := router.Group("/posts")
	posts.Use(authMW)
	{
		posts.GET("", h.ListPosts)
		posts.POST("", h.CreatePost)
		posts.GET("/:id", h.GetPost)
		posts.PUT("/:id", h.UpdatePost)
		posts.DELETE("/:id", h.DeletePost)
		posts.POST("/:id/replies", h.AddReply)
		posts.PUT("/:id/replies/:reply_id/helpful", h.SetHelpful)
		posts.POST("/:id/vote", h.Vote)
	}

	location := router.Group("/location")
	location.Use(authMW)
	{
		location.GET("", h.GetLocation)
		location.PUT("", h.SetLocation)
	}
}

// GET /posts?type=&location=&tag=&user_id=
func (h *PostHandler) ListPosts(c *gin.Context) {
	filter := models.PostFilter{
		Type:     c.Query("type"),
		Location: c.Query("location"),
		Tag:      c.Query("tag"),
		UserID:   c.Query("user_id"),
	}
	posts, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) CreatePost(c *gin.Context) {
	var req models.PostRequest
	if !bindAndValidate(c, &req) {
		return
	}
	post, err := h.service.CreatePost(c.Request.Context(), c.GetString(authclient.KeyUserID), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var req models.PostRequest
	if !bindAndValidate(c, &req) {
		return
	}
	post, err := h.service.UpdatePost(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	if err := h.service.DeletePost(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PostHandler) AddReply(c *gin.Context) {
	var req models.ReplyRequest
	if !bindAndValidate(c, &req) {
		return
	}
	reply, err := h.service.AddReply(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"), req.Content)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reply)
}

func (h *PostHandler) SetHelpful(c *gin.Context) {
	req := models.HelpfulRequest{Helpful: true}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
			return
		}
	}
	err := h.service.SetHelpful(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"), c.Param("reply_id"), req.Helpful)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reply updated", "helpful": req.Helpful})
}

func (h *PostHandler) Vote(c *gin.Context) {
	var req models.VoteRequest
	if !bindAndValidate(c, &req) {
		return
	}
	post, err := h.service.Vote(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"), req.Direction)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) GetLocation(c *gin.Context) {
	loc := h.locations.Get(c.Request.Context(), c.GetString(authclient.KeyUserID))
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

func (h *PostHandler) SetLocation(c *gin.Context) {
	var req models.LocationRequest
	if !bindAndValidate(c, &req) {
		return
	}
	loc, err := h.locations.Set(c.Request.Context(), c.GetString(authclient.KeyUserID), req.Location)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"location": loc})
}

func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return false
	}
	if err := validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidID), errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
	case errors.Is(err, models.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[FEED] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
