package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/internal/authclient"
	"nomadpal/internal/validator"
	"nomadpal/user-service/internal/models"
)

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateMe(ctx context.Context, id string, req models.UpdateProfileRequest) (*models.User, error)
	ListUsers(ctx context.Context, location string) ([]models.User, error)
	TrustDirectory(ctx context.Context, category, location string) (*models.TrustDirectory, error)
	TrustStats(ctx context.Context) (*models.TrustStats, error)
	SetTrustRating(ctx context.Context, id string, rating float64) (*models.User, error)
	SetVerified(ctx context.Context, id string, verified bool) (*models.User, error)
	SetBadges(ctx context.Context, id string, badges []string) (*models.User, error)
}

type ReviewService interface {
	CreateReview(ctx context.Context, reviewerID, targetID string, req models.CreateReviewRequest) (*models.Review, error)
	ListReviews(ctx context.Context, targetID string) ([]models.Review, error)
}

type UserHandler struct {
	users   UserService
	reviews ReviewService
}

func NewUserHandler(users UserService, reviews ReviewService) *UserHandler {
	return &UserHandler{users: users, reviews: reviews}
}

func (h *UserHandler) RegisterRoutes(router *gin.Engine, authMW gin.HandlerFunc) {
	users := router.Group("/users")
	users.Use(authMW)
	{
		users.GET("", h.ListUsers)
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)
		users.GET("/trust", h.TrustDirectory)
		users.GET("/trust/stats", h.TrustStats)
		users.GET("/by-username/:username", h.GetByUsername)
		users.GET("/:id", h.GetUserByID)
		users.GET("/:id/reviews", h.ListReviews)
		users.POST("/:id/reviews", h.CreateReview)

		adminOnly := users.Group("")
		adminOnly.Use(authclient.RequireRoles("admin"))
		{
			adminOnly.PUT("/:id/trust-rating", h.SetTrustRating)
			adminOnly.PUT("/:id/verify", h.SetVerified)
			adminOnly.PUT("/:id/badges", h.SetBadges)
		}
	}
}

// GET /users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.GetString(authclient.KeyUserID))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SelfProfile{Profile: *profile, Contact: profile.ContactInfo()})
}

// PUT /users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req models.UpdateProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.UpdateMe(c.Request.Context(), c.GetString(authclient.KeyUserID), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.Self{User: *user, Contact: user.ContactInfo()})
}

// GET /users?location=
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context(), c.Query("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GET /users/trust?category=&location=
func (h *UserHandler) TrustDirectory(c *gin.Context) {
	dir, err := h.users.TrustDirectory(c.Request.Context(), c.Query("category"), c.Query("location"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dir)
}

func (h *UserHandler) TrustStats(c *gin.Context) {
	stats, err := h.users.TrustStats(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *UserHandler) GetByUsername(c *gin.Context) {
	profile, err := h.users.GetProfileByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	profile, err := h.users.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// PUT /users/:id/trust-rating (admin only)
func (h *UserHandler) SetTrustRating(c *gin.Context) {
	var req models.TrustRatingRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.SetTrustRating(c.Request.Context(), c.Param("id"), *req.Rating)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /users/:id/verify (admin only)
func (h *UserHandler) SetVerified(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.users.SetVerified(c.Request.Context(), c.Param("id"), req.Verified)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PUT /users/:id/badges (admin only)
func (h *UserHandler) SetBadges(c *gin.Context) {
	var req models.BadgesRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, err := h.users.SetBadges(c.Request.Context(), c.Param("id"), req.Badges)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// POST /users/:id/reviews
func (h *UserHandler) CreateReview(c *gin.Context) {
	var req models.CreateReviewRequest
	if !bindAndValidate(c, &req) {
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), c.GetString(authclient.KeyUserID), c.Param("id"), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, review)
}

// GET /users/:id/reviews
func (h *UserHandler) ListReviews(c *gin.Context) {
	reviews, err := h.reviews.ListReviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
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
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, models.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[USERS] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
