package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"nomadpal/auth-service/internal/models"
	"nomadpal/auth-service/internal/utils"
	"nomadpal/internal/authclient"
	"nomadpal/internal/validator"
)

type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, identifier, password, currentToken string) (*models.AuthResponse, error)
	DemoLogin(ctx context.Context) (*models.AuthResponse, error)
	GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error)
	Validate(ctx context.Context, token string) (*utils.Claims, error)
	Session(ctx context.Context, userID string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(router *gin.Engine) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/demo", h.Demo)
		auth.POST("/google-login", h.GoogleLogin)
		auth.GET("/validate", h.Validate)
		auth.POST("/logout", h.Logout)

		protected := auth.Group("/")
		protected.Use(h.RequireToken())
		{
			protected.GET("/session", h.Session)
			protected.PUT("/change-password", h.ChangePassword)
		}
	}
}

// RequireToken validates the bearer token locally, without a round trip to
// /auth/validate.
func (h *AuthHandler) RequireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := authclient.BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		claims, err := h.authService.Validate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(authclient.KeyUserID, claims.UserID)
		c.Set(authclient.KeyRole, claims.Role)
		c.Next()
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	current, _ := authclient.BearerToken(c.GetHeader("Authorization"))
	resp, err := h.authService.Login(c.Request.Context(), req.Identifier, req.Password, current)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Demo(c *gin.Context) {
	resp, err := h.authService.DemoLogin(c.Request.Context())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No users available for demo sign-in"})
			return
		}
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req models.GoogleLoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.authService.GoogleLogin(c.Request.Context(), req.IDToken)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Validate(c *gin.Context) {
	token, ok := authclient.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}
	claims, err := h.authService.Validate(c.Request.Context(), token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}

func (h *AuthHandler) Session(c *gin.Context) {
	user, err := h.authService.Session(c.Request.Context(), c.GetString(authclient.KeyUserID))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, ok := authclient.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No token provided"})
		return
	}

	if err := h.authService.Logout(c.Request.Context(), token); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), c.GetString(authclient.KeyUserID), req.OldPassword, req.NewPassword); err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
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
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, models.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	default:
		log.Printf("[AUTH] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
