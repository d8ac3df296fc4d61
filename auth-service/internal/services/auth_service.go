package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nomadpal/auth-service/internal/models"
	"nomadpal/auth-service/internal/utils"
	"nomadpal/internal/cache"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByLogin(ctx context.Context, identifier string) (*models.User, error)
	FindFirst(ctx context.Context) (*models.User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error
	TouchLastActive(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type AuthService struct {
	userRepo   UserRepository
	jwtUtil    *utils.JWTUtil
	google     GoogleVerifier
	cache      cache.Cache
	sessionTTL time.Duration
	now        func() time.Time
}

func NewAuthService(userRepo UserRepository, jwtUtil *utils.JWTUtil, google GoogleVerifier, c cache.Cache, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtUtil:    jwtUtil,
		google:     google,
		cache:      c,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

func blacklistKey(jti string) string {
	return "blacklist:" + jti
}

func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("%w: username is already taken", models.ErrDuplicate)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email is already registered", models.ErrDuplicate)
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	user := models.NewUser(name, username, email, s.now())
	user.Password = req.Password
	if err := user.HashPassword(); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.startSession(ctx, user)
}

// Login signs in by username or email. On failure the session carried by
// currentToken, if any, is cleared.
func (s *AuthService) Login(ctx context.Context, identifier, password, currentToken string) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, strings.TrimSpace(identifier))
	if err == nil {
		err = user.ComparePassword(password)
	}
	if err != nil {
		log.Printf("[AUTH] Login failed for %q: %v", identifier, err)
		if currentToken != "" {
			if lerr := s.Logout(ctx, currentToken); lerr != nil && !errors.Is(lerr, models.ErrInvalidToken) {
				log.Printf("[AUTH] Failed to clear session: %v", lerr)
			}
		}
		return nil, models.ErrInvalidCredentials
	}

	return s.startSession(ctx, user)
}

// DemoLogin signs in as the earliest member.
func (s *AuthService) DemoLogin(ctx context.Context) (*models.AuthResponse, error) {
	user, err := s.userRepo.FindFirst(ctx)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// Validate checks signature, expiry and the revocation list.
func (s *AuthService) Validate(ctx context.Context, token string) (*utils.Claims, error) {
	claims, err := s.jwtUtil.ParseClaims(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}
	if s.cache.Exists(ctx, blacklistKey(claims.JTI)) {
		return nil, fmt.Errorf("%w: token revoked", models.ErrInvalidToken)
	}
	return claims, nil
}

// Session returns the signed-in user, read through the session cache.
func (s *AuthService) Session(ctx context.Context, userID string) (*models.User, error) {
	key := cache.SessionKey(userID)

	var cached models.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("[CACHE] Failed to read %s: %v", key, err)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, user, s.sessionTTL); err != nil {
		log.Printf("[CACHE] Failed to cache session user: %v", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtUtil.ParseClaims(token)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.cache.Set(ctx, blacklistKey(claims.JTI), true, ttl); err != nil {
		return err
	}
	return s.cache.Delete(ctx, cache.SessionKey(claims.UserID))
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := user.ComparePassword(oldPassword); err != nil {
		return fmt.Errorf("%w: invalid old password", models.ErrValidation)
	}

	user.Password = newPassword
	if err := user.HashPassword(); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

func (s *AuthService) startSession(ctx context.Context, user *models.User) (*models.AuthResponse, error) {
	token, err := s.jwtUtil.GenerateToken(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if err := s.userRepo.TouchLastActive(ctx, user.ID, now); err != nil {
		log.Printf("[AUTH] Failed to touch last_active for %s: %v", user.ID.Hex(), err)
	}
	user.LastActive = now

	if err := s.cache.Set(ctx, cache.SessionKey(user.ID.Hex()), user, s.sessionTTL); err != nil {
		log.Printf("[CACHE] Failed to cache session user: %v", err)
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}
