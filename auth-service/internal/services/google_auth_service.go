package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/api/idtoken"

	"nomadpal/auth-service/internal/models"
)

// GoogleIdentity is the part of a Google ID token NomadPal uses.
type GoogleIdentity struct {
	Email   string
	Name    string
	Picture string
}

type GoogleVerifier interface {
	Verify(ctx context.Context, idToken string) (*GoogleIdentity, error)
}

type GoogleAuthService struct {
	ClientID string
}

func NewGoogleAuthService(clientID string) *GoogleAuthService {
	return &GoogleAuthService{ClientID: clientID}
}

func (g *GoogleAuthService) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if g.ClientID == "" {
		return nil, errors.New("google sign-in is not configured")
	}
	payload, err := idtoken.Validate(ctx, idToken, g.ClientID)
	if err != nil {
		return nil, err
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google token has no email")
	}
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)
	return &GoogleIdentity{Email: email, Name: name, Picture: picture}, nil
}

// GoogleLogin finds the user by the verified email or creates one.
func (s *AuthService) GoogleLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidToken, err)
	}

	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	if err == nil {
		return s.startSession(ctx, user)
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	username, err := s.freeUsername(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	name := identity.Name
	if name == "" {
		name = username
	}

	user = models.NewUser(name, username, identity.Email, s.now())
	if identity.Picture != "" {
		user.Avatar = identity.Picture
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return s.startSession(ctx, user)
}

// freeUsername derives a username from the email's local part, suffixing a
// counter until it is unused.
func (s *AuthService) freeUsername(ctx context.Context, email string) (string, error) {
	base := strings.ToLower(strings.SplitN(email, "@", 2)[0])
	if base == "" {
		base = "nomad"
	}
	candidate := base
	for i := 2; i < 100; i++ {
		_, err := s.userRepo.FindByUsername(ctx, candidate)
		if errors.Is(err, models.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s%d", base, i)
	}
	return "", fmt.Errorf("%w: no free username for %s", models.ErrDuplicate, email)
}
