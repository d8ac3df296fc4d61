package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"nomadpal/auth-service/internal/models"
	"nomadpal/auth-service/internal/utils"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	demoErr     error
	lastToken   string
}

func (s *stubAuthService) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &models.AuthResponse{Token: "t", User: &models.User{Username: req.Username}}, nil
}

func (s *stubAuthService) Login(_ context.Context, _, _, current string) (*models.AuthResponse, error) {
	s.lastToken = current
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &models.AuthResponse{Token: "t"}, nil
}

func (s *stubAuthService) DemoLogin(context.Context) (*models.AuthResponse, error) {
	if s.demoErr != nil {
		return nil, s.demoErr
	}
	return &models.AuthResponse{Token: "t"}, nil
}

func (s *stubAuthService) GoogleLogin(context.Context, string) (*models.AuthResponse, error) {
	return &models.AuthResponse{Token: "t"}, nil
}

func (s *stubAuthService) Validate(_ context.Context, token string) (*utils.Claims, error) {
	if token != "good" {
		return nil, models.ErrInvalidToken
	}
	return &utils.Claims{UserID: "u1", Role: "user"}, nil
}

func (s *stubAuthService) Session(_ context.Context, userID string) (*models.User, error) {
	return &models.User{Username: userID}, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

func (s *stubAuthService) ChangePassword(context.Context, string, string, string) error { return nil }

func newRouter(svc AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewAuthHandler(svc).RegisterRoutes(r)
	return r
}

func do(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterValidation(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := do(r, http.MethodPost, "/auth/register", `{"name":"M","username":"maria","email":"bad","password":"123"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got %d", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	for _, want := range []string{"name length", "email must be a valid email", "password length"} {
		if !strings.Contains(body["error"], want) {
			t.Errorf("error %q missing %q", body["error"], want)
		}
	}

	w = do(r, http.MethodPost, "/auth/register", `{"name":"Maria","username":"maria","email":"m@example.com","password":"secret1"}`, "")
	if w.Code != http.StatusCreated {
		t.Errorf("valid register: got %d", w.Code)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		svc  *stubAuthService
		path string
		body string
		want int
	}{
		{"duplicate", &stubAuthService{registerErr: fmt.Errorf("%w: username is already taken", models.ErrDuplicate)},
			"/auth/register", `{"name":"Maria","username":"maria","email":"m@example.com","password":"secret1"}`, http.StatusConflict},
		{"bad credentials", &stubAuthService{loginErr: models.ErrInvalidCredentials},
			"/auth/login", `{"identifier":"maria","password":"x"}`, http.StatusUnauthorized},
		{"no demo user", &stubAuthService{demoErr: models.ErrNotFound}, "/auth/demo", ``, http.StatusNotFound},
	}
	for _, tc := range cases {
		w := do(newRouter(tc.svc), http.MethodPost, tc.path, tc.body, "")
		if w.Code != tc.want {
			t.Errorf("%s: got %d, want %d", tc.name, w.Code, tc.want)
		}
	}
}

func TestLoginPassesCurrentToken(t *testing.T) {
	svc := &stubAuthService{}
	do(newRouter(svc), http.MethodPost, "/auth/login", `{"identifier":"maria","password":"x"}`, "old-token")
	if svc.lastToken != "old-token" {
		t.Errorf("current token = %q", svc.lastToken)
	}
}

func TestValidateAndSession(t *testing.T) {
	r := newRouter(&stubAuthService{})

	w := do(r, http.MethodGet, "/auth/validate", "", "good")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"user_id":"u1"`) {
		t.Errorf("validate: %d %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/auth/validate", "", "bad"); w.Code != http.StatusUnauthorized {
		t.Errorf("validate bad token: %d", w.Code)
	}

	if w := do(r, http.MethodGet, "/auth/session", "", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("session without token: %d", w.Code)
	}
	w = do(r, http.MethodGet, "/auth/session", "", "good")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"username":"u1"`) {
		t.Errorf("session: %d %s", w.Code, w.Body.String())
	}
}
