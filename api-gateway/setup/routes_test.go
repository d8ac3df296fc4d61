package setup

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"nomadpal/api-gateway/internal/config"
	"nomadpal/internal/authclient"
)

// fakeAuth accepts "Bearer user" and "Bearer admin".
func fakeAuth(c *gin.Context) {
	switch c.GetHeader("Authorization") {
	case "Bearer user":
		c.Set(authclient.KeyUserID, "u1")
		c.Set(authclient.KeyRole, "user")
	case "Bearer admin":
		c.Set(authclient.KeyUserID, "a1")
		c.Set(authclient.KeyRole, "admin")
	default:
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
		return
	}
	c.Next()
}

func newGateway(t *testing.T) (*gin.Engine, *string) {
	t.Helper()
	var lastPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastPath = r.Method + " " + r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(upstream.Close)

	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		CORS: config.CORSConfig{AllowOrigins: []string{"http://localhost:5173"}},
		Services: config.ServicesConfig{
			Auth: upstream.URL, User: upstream.URL, Feed: upstream.URL, Marketplace: upstream.URL,
			Concierge: upstream.URL, Media: upstream.URL, Notification: upstream.URL,
		},
	}
	router, err := NewRouter(cfg, fakeAuth)
	if err != nil {
		t.Fatal(err)
	}
	return router, &lastPath
}

func TestGatewayAccessRules(t *testing.T) {
	router, lastPath := newGateway(t)

	tests := []struct {
		method, path, token string
		wantCode            int
		wantUpstream        string
	}{
		{http.MethodPost, "/api/auth/login", "", http.StatusOK, "POST /auth/login"},
		{http.MethodGet, "/api/services", "", http.StatusOK, "GET /api/services"},
		{http.MethodGet, "/api/services/recommended", "", http.StatusOK, "GET /api/services/recommended"},
		{http.MethodPost, "/api/services", "", http.StatusUnauthorized, ""},
		{http.MethodPost, "/api/services", "user", http.StatusOK, "POST /api/services"},
		{http.MethodGet, "/api/posts", "", http.StatusUnauthorized, ""},
		{http.MethodGet, "/api/posts/p1", "user", http.StatusOK, "GET /posts/p1"},
		{http.MethodPut, "/api/users/me", "user", http.StatusOK, "PUT /users/me"},
		{http.MethodGet, "/api/concierge/messages", "user", http.StatusOK, "GET /concierge/messages"},
		{http.MethodPatch, "/api/admin/services/s1/verify", "user", http.StatusForbidden, ""},
		{http.MethodPatch, "/api/admin/services/s1/verify", "admin", http.StatusOK, "PATCH /api/admin/services/s1/verify"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			*lastPath = ""
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", w.Code, tt.wantCode)
			}
			if *lastPath != tt.wantUpstream {
				t.Errorf("upstream = %q, want %q", *lastPath, tt.wantUpstream)
			}
		})
	}
}

func TestGatewayCORSPreflight(t *testing.T) {
	router, lastPath := newGateway(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("allow origin = %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
	if *lastPath != "" {
		t.Error("preflight must not reach the upstream")
	}
}
