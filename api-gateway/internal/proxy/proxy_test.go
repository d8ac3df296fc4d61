package proxy

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRewritePath(t *testing.T) {
	tests := []struct {
		path, strip, add, want string
	}{
		{"/api/posts", "/api/posts", "/posts", "/posts"},
		{"/api/posts/", "/api/posts", "/posts", "/posts"},
		{"/api/posts/abc/replies", "/api/posts", "/posts", "/posts/abc/replies"},
		{"/api/services/recommended", "/api/services", "/api/services", "/api/services/recommended"},
		{"/api/auth/login", "/api/auth", "/auth/", "/auth/login"},
	}
	for _, tt := range tests {
		if got := RewritePath(tt.path, tt.strip, tt.add); got != tt.want {
			t.Errorf("RewritePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCreateProxyForwards(t *testing.T) {
	var gotPath, gotQuery, gotHost string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotHost = r.URL.Path, r.URL.RawQuery, r.Header.Get("X-Forwarded-Host")
		w.WriteHeader(http.StatusTeapot)
	}))
	defer upstream.Close()

	handler, err := CreateProxy(upstream.URL, "/api/posts", "/posts")
	if err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/api/posts/*proxyPath", handler)

	req := httptest.NewRequest(http.MethodGet, "/api/posts/p1?tag=beach", nil)
	req.Host = "nomadpal.test"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d", w.Code)
	}
	if gotPath != "/posts/p1" || gotQuery != "tag=beach" || gotHost != "nomadpal.test" {
		t.Errorf("upstream saw path=%q query=%q host=%q", gotPath, gotQuery, gotHost)
	}
}

func TestCreateProxyUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.NotFoundHandler())
	url := upstream.URL
	upstream.Close()

	handler, err := CreateProxy(url, "/api/media", "/media")
	if err != nil {
		t.Fatal(err)
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Any("/api/media/*proxyPath", handler)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/media/user/u1", nil))
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d", w.Code)
	}

	if _, err := CreateProxy("not a url", "/a", "/b"); err == nil {
		t.Error("expected error for invalid upstream")
	}
}
