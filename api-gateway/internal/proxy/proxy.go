package proxy

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// CreateProxy forwards requests to targetHost, replacing stripPrefix with
// addPrefix in the path.
func CreateProxy(targetHost, stripPrefix, addPrefix string) (gin.HandlerFunc, error) {
	target, err := url.Parse(targetHost)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream %q: %v", targetHost, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("[GATEWAY] %s %s -> %s failed: %v", r.Method, r.URL.Path, target.Host, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream service unavailable"})
	}

	return func(c *gin.Context) {
		c.Request.URL.Path = RewritePath(c.Request.URL.Path, stripPrefix, addPrefix)
		c.Request.URL.RawPath = ""

		c.Request.Header.Set("X-Forwarded-Host", c.Request.Host)
		c.Request.Header.Del("X-Forwarded-For")

		proxy.ServeHTTP(c.Writer, c.Request)
	}, nil
}

// RewritePath swaps stripPrefix for addPrefix, keeping the rest of the path.
func RewritePath(path, stripPrefix, addPrefix string) string {
	rest := strings.TrimPrefix(path, stripPrefix)
	addPrefix = strings.TrimSuffix(addPrefix, "/")

	switch {
	case rest == "" || rest == "/":
		return addPrefix
	case strings.HasPrefix(rest, "/"):
		return addPrefix + rest
	default:
		return addPrefix + "/" + rest
	}
}
