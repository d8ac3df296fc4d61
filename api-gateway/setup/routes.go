package setup

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"nomadpal/api-gateway/internal/config"
	"nomadpal/api-gateway/internal/proxy"
	"nomadpal/internal/authclient"
)

type Access int

const (
	Authenticated Access = iota
	Public
	// PublicRead lets GET and HEAD through without a token.
	PublicRead
	AdminOnly
)

type Route struct {
	Path      string
	Target    string
	AddPrefix string
	Access    Access
}

// Routes maps /api/<service> onto the upstream services.
func Routes(s config.ServicesConfig) []Route {
	return []Route{
		{"/api/auth", s.Auth, "/auth", Public},
		{"/api/users", s.User, "/users", Authenticated},
		{"/api/posts", s.Feed, "/posts", Authenticated},
		{"/api/location", s.Feed, "/location", Authenticated},
		{"/api/services", s.Marketplace, "/api/services", PublicRead},
		{"/api/admin/services", s.Marketplace, "/api/admin/services", AdminOnly},
		{"/api/concierge", s.Concierge, "/concierge", Authenticated},
		{"/api/media", s.Media, "/media", Authenticated},
		{"/api/notifications", s.Notification, "/notifications", Authenticated},
	}
}

func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// ConfigureServiceProxies registers every route, with and without a trailing
// path.
func ConfigureServiceProxies(router *gin.Engine, routes []Route, authMW gin.HandlerFunc) error {
	for _, route := range routes {
		handler, err := proxy.CreateProxy(route.Target, route.Path, route.AddPrefix)
		if err != nil {
			return err
		}

		chain := append(guard(route.Access, authMW), handler)
		router.Any(route.Path, chain...)
		router.Any(route.Path+"/*proxyPath", chain...)
	}
	return nil
}

func guard(access Access, authMW gin.HandlerFunc) []gin.HandlerFunc {
	switch access {
	case Public:
		return nil
	case PublicRead:
		return []gin.HandlerFunc{func(c *gin.Context) {
			if c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
				c.Next()
				return
			}
			authMW(c)
		}}
	case AdminOnly:
		return []gin.HandlerFunc{authMW, authclient.RequireRoles("admin")}
	default:
		return []gin.HandlerFunc{authMW}
	}
}

// NewRouter builds the gateway engine.
func NewRouter(cfg *config.Config, authMW gin.HandlerFunc) (*gin.Engine, error) {
	router := gin.Default()
	router.Use(CORS(cfg.CORS.AllowOrigins))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := ConfigureServiceProxies(router, Routes(cfg.Services), authMW); err != nil {
		return nil, err
	}
	return router, nil
}
