package config

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Server   ServerConfig
	CORS     CORSConfig
	Services ServicesConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000,http://localhost:8081"`
}

// ServicesConfig holds the upstream base URLs.
type ServicesConfig struct {
	Auth         string `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
	User         string `env:"USER_SERVICE_URL" envDefault:"http://user-service:8001"`
	Feed         string `env:"FEED_SERVICE_URL" envDefault:"http://feed-service:8002"`
	Marketplace  string `env:"MARKETPLACE_SERVICE_URL" envDefault:"http://marketplace-service:8003"`
	Concierge    string `env:"CONCIERGE_SERVICE_URL" envDefault:"http://concierge-service:8004"`
	Media        string `env:"MEDIA_SERVICE_URL" envDefault:"http://media-service:8005"`
	Notification string `env:"NOTIFICATION_SERVICE_URL" envDefault:"http://notification-service:8006"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
