package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"nomadpal/internal/mongodb"
)

type Config struct {
	MongoDB     mongodb.Config
	Server      ServerConfig
	AuthService AuthServiceConfig
	Cache       CacheConfig
}

type ServerConfig struct {
	Port     string `env:"SERVER_PORT" envDefault:"8002"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type AuthServiceConfig struct {
	URL string `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
}

type CacheConfig struct {
	RefreshInterval time.Duration `env:"FEED_CACHE_REFRESH" envDefault:"5m"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
