package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"nomadpal/internal/mongodb"
)

type Config struct {
	MongoDB mongodb.Config
	Server  ServerConfig
	Auth    AuthConfig
}

type ServerConfig struct {
	Port     string `env:"SERVER_PORT" envDefault:"8000"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type AuthConfig struct {
	JWTSecret      string        `env:"JWT_SECRET,required"`
	TokenTTL       time.Duration `env:"TOKEN_TTL" envDefault:"72h"`
	SessionTTL     time.Duration `env:"SESSION_TTL" envDefault:"5m"`
	GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
