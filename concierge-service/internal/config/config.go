package config

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"nomadpal/internal/mongodb"
)

type Config struct {
	MongoDB     mongodb.Config
	Server      ServerConfig
	AuthService AuthServiceConfig
	Marketplace MarketplaceConfig
	LLM         LLMConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8004"`
}

type AuthServiceConfig struct {
	URL string `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
}

type MarketplaceConfig struct {
	URL string `env:"MARKETPLACE_SERVICE_URL" envDefault:"http://marketplace-service:8003"`
}

// LLMConfig points at an OpenAI-compatible endpoint. Without an API key the
// concierge answers from canned replies only.
type LLMConfig struct {
	APIKey       string `env:"OPENAI_API_KEY"`
	BaseURL      string `env:"OPENAI_BASE_URL"`
	Model        string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	HistoryLimit int    `env:"CONCIERGE_HISTORY_LIMIT" envDefault:"10"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
