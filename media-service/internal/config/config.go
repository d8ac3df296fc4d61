package config

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload"

	"nomadpal/internal/mongodb"
)

type Config struct {
	MongoDB     mongodb.Config
	Server      ServerConfig
	Minio       MinioConfig
	AuthService AuthServiceConfig
	UserService UserServiceConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8005"`
}

type MinioConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"MINIO_ACCESS_KEY,required"`
	SecretKey string `env:"MINIO_SECRET_KEY,required"`
	Bucket    string `env:"MINIO_BUCKET" envDefault:"nomadpal-media"`
	UseSSL    bool   `env:"MINIO_USE_SSL" envDefault:"false"`
	PublicURL string `env:"MINIO_PUBLIC_URL" envDefault:"http://localhost:9000"`
}

type AuthServiceConfig struct {
	URL string `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
}

type UserServiceConfig struct {
	URL string `env:"USER_SERVICE_URL" envDefault:"http://user-service:8001"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
