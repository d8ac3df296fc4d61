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
	SMTP        SMTPConfig
	Twilio      TwilioConfig
	Firebase    FirebaseConfig
}

type ServerConfig struct {
	Port     string `env:"SERVER_PORT" envDefault:"8006"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

type AuthServiceConfig struct {
	URL string `env:"AUTH_SERVICE_URL" envDefault:"http://auth-service:8000"`
}

// SMTPConfig enables email delivery when Host is set.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASS"`
	From     string `env:"SMTP_FROM"`
}

// TwilioConfig enables SMS delivery when AccountSID is set.
type TwilioConfig struct {
	AccountSID string `env:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	From       string `env:"TWILIO_FROM_NUMBER"`
}

// FirebaseConfig enables push delivery when CredentialsFile is set.
type FirebaseConfig struct {
	CredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
}

func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
