package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Mysql       MysqlConfig
	Lightspeed  LightspeedConfig
	DeepL       DeepLConfig
	TelegramBot TelegramBotConfig

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

type MysqlConfig struct {
	Host     string `env:"MYSQL_HOST" envDefault:"localhost"`
	Port     int    `env:"MYSQL_PORT" envDefault:"3306"`
	Username string `env:"MYSQL_USER"`
	Password string `env:"MYSQL_PASSWORD"`
	Database string `env:"MYSQL_DATABASE"`
}

type LightspeedConfig struct {
	BaseUrl string        `env:"LIGHTSPEED_BASE_URL" envDefault:"https://api.webshopapp.com"`
	Timeout time.Duration `env:"LIGHTSPEED_TIMEOUT" envDefault:"30s"`
}

// Credentials resolves the per-shop API key pair by TLD, following the
// LIGHTSPEED_API_KEY_<TLD> / LIGHTSPEED_API_SECRET_<TLD> convention.
func (c LightspeedConfig) Credentials(tld string) (key, secret string, err error) {
	suffix := strings.ToUpper(strings.TrimSpace(tld))
	if suffix == "" {
		return "", "", fmt.Errorf("missing shop tld")
	}
	key = os.Getenv("LIGHTSPEED_API_KEY_" + suffix)
	secret = os.Getenv("LIGHTSPEED_API_SECRET_" + suffix)
	if key == "" || secret == "" {
		return "", "", fmt.Errorf("missing API credentials for shop TLD=%s", suffix)
	}
	return key, secret, nil
}

type DeepLConfig struct {
	BaseUrl string        `env:"DEEPL_BASE_URL" envDefault:"https://api-free.deepl.com"`
	AuthKey string        `env:"DEEPL_AUTH_KEY"`
	Timeout time.Duration `env:"DEEPL_TIMEOUT" envDefault:"30s"`
}

type TelegramBotConfig struct {
	ChatId string `env:"TELEGRAM_CHAT_ID"`
	Token  string `env:"TELEGRAM_BOT_TOKEN"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}
