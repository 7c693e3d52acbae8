package config

import (
	"log"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Storage
	DatabaseDSN   string `env:"DATABASE_DSN" envDefault:"host=localhost user=user password=password dbname=lovesyncdb port=5432 sslmode=disable"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Identity tokens
	JWTSecret string `env:"JWT_SECRET,required"`

	// Notification bridge (optional; bridge stays off without a token)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Cron spec for the space-mode expiry sweep.
	SpaceSweepSpec string `env:"SPACE_SWEEP_SPEC" envDefault:"@every 1m"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
