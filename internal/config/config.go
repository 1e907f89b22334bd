// Package config содержит логику чтения конфигурации сервиса mayorista.
package config

import (
	"flag"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config содержит параметры конфигурации сервиса mayorista.
type Config struct {
	RunAddress         string `env:"RUN_ADDRESS"`
	DatabaseURI        string `env:"DATABASE_URI"`
	StateDir           string `env:"STATE_DIR"`
	AuthServiceAddress string `env:"AUTH_SERVICE_ADDRESS"`
	WhatsAppNumber     string `env:"WHATSAPP_NUMBER"`
	SessionSecret      string `env:"SESSION_SECRET"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
func Parse() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envStateDir := cfg.StateDir
	envAuthAddress := cfg.AuthServiceAddress
	envWhatsApp := cfg.WhatsAppNumber
	envSecret := cfg.SessionSecret

	flag.StringVar(&cfg.RunAddress, "a", "localhost:8080", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.StateDir, "s", "./data", "directory for the local state store")
	flag.StringVar(&cfg.AuthServiceAddress, "r", "", "auth service address")
	flag.StringVar(&cfg.WhatsAppNumber, "w", "", "WhatsApp number for order links")
	flag.StringVar(&cfg.SessionSecret, "k", "", "secret for signing admin session cookies")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envStateDir != "" {
		cfg.StateDir = envStateDir
	}
	if envAuthAddress != "" {
		cfg.AuthServiceAddress = envAuthAddress
	}
	if envWhatsApp != "" {
		cfg.WhatsAppNumber = envWhatsApp
	}
	if envSecret != "" {
		cfg.SessionSecret = envSecret
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:8080"
	}
	if cfg.StateDir == "" {
		cfg.StateDir = "./data"
	}

	return cfg, nil
}
