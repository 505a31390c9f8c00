package config

import (
	"fmt"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the application configuration parameters.
// Each field corresponds to an expected environment variable.
type Config struct {
	EnvLogsLevel   string `env:"LOG_LEVEL" envDefault:"info"`            // Log level for the application (e.g., DEBUG, INFO)
	EnvLogFileName string `env:"LOG_FILE_NAME" envDefault:"leadBot.log"` // File's name for log
	EnvBotToken    string `env:"TOKEN_BOT"`                              // Telegram Bot Token for authentication with the Telegram API
	AdminChatID    int64  `env:"ADMIN_CHAT_ID"`                          // Chat that receives lead alerts
	WebhookSecret  string `env:"WEBHOOK_SECRET"`                         // Shared secret for the Telegram webhook endpoint (empty = long polling)
	SiteOrigin     string `env:"SITE_ORIGIN"`                            // Comma-separated allowed CORS origins for the form endpoint
	LeadsDSN       string `env:"LEADS_SQLITE_DSN" envDefault:"leads.db"` // SQLite DSN for the leads store
	HTTPServer     string `env:"HTTP_SERVER" envDefault:":3000"`         // Address of the HTTP server
}

// NewConfig initializes a new Config instance by loading environment variables
// from a leadbot.env file when present, then parsing the environment.
// It returns an error if required variables are missing.
func NewConfig() (*Config, error) {
	if err := godotenv.Load("leadbot.env"); err != nil {
		logrus.Info("leadbot.env not found, reading configuration from environment")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.EnvBotToken == "" {
		return nil, fmt.Errorf("TOKEN_BOT missing")
	}
	if cfg.AdminChatID == 0 {
		return nil, fmt.Errorf("ADMIN_CHAT_ID missing")
	}

	return cfg, nil
}
