// Package config provides configuration management for the esports-edge engine.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/esports-edge/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
	Notifier NotifierConfig `mapstructure:"notifier"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// EngineConfig controls the selection engine and its files.
type EngineConfig struct {
	HistoricalPath      string   `mapstructure:"historical_path" validate:"required"`
	DataDir             string   `mapstructure:"data_dir" validate:"required"`
	SnapshotPattern     string   `mapstructure:"snapshot_pattern"`
	LedgerPath          string   `mapstructure:"ledger_path" validate:"required"`
	ProcessedPath       string   `mapstructure:"processed_path" validate:"required"`
	NameCorrectionsPath string   `mapstructure:"name_corrections_path"`
	MinROI              float64  `mapstructure:"min_roi" validate:"gte=0"`
	RetentionDays       int      `mapstructure:"retention_days" validate:"gte=1"`
	PatchWindow         int      `mapstructure:"patch_window" validate:"gte=1"`
	MaxGames            int      `mapstructure:"max_games" validate:"gte=1"`
	FuzzyCutoff         int      `mapstructure:"fuzzy_cutoff" validate:"gte=0,lte=100"`
	Categories          []string `mapstructure:"categories" validate:"dive,category"`
}

// NotifierConfig represents Telegram delivery configuration
type NotifierConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	TelegramToken  string  `mapstructure:"telegram_token"`
	ChatIDs        []int64 `mapstructure:"chat_ids"`
	APIEndpoint    string  `mapstructure:"api_endpoint"`
	RatePerSecond  float64 `mapstructure:"rate_per_second" validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"gte=0"`
}

// DatabaseConfig represents the optional Postgres ledger mirror
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Path    string `mapstructure:"path"`
}

// ScheduleConfig represents the watch-mode run schedule
type ScheduleConfig struct {
	Cron string `mapstructure:"cron" validate:"omitempty,cronspec"`
}

// SecretsConfig points at an optional AWS Secrets Manager secret
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// CategoryList parses the configured categories. An empty list means all.
func (e *EngineConfig) CategoryList() ([]models.Category, error) {
	if len(e.Categories) == 0 {
		return models.AllCategories(), nil
	}
	out := make([]models.Category, 0, len(e.Categories))
	for _, name := range e.Categories {
		c, err := models.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// NotifierTimeout returns the HTTP timeout for notification delivery.
func (n *NotifierConfig) NotifierTimeout() time.Duration {
	return time.Duration(n.TimeoutSeconds) * time.Second
}
