package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/cesargomez89/ingestq/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port             string        `mapstructure:"port"`
	DBDriver         string        `mapstructure:"db_driver"`
	DBPath           string        `mapstructure:"db_path"`
	LogLevel         string        `mapstructure:"log_level"`
	LogFormat        string        `mapstructure:"log_format"`
	Actor            string        `mapstructure:"reconcile_actor"`
	ReconcileTimeout time.Duration `mapstructure:"reconcile_timeout"`
	SweepEnabled     bool          `mapstructure:"sweep_enabled"`
	SweepSchedule    string        `mapstructure:"sweep_schedule"`
	EmailAPIURL      string        `mapstructure:"email_api_url"`
	EmailAPIKey      string        `mapstructure:"email_api_key"`
	EmailFrom        string        `mapstructure:"email_from"`
	EmailAppName     string        `mapstructure:"email_app_name"`
	SubscriberEmails []string      `mapstructure:"subscriber_emails"`
	DeveloperEmails  []string      `mapstructure:"developer_emails"`
}

// Load loads configuration from environment variables with defaults.
// When CONFIG_FILE is set, that YAML file is read first and the environment overrides it.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", constants.DefaultPort)
	v.SetDefault("db_driver", constants.DefaultDBDriver)
	v.SetDefault("db_path", constants.DefaultDBPath)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("reconcile_actor", constants.DefaultActor)
	v.SetDefault("reconcile_timeout", constants.DefaultReconcileTimeout)
	v.SetDefault("sweep_enabled", true)
	v.SetDefault("sweep_schedule", constants.DefaultSweepSchedule)
	v.SetDefault("email_api_url", "")
	v.SetDefault("email_api_key", "")
	v.SetDefault("email_from", constants.DefaultEmailFrom)
	v.SetDefault("email_app_name", constants.DefaultEmailAppName)
	v.SetDefault("subscriber_emails", []string{})
	v.SetDefault("developer_emails", []string{})

	if path, ok := os.LookupEnv("CONFIG_FILE"); ok && path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.SubscriberEmails = splitList(cfg.SubscriberEmails)
	cfg.DeveloperEmails = splitList(cfg.DeveloperEmails)
	return &cfg, nil
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	// Validate DB
	if c.DBDriver != constants.DriverSQLite && c.DBDriver != constants.DriverPostgres {
		errors = append(errors, fmt.Sprintf("DB_DRIVER must be one of: %s, %s, got: %s", constants.DriverSQLite, constants.DriverPostgres, c.DBDriver))
	}
	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.Actor == "" {
		errors = append(errors, "RECONCILE_ACTOR cannot be empty")
	}

	if c.ReconcileTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RECONCILE_TIMEOUT must be positive, got: %s", c.ReconcileTimeout))
	}

	if c.SweepEnabled {
		if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
			errors = append(errors, fmt.Sprintf("SWEEP_SCHEDULE is not a valid schedule: %s", c.SweepSchedule))
		}
	}

	// Email notifications are optional; when configured they need a key and recipients
	if c.EmailAPIURL != "" {
		if _, err := url.ParseRequestURI(c.EmailAPIURL); err != nil {
			errors = append(errors, fmt.Sprintf("EMAIL_API_URL is not a valid URL: %s", c.EmailAPIURL))
		}
		if c.EmailAPIKey == "" {
			errors = append(errors, "EMAIL_API_KEY cannot be empty when EMAIL_API_URL is set")
		}
		if len(c.DeveloperEmails) == 0 {
			errors = append(errors, "DEVELOPER_EMAILS cannot be empty when EMAIL_API_URL is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// splitList flattens comma separated entries and drops blanks
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
