// Package config loads engine configuration from an optional YAML
// file with environment variable overrides. Environment always wins,
// so a deployment can ship one config file and tune per instance.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// Infrastructure
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	SQLitePath    string `yaml:"sqlite_path"`
	MetricsAddr   string `yaml:"metrics_addr"`

	// Evaluation loop
	CheckInterval time.Duration `yaml:"check_interval"`

	// Provider credentials. Binance public endpoints need none;
	// OANDA and Polygon stay disabled until keys are set.
	OandaAPIKey      string `yaml:"oanda_api_key"`
	OandaAccountID   string `yaml:"oanda_account_id"`
	OandaEnvironment string `yaml:"oanda_environment"`
	PolygonAPIKey    string `yaml:"polygon_api_key"`

	// Notification channels
	TelegramBotToken string `yaml:"telegram_bot_token"`
	TelegramChatID   string `yaml:"telegram_chat_id"`
	WebhookURL       string `yaml:"webhook_url"`

	// Logging: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

func defaults() *Config {
	return &Config{
		RedisAddr:        "localhost:6379",
		SQLitePath:       "data/alerts.db",
		MetricsAddr:      ":9090",
		CheckInterval:    30 * time.Second,
		OandaEnvironment: "practice",
		LogLevel:         "info",
	}
}

// Load reads configuration: defaults, then the YAML file at path (if
// path is "" or the file is missing, the file layer is skipped), then
// environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config read %s: %w", path, err)
			}
			log.Printf("[config] no config file at %s, using defaults + env", path)
		} else {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config parse %s: %w", path, err)
			}
			log.Printf("[config] loaded %s", path)
		}
	}

	cfg.applyEnv()

	if cfg.CheckInterval <= 0 {
		return nil, fmt.Errorf("config: check_interval must be positive, got %s", cfg.CheckInterval)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setStr(&c.RedisAddr, "REDIS_ADDR")
	setStr(&c.RedisPassword, "REDIS_PASSWORD")
	setInt(&c.RedisDB, "REDIS_DB")
	setStr(&c.SQLitePath, "SQLITE_PATH")
	setStr(&c.MetricsAddr, "METRICS_ADDR")
	setDuration(&c.CheckInterval, "CHECK_INTERVAL")

	setStr(&c.OandaAPIKey, "OANDA_API_KEY")
	setStr(&c.OandaAccountID, "OANDA_ACCOUNT_ID")
	setStr(&c.OandaEnvironment, "OANDA_ENVIRONMENT")
	setStr(&c.PolygonAPIKey, "POLYGON_API_KEY")

	setStr(&c.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	setStr(&c.TelegramChatID, "TELEGRAM_CHAT_ID")
	setStr(&c.WebhookURL, "WEBHOOK_URL")

	setStr(&c.LogLevel, "LOG_LEVEL")
}

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("[config] skipping invalid %s value: %q", key, v)
		return
	}
	*dst = n
}

func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] skipping invalid %s value: %q", key, v)
		return
	}
	*dst = d
}
