// File: /config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Port        string `yaml:"port"`
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"log_level"`

	DatabaseDriver string `yaml:"database_driver"`
	DatabaseURL    string `yaml:"database_url"`

	JWTSecret     string `yaml:"jwt_secret"`
	TokenTTLHours int    `yaml:"token_ttl_hours"`

	// Redis stats cache, disabled when RedisAddr is empty
	RedisAddr            string `yaml:"redis_addr"`
	RedisPassword        string `yaml:"redis_password"`
	RedisDB              int    `yaml:"redis_db"`
	StatsCacheTTLSeconds int    `yaml:"stats_cache_ttl_seconds"`

	// RabbitMQ event fan-out, disabled when AMQPURL is empty
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`

	StreakCron string `yaml:"streak_cron"`

	// Email Configuration, disabled when SMTPHost is empty
	SMTPHost          string `yaml:"smtp_host"`
	SMTPPort          int    `yaml:"smtp_port"`
	SMTPUsername      string `yaml:"smtp_username"`
	SMTPPassword      string `yaml:"smtp_password"`
	FromEmail         string `yaml:"from_email"`
	FromName          string `yaml:"from_name"`
	MailRatePerMinute int    `yaml:"mail_rate_per_minute"`
}

const (
	defaultJWTSecret    = "your-secret-key"
	minProductionSecret = 32
)

func defaults() *Config {
	return &Config{
		Port:                 "8080",
		Environment:          "development",
		LogLevel:             "info",
		DatabaseDriver:       "mysql",
		DatabaseURL:          "user:password@tcp(localhost:3306)/fitcrew?charset=utf8mb4&parseTime=True&loc=Local",
		JWTSecret:            defaultJWTSecret,
		TokenTTLHours:        24 * 30,
		StatsCacheTTLSeconds: 60,
		AMQPExchange:         "fitcrew_events",
		StreakCron:           "0 10 0 * * *",
		SMTPPort:             2525,
		FromEmail:            "noreply@fitcrew.app",
		FromName:             "FitCrew",
		MailRatePerMinute:    30,
	}
}

// Load reads .env, then the optional YAML file named by CONFIG_FILE, then
// the process environment. Later sources win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.Environment = getEnv("APP_ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.DatabaseDriver = getEnv("DB_DRIVER", c.DatabaseDriver)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.TokenTTLHours = getEnvInt("TOKEN_TTL_HOURS", c.TokenTTLHours)

	c.RedisAddr = getEnv("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = getEnv("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = getEnvInt("REDIS_DB", c.RedisDB)
	c.StatsCacheTTLSeconds = getEnvInt("STATS_CACHE_TTL_SECONDS", c.StatsCacheTTLSeconds)

	c.AMQPURL = getEnv("RABBITMQ_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("RABBITMQ_EXCHANGE", c.AMQPExchange)
	c.StreakCron = getEnv("STREAK_CRON", c.StreakCron)

	c.SMTPHost = getEnv("SMTP_HOST", c.SMTPHost)
	c.SMTPPort = getEnvInt("SMTP_PORT", c.SMTPPort)
	c.SMTPUsername = getEnv("SMTP_USERNAME", c.SMTPUsername)
	c.SMTPPassword = getEnv("SMTP_PASSWORD", c.SMTPPassword)
	c.FromEmail = getEnv("FROM_EMAIL", c.FromEmail)
	c.FromName = getEnv("FROM_NAME", c.FromName)
	c.MailRatePerMinute = getEnvInt("MAIL_RATE_PER_MINUTE", c.MailRatePerMinute)
}

func (c *Config) Validate() error {
	switch c.DatabaseDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DatabaseDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < minProductionSecret) {
		return fmt.Errorf("JWT_SECRET must be changed from the default and be at least %d bytes in production", minProductionSecret)
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.MailRatePerMinute <= 0 {
		return fmt.Errorf("MAIL_RATE_PER_MINUTE must be positive")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
