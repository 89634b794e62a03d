// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Port         string `mapstructure:"PORT"`
	SecretKey    string `mapstructure:"SECRET_KEY"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DBHost       string `mapstructure:"DB_HOST"`
	DBPort       string `mapstructure:"DB_PORT"`
	DBUser       string `mapstructure:"DB_USER"`
	DBPassword   string `mapstructure:"DB_PASSWORD"`
	DBName       string `mapstructure:"DB_NAME"`
	DBSSLMode    string `mapstructure:"DB_SSLMODE"`
	RedisURL     string `mapstructure:"REDIS_URL"`
	ContactEmail string `mapstructure:"CONTACT_EMAIL"`
	AdminEmail   string `mapstructure:"ADMIN_EMAIL"`
	SMTPHost     string `mapstructure:"SMTP_HOST"`
	SMTPPort     string `mapstructure:"SMTP_PORT"`
	SMTPUsername string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword string `mapstructure:"SMTP_PASSWORD"`
	Env          string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables alone are enough.
	_ = viper.ReadInConfig()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("SECRET_KEY", "dev-secret-change-in-production")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "chronicle")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CONTACT_EMAIL", "")
	viper.SetDefault("ADMIN_EMAIL", "")
	viper.SetDefault("SMTP_HOST", "")
	viper.SetDefault("SMTP_PORT", "587")
	viper.SetDefault("SMTP_USERNAME", "")
	viper.SetDefault("SMTP_PASSWORD", "")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// DSN returns the Postgres connection string. DATABASE_URL takes precedence
// over the individual DB_* values; legacy "postgres://" URLs are accepted.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		// Some providers still hand out the deprecated scheme.
		if strings.HasPrefix(c.DatabaseURL, "postgres://") {
			return "postgresql://" + strings.TrimPrefix(c.DatabaseURL, "postgres://")
		}
		return c.DatabaseURL
	}
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, sslMode,
	)
}

// IsProduction reports whether the app runs with production hardening enabled.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}

	// Strict checks for production
	if c.IsProduction() {
		if c.SecretKey == "dev-secret-change-in-production" {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if c.DatabaseURL == "" && (c.DBPassword == "password" || c.DBPassword == "") {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DatabaseURL == "" && (c.DBSSLMode == "disable" || c.DBSSLMode == "") {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		if len(c.SecretKey) < 32 {
			log.Println("WARNING: SECRET_KEY is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
