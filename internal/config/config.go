// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	Server      ServerConfig
	Database    DatabaseConfig
	Auth        AuthConfig
	Keys        KeysConfig
	Webhook     WebhookConfig
	CORS        CORSConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

// AuthConfig selects how bearer credentials are resolved to a user.
// Mode "provider" delegates to the hosted auth provider's user-info endpoint;
// mode "jwt" verifies HS256 tokens locally with SecretKey.
type AuthConfig struct {
	Mode        string
	ProviderURL string
	ProviderKey string
	SecretKey   string
	Timeout     int // seconds, provider mode only
}

type KeysConfig struct {
	SignSecret       string
	DisplayTokenMode string // "random" or "masked", fixed per deployment
	QRDomain         string
}

type WebhookConfig struct {
	SecretAPIKey  string
	ValidationURL string
	Timeout       int // seconds
}

type CORSConfig struct {
	AllowedOrigins []string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "owlnest_keys"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "silent"),
		},
		Auth: AuthConfig{
			Mode:        getEnv("AUTH_MODE", "provider"),
			ProviderURL: getEnv("AUTH_PROVIDER_URL", ""),
			ProviderKey: getEnv("AUTH_PROVIDER_KEY", ""),
			SecretKey:   getEnv("AUTH_JWT_SECRET", "change-me-in-production"),
			Timeout:     getEnvAsInt("AUTH_TIMEOUT", 10),
		},
		Keys: KeysConfig{
			SignSecret:       getEnv("KEY_SIGN_SECRET", ""),
			DisplayTokenMode: getEnv("KEYS_DISPLAY_TOKEN_MODE", "random"),
			QRDomain:         getEnv("KEYS_QR_DOMAIN", "https://owlnestofficial.com"),
		},
		Webhook: WebhookConfig{
			SecretAPIKey:  getEnv("SNIPCART_SECRET_API_KEY", ""),
			ValidationURL: getEnv("SNIPCART_VALIDATION_URL", "https://app.snipcart.com/api/requestvalidation"),
			Timeout:       getEnvAsInt("WEBHOOK_TIMEOUT", 10),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("ALLOWED_ORIGINS", []string{"https://owlnestofficial.com"}),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.Keys.SignSecret == "" && c.Environment == "production" {
		return fmt.Errorf("key signing secret is required in production")
	}

	if c.Auth.Mode != "provider" && c.Auth.Mode != "jwt" {
		return fmt.Errorf("invalid auth mode %q (expected provider or jwt)", c.Auth.Mode)
	}

	if c.Auth.Mode == "provider" && c.Auth.ProviderURL == "" && c.Environment == "production" {
		return fmt.Errorf("auth provider URL is required in production")
	}

	if c.Auth.Mode == "jwt" && c.Auth.SecretKey == "change-me-in-production" && c.Environment == "production" {
		return fmt.Errorf("JWT secret key must be changed in production")
	}

	if c.Keys.DisplayTokenMode != "random" && c.Keys.DisplayTokenMode != "masked" {
		return fmt.Errorf("invalid display token mode %q (expected random or masked)", c.Keys.DisplayTokenMode)
	}

	if c.Database.Password == "" && c.Environment == "production" {
		return fmt.Errorf("database password is required in production")
	}

	// Credentialed endpoints must never run with a wildcard origin.
	for _, origin := range c.CORS.AllowedOrigins {
		if origin == "*" {
			return fmt.Errorf("wildcard CORS origin is not allowed")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
