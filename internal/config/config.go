package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// Application settings
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	Logging LoggingConfig
}

// Server settings
type ServerConfig struct {
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
}

// Auth settings
type AuthConfig struct {
	JWTSecret      string
	TokenTTL       time.Duration
	LoginRatePerIP float64
	LoginBurst     int
}

// Logging settings
type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			DatabaseURL:    getEnv("DATABASE_URL", "leadpanel.db"),
			AllowedOrigins: getListEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET", ""),
			TokenTTL:       getDurationEnv("TOKEN_TTL", "24h"),
			LoginRatePerIP: getFloatEnv("LOGIN_RATE_PER_SECOND", 1),
			LoginBurst:     getIntEnv("LOGIN_BURST", 5),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if config.Auth.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is empty")
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getDurationEnv(key, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getListEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
