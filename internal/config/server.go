package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// DefaultJWTSecret signs tokens when JWT_SECRET is unset
const DefaultJWTSecret = "change-me-in-production"

type Server struct {
	Port     int
	DBPath   string
	LogLevel string
	// Auth
	JWTSecret string
	TokenTTL  time.Duration
	// Login rate limit per client IP
	LoginRatePerMin int
	LoginBurst      int
	// Seed three starter articles into an empty database
	SeedArticles bool
	// Shutdown
	ShutdownTimeout time.Duration
}

func LoadServer() (*Server, error) {
	cfg := &Server{
		Port:            envInt("PORT", 9000),
		DBPath:          envStr("ARTICLES_DB_PATH", "articles.db"),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		JWTSecret:       envStr("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:        envDuration("TOKEN_TTL", 24*time.Hour),
		LoginRatePerMin: envInt("LOGIN_RATE_PER_MIN", 30),
		LoginBurst:      envInt("LOGIN_BURST", 5),
		SeedArticles:    envBool("SEED_ARTICLES", true),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// InsecureSecret reports whether tokens are signed with the built-in secret
func (c *Server) InsecureSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

func (c *Server) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.DBPath == "" {
		return fmt.Errorf("ARTICLES_DB_PATH must not be empty")
	}
	if len(c.JWTSecret) < 8 {
		return fmt.Errorf("JWT_SECRET must be at least 8 characters")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.LoginRatePerMin < 1 {
		return fmt.Errorf("LOGIN_RATE_PER_MIN must be positive, got %d", c.LoginRatePerMin)
	}
	if c.LoginBurst < 1 {
		return fmt.Errorf("LOGIN_BURST must be positive, got %d", c.LoginBurst)
	}
	return nil
}

// Addr returns the listen address
func (c *Server) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
