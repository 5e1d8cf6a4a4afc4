package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Values come from the process
// environment, optionally seeded from a .env file.
type Config struct {
	Port    string
	GinMode string

	LogLevel string

	DBDriver       string // sqlite, mysql or postgres
	DatabaseURL    string
	DBMaxOpenConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	AMQPURL    string
	EventQueue string

	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigin     string

	AuthEnabled       bool
	JWTSecret         string
	TokenTTL          time.Duration
	AdminUsername     string
	AdminPasswordHash string
}

// Load reads .env (if present) and the environment.
func Load() (Config, error) {
	envFileErr := godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		GinMode:           getenv("GIN_MODE", "debug"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DatabaseURL:       getenv("DATABASE_URL", "restaurant.db"),
		DBMaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           envInt("REDIS_DB", 0),
		LockTTL:           envDur("LOCK_TTL", 10*time.Second),
		AMQPURL:           os.Getenv("AMQP_URL"),
		EventQueue:        getenv("EVENT_QUEUE", "reservation.events"),
		RateLimitRPS:      envFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    envInt("RATE_LIMIT_BURST", 40),
		CORSOrigin:        getenv("CORS_ORIGIN", "*"),
		AuthEnabled:       envBool("AUTH_ENABLED", false),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		TokenTTL:          envDur("TOKEN_TTL", 12*time.Hour),
		AdminUsername:     getenv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
	}

	if err := cfg.Validate(); err != nil {
		if envFileErr != nil && !os.IsNotExist(envFileErr) {
			return cfg, fmt.Errorf("%w (loading .env: %v)", err, envFileErr)
		}
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AuthEnabled {
		if c.JWTSecret == "" {
			return fmt.Errorf("AUTH_ENABLED requires JWT_SECRET")
		}
		if c.AdminPasswordHash == "" {
			return fmt.Errorf("AUTH_ENABLED requires ADMIN_PASSWORD_HASH")
		}
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return def
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}
