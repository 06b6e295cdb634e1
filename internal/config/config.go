package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. It is public and must
// not sign tokens in production.
const DefaultJWTSecret = "default-secret-key-change-me"

type Config struct {
	Port         string
	GinMode      string
	LogLevel     string
	DBDriver     string
	DBHost       string
	DBPort       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPath       string
	RedisURL     string
	CacheTTL     time.Duration
	JWTSecret    string
	TokenTTL     time.Duration
	OpenAIAPIKey string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; variables already set win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:         getEnv("PORT", "5000"),
		GinMode:      getEnv("GIN_MODE", "debug"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBHost:       getEnv("DB_HOST", "localhost"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBUser:       getEnv("DB_USER", "planner"),
		DBPassword:   getEnv("DB_PASSWORD", "plannerpassword"),
		DBName:       getEnv("DB_NAME", "student_planner"),
		DBPath:       getEnv("DB_PATH", "planner.db"),
		RedisURL:     getEnv("REDIS_URL", ""),
		CacheTTL:     getDuration("CACHE_TTL", 5*time.Minute),
		JWTSecret:    getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:     getDuration("TOKEN_TTL", 24*time.Hour),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getDuration accepts Go duration strings ("15m") or a plain number of seconds.
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
