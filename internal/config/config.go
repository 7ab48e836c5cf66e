package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backend selectors for the favorites store.
const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds all configuration for the movie companion service.
type Config struct {
	OMDB           OMDBConfig
	Chatbot        ChatbotConfig
	Redis          RedisConfig
	DB             DBConfig
	StorageBackend string
	Port           string

	// RateLimitMax requests per RateLimitWindowSec per client IP on routes
	// that can reach the metadata provider. 0 disables the limiter.
	RateLimitMax       int
	RateLimitWindowSec int
}

// OMDBConfig holds OMDb API configuration.
type OMDBConfig struct {
	APIKey  string
	BaseURL string
}

// ChatbotConfig holds the chatbot endpoint configuration.
type ChatbotConfig struct {
	URL string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// DBConfig holds PostgreSQL configuration.
type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

// DSN returns the PostgreSQL connection string.
func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rateMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX", "60"))
	rateWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SEC", "60"))

	cfg := &Config{
		OMDB: OMDBConfig{
			APIKey:  getEnv("OMDB_API_KEY", "XXXXXX"),
			BaseURL: getEnv("OMDB_BASE_URL", "https://www.omdbapi.com"),
		},
		Chatbot: ChatbotConfig{
			URL: getEnv("CHATBOT_URL", "http://localhost:8000/chat"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "movie_companion"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		StorageBackend:     getEnv("STORAGE_BACKEND", StorageRedis),
		Port:               getEnv("SERVER_PORT", "8080"),
		RateLimitMax:       rateMax,
		RateLimitWindowSec: rateWindow,
	}

	switch cfg.StorageBackend {
	case StorageRedis, StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE_BACKEND %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
