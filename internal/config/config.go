package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL string

	HTTPTimeoutSeconds int

	PageSize         int
	SearchDebounceMS int
	QueryStringSync  bool

	SessionDBPath string

	LogLevel string
	LogFile  string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		APIBaseURL:         EnvDefault("POS_API_URL", "http://localhost:5000/api/elite"),
		HTTPTimeoutSeconds: EnvIntDefault("POS_HTTP_TIMEOUT", 15),
		PageSize:           EnvIntDefault("POS_PAGE_SIZE", 20),
		SearchDebounceMS:   EnvIntDefault("POS_SEARCH_DEBOUNCE_MS", 500),
		QueryStringSync:    EnvBoolDefault("POS_QUERY_SYNC", false),
		SessionDBPath:      EnvDefault("POS_SESSION_DB", sessionDBDefault()),
		LogLevel:           EnvDefault("POS_LOG_LEVEL", "info"),
		LogFile:            EnvDefault("POS_LOG_FILE", "pos-terminal.log"),
	}

	return cfg, nil
}

func sessionDBDefault() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pos-session.db"
	}
	return filepath.Join(home, ".pos-terminal", "session.db")
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
