package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	HistoryBackendFile   = "file"
	HistoryBackendSQLite = "sqlite"
	HistoryBackendRedis  = "redis"
	HistoryBackendMemory = "memory"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv             string
	Port               string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string
	GeminiTimeout      time.Duration
	HistoryBackend     string
	HistoryPath        string
	RedisURL           string
	CORSAllowedOrigins []string
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("PORT", "8080"),
		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.5-flash-image-preview"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiTimeout:      time.Second * time.Duration(getEnvInt("GEMINI_TIMEOUT_SECONDS", 60)),
		HistoryBackend:     strings.ToLower(getEnv("HISTORY_BACKEND", HistoryBackendFile)),
		HistoryPath:        getEnv("HISTORY_PATH", "./data"),
		RedisURL:           os.Getenv("REDIS_URL"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		HTTPReadTimeout:    time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:   time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 240)),
		HTTPIdleTimeout:    time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:    getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.HistoryBackend {
	case HistoryBackendFile, HistoryBackendSQLite, HistoryBackendMemory:
	case HistoryBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("REDIS_URL is required when HISTORY_BACKEND=redis")
		}
	default:
		return nil, fmt.Errorf("unsupported HISTORY_BACKEND %q", cfg.HistoryBackend)
	}

	if cfg.GeminiTimeout <= 0 {
		return nil, fmt.Errorf("GEMINI_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

// DemoMode reports whether generations are synthesized locally because no
// Gemini key is configured.
func (c *Config) DemoMode() bool {
	return c.GeminiAPIKey == ""
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
