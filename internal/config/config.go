package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	Scraper ScraperConfig
	Cache   CacheConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type ScraperConfig struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	DelayMin   time.Duration
	DelayMax   time.Duration
	UserAgents []string
	// OutputFile is reserved for a future export feature and is not
	// consumed by any component.
	OutputFile string
}

type CacheConfig struct {
	// RedisAddr enables the response cache when non-empty.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

type LoggingConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvOrDefault("SERVER_PORT", "8080"),
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getDurationOrDefault("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getDurationOrDefault("SERVER_WRITE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getDurationOrDefault("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Scraper: ScraperConfig{
			BaseURL:    getEnvOrDefault("SCRAPER_BASE_URL", "https://novaautoland.com"),
			Timeout:    getDurationOrDefault("SCRAPER_TIMEOUT", 15*time.Second),
			MaxRetries: getIntOrDefault("SCRAPER_MAX_RETRIES", 3),
			DelayMin:   getDurationOrDefault("SCRAPER_DELAY_MIN", 1*time.Second),
			DelayMax:   getDurationOrDefault("SCRAPER_DELAY_MAX", 5*time.Second),
			UserAgents: getStringSliceOrDefault("SCRAPER_USER_AGENTS", defaultUserAgents()),
			OutputFile: getEnvOrDefault("SCRAPER_OUTPUT_FILE", "scraped_data.json"),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnvOrDefault("REDIS_ADDR", ""),
			RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
			RedisDB:       getIntOrDefault("REDIS_DB", 0),
			TTL:           getDurationOrDefault("CACHE_TTL", 5*time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Scraper.BaseURL == "" {
		return fmt.Errorf("SCRAPER_BASE_URL must not be empty")
	}

	if c.Scraper.MaxRetries < 1 {
		return fmt.Errorf("SCRAPER_MAX_RETRIES must be at least 1")
	}

	if c.Scraper.DelayMin > c.Scraper.DelayMax {
		return fmt.Errorf("SCRAPER_DELAY_MIN cannot be greater than SCRAPER_DELAY_MAX")
	}

	if len(c.Scraper.UserAgents) == 0 {
		return fmt.Errorf("SCRAPER_USER_AGENTS must contain at least one entry")
	}

	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getStringSliceOrDefault(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func defaultUserAgents() []string {
	return []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.114 Safari/537.36",
	}
}
