package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/smartdiet/backend/internal/domain"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Catalog       CatalogConfig
	Recommend     RecommendConfig
	Cache         CacheConfig
	RateLimit     RateLimitConfig
	Report        ReportConfig
	Log           LogConfig
	OpenFoodFacts OpenFoodFactsConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig locates the food catalog and the optional rule overlay
type CatalogConfig struct {
	FoodsPath        string `mapstructure:"foods_path"`
	RulesOverlayPath string `mapstructure:"rules_overlay_path"`
}

// RecommendConfig holds ranking and food selection tuning
type RecommendConfig struct {
	MaxItems        int      `mapstructure:"max_items"`
	SuggestionLimit int      `mapstructure:"suggestion_limit"`
	StapleKeywords  []string `mapstructure:"staple_keywords"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute, 0 disables
}

// ReportConfig holds report export configuration
type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// OpenFoodFactsConfig holds catalog ingestion settings
type OpenFoodFactsConfig struct {
	BaseURL           string  `mapstructure:"base_url"`
	PageSize          int     `mapstructure:"page_size"`
	Pages             int     `mapstructure:"pages"`
	MinRows           int     `mapstructure:"min_rows"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	CuratedPath       string  `mapstructure:"curated_path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/smartdiet/")

	// Environment variable settings: SMARTDIET_SERVER_PORT -> server.port
	v.SetEnvPrefix("SMARTDIET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env if present; existing variables win
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv picks it up during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.foods_path", "data/foods.csv")
	v.SetDefault("catalog.rules_overlay_path", "")

	// Recommendation defaults
	v.SetDefault("recommend.max_items", domain.DefaultMaxFoods)
	v.SetDefault("recommend.suggestion_limit", 0)
	v.SetDefault("recommend.staple_keywords", domain.DefaultStapleKeywords)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)

	// Report defaults
	v.SetDefault("report.dir", "reports")

	// Log defaults
	v.SetDefault("log.level", "info")

	// Open Food Facts defaults
	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.page_size", 250)
	v.SetDefault("openfoodfacts.pages", 30)
	v.SetDefault("openfoodfacts.min_rows", 200)
	v.SetDefault("openfoodfacts.requests_per_second", 1.0)
	v.SetDefault("openfoodfacts.curated_path", "data/indian_foods.csv")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}
	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}
	if config.Recommend.MaxItems <= 0 {
		return fmt.Errorf("recommend.max_items must be positive, got: %d", config.Recommend.MaxItems)
	}
	if config.Recommend.SuggestionLimit < 0 {
		return fmt.Errorf("recommend.suggestion_limit must not be negative, got: %d", config.Recommend.SuggestionLimit)
	}
	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit.per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}
	return nil
}
