package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	Similarity SimilarityConfig
	Filter     FilterConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig points at the product dataset
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// SimilarityConfig controls the text similarity index and recommendations
type SimilarityConfig struct {
	IncludeMaterial bool `mapstructure:"include_material"`
	TopN            int  `mapstructure:"top_n"`
}

// FilterConfig holds the thresholds of the search filters
type FilterConfig struct {
	TopRatedMinRating  float64 `mapstructure:"top_rated_min_rating"`
	TopRatedMinReviews int     `mapstructure:"top_rated_min_reviews"`
	DefaultMinPrice    float64 `mapstructure:"default_min_price"`
	DefaultMaxPrice    float64 `mapstructure:"default_max_price"`
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

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ecorec/")

	// ECOREC_CACHE_REDIS_URL -> cache.redis_url
	v.SetEnvPrefix("ECOREC")
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

// loadEnvFile imports a .env file from the working directory if there is one.
// Variables already present in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values. Every key needs a default so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	v.SetDefault("catalog.path", "amazon_eco-friendly_products.csv")

	v.SetDefault("similarity.include_material", false)
	v.SetDefault("similarity.top_n", 5)

	v.SetDefault("filter.top_rated_min_rating", 4.5)
	v.SetDefault("filter.top_rated_min_reviews", 1)
	v.SetDefault("filter.default_min_price", 0.0)
	v.SetDefault("filter.default_max_price", 100.0)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	v.SetDefault("ratelimit.per_ip", 120)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Catalog.Path) == "" {
		return fmt.Errorf("catalog path is required (set ECOREC_CATALOG_PATH)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Similarity.TopN <= 0 {
		return fmt.Errorf("similarity top_n must be positive, got: %d", config.Similarity.TopN)
	}

	if config.Filter.TopRatedMinRating < 0 || config.Filter.TopRatedMinRating > 5 {
		return fmt.Errorf("filter top_rated_min_rating must be within 0..5, got: %v", config.Filter.TopRatedMinRating)
	}

	if config.Filter.TopRatedMinReviews < 0 {
		return fmt.Errorf("filter top_rated_min_reviews must not be negative, got: %d", config.Filter.TopRatedMinReviews)
	}

	if config.Filter.DefaultMinPrice < 0 || config.Filter.DefaultMaxPrice < config.Filter.DefaultMinPrice {
		return fmt.Errorf("default price range is invalid: %.2f..%.2f",
			config.Filter.DefaultMinPrice, config.Filter.DefaultMaxPrice)
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	return nil
}
