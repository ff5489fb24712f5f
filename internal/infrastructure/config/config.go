// Package config provides centralized configuration management
// using Viper for configuration loading and validation
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	AI       AIConfig       `mapstructure:"ai"`
	OCR      OCRConfig      `mapstructure:"ocr"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"`
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Database     string `mapstructure:"database"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	SSLMode      string `mapstructure:"ssl_mode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

// RedisConfig contains Redis configuration. An empty host disables the
// Redis cache and falls back to the in-memory implementation.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// AIConfig contains the inference and retrieval configuration
type AIConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	APIKey          string        `mapstructure:"api_key"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	CompletionModel string        `mapstructure:"completion_model"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`

	EmbeddingBatchSize     int           `mapstructure:"embedding_batch_size"`
	EmbeddingBatchInterval time.Duration `mapstructure:"embedding_batch_interval"`

	PlanTemperature   float64 `mapstructure:"plan_temperature"`
	ReportTemperature float64 `mapstructure:"report_temperature"`

	RetrievalTopK   int    `mapstructure:"retrieval_top_k"`
	IndexURL        string `mapstructure:"index_url"`
	IndexCollection string `mapstructure:"index_collection"`

	SummaryCacheTTL time.Duration `mapstructure:"summary_cache_ttl"`
}

// OCRConfig contains the OCR service configuration
type OCRConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/nutricoach")
	}

	v.SetEnvPrefix("NUTRICOACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Defaults cover the no-config-file case.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "NutriCoach")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.database", "nutricoach")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	// Redis defaults (disabled unless a host is set)
	v.SetDefault("redis.port", 6379)

	// AI defaults: a local LM Studio server speaking the OpenAI API
	v.SetDefault("ai.base_url", "http://localhost:1234/v1")
	v.SetDefault("ai.api_key", "lm-studio")
	v.SetDefault("ai.embedding_model", "text-embedding-nomic-embed-text-v1.5")
	v.SetDefault("ai.completion_model", "phi-4")
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("ai.max_retries", 0)
	v.SetDefault("ai.embedding_batch_size", 100)
	v.SetDefault("ai.embedding_batch_interval", "100ms")
	v.SetDefault("ai.plan_temperature", 0.25)
	v.SetDefault("ai.report_temperature", 0.1)
	v.SetDefault("ai.retrieval_top_k", 30)
	v.SetDefault("ai.index_url", "http://localhost:8000")
	v.SetDefault("ai.index_collection", "recipes")
	v.SetDefault("ai.summary_cache_ttl", "24h")

	// OCR defaults
	v.SetDefault("ocr.endpoint", "https://api.ocr.space/parse/image")
	v.SetDefault("ocr.language", "eng")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	if c.AI.EmbeddingBatchSize < 1 {
		return fmt.Errorf("embedding batch size must be positive: %d", c.AI.EmbeddingBatchSize)
	}
	if c.AI.RetrievalTopK < 1 {
		return fmt.Errorf("retrieval top-k must be positive: %d", c.AI.RetrievalTopK)
	}
	if c.AI.PlanTemperature < 0 || c.AI.PlanTemperature > 2 {
		return fmt.Errorf("plan temperature out of range: %f", c.AI.PlanTemperature)
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// RedisEnabled reports whether a Redis endpoint is configured
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}
