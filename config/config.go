// Package config loads the tracker configuration from file, .env and
// environment variables, in that order of precedence (env wins).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Scraper    ScraperConfig    `mapstructure:"scraper"`
	Store      StoreConfig      `mapstructure:"store"`
	Validation ValidationConfig `mapstructure:"validation"`
	Backup     BackupConfig     `mapstructure:"backup"`
	LLM        LLMConfig        `mapstructure:"llm"`
	API        APIConfig        `mapstructure:"api"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ScraperConfig tunes the outbound scraping behavior.
type ScraperConfig struct {
	MaxPages          int     `mapstructure:"max_pages"`
	Incremental       bool    `mapstructure:"incremental"`
	EnforceRelevance  bool    `mapstructure:"enforce_relevance"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
	MaxRetries        int     `mapstructure:"max_retries"`
	InitialBackoffMs  int     `mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int     `mapstructure:"max_backoff_ms"`
}

// StoreConfig holds the on-disk layout of the durable data.
type StoreConfig struct {
	DataDir     string `mapstructure:"data_dir"`
	BackupDir   string `mapstructure:"backup_dir"`
	RejectedDir string `mapstructure:"rejected_dir"`
	ArchiveDir  string `mapstructure:"archive_dir"`
}

// DataFile returns the full path of the dataset file.
func (s StoreConfig) DataFile() string {
	return filepath.Join(s.DataDir, "competitor_prices.json")
}

// ValidationConfig holds snapshot validation thresholds.
type ValidationConfig struct {
	DropThreshold float64 `mapstructure:"drop_threshold"`
}

// BackupConfig holds backup retention settings.
type BackupConfig struct {
	Retention int `mapstructure:"retention"`
}

// LLMConfig points at an OpenAI-compatible extraction endpoint. With no
// API key set, the scraper uses heuristic extraction only.
type LLMConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
}

// APIConfig holds inbound rate limiting for the HTTP API.
type APIConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	Burst             int     `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

var globalConfig *Config

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		// .env is optional, log but don't fail
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PRICE_TRACKER")

	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	globalConfig = &cfg
	return &cfg, nil
}

// loadEnvFile loads the first .env found in the usual locations.
func loadEnvFile() error {
	for _, path := range []string{".env", "config/.env"} {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds environment variables to config keys
func bindEnvVars(v *viper.Viper) {
	// Server
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")

	// Store layout
	v.BindEnv("store.data_dir", "DATA_DIR")

	// LLM extraction
	v.BindEnv("llm.base_url", "OPENAI_BASE_URL")
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")
	v.BindEnv("llm.model", "OPENAI_MODEL")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	// Scraper defaults
	v.SetDefault("scraper.max_pages", 5)
	v.SetDefault("scraper.incremental", true)
	v.SetDefault("scraper.enforce_relevance", true)
	v.SetDefault("scraper.requests_per_second", 0.5)
	v.SetDefault("scraper.burst", 1)
	v.SetDefault("scraper.max_retries", 3)
	v.SetDefault("scraper.initial_backoff_ms", 1000)
	v.SetDefault("scraper.max_backoff_ms", 30000)

	// Store layout defaults
	v.SetDefault("store.data_dir", "./data")
	v.SetDefault("store.backup_dir", "./data/backups")
	v.SetDefault("store.rejected_dir", "./data/rejected")
	v.SetDefault("store.archive_dir", "./data/archives")

	// Validation defaults
	v.SetDefault("validation.drop_threshold", 0.30)

	// Backup defaults
	v.SetDefault("backup.retention", 5)

	// LLM defaults
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")

	// API defaults
	v.SetDefault("api.requests_per_second", 10)
	v.SetDefault("api.burst", 20)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}
