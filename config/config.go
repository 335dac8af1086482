package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Environment string          `mapstructure:"environment"`
	Logging     LoggingConfig   `mapstructure:"logging"`
	Delivery    DeliveryConfig  `mapstructure:"delivery"`
	History     HistoryConfig   `mapstructure:"history"`
	Seed        SeedConfig      `mapstructure:"seed"`
	Evaluate    EvaluateConfig  `mapstructure:"evaluate"`
	Server      ServerConfig    `mapstructure:"server"`
	Redis       RedisConfig     `mapstructure:"redis"`
	Dashboard   DashboardConfig `mapstructure:"dashboard"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DeliveryConfig holds the synthetic delivery store configuration
type DeliveryConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig holds the historical recommender store configuration
type HistoryConfig struct {
	Path    string `mapstructure:"path"`
	CSVPath string `mapstructure:"csv_path"`
}

// SeedConfig holds seed generator configuration
type SeedConfig struct {
	Orders    int `mapstructure:"orders"`
	BatchSize int `mapstructure:"batch_size"`
}

// EvaluateConfig holds evaluation harness configuration
type EvaluateConfig struct {
	Repetitions int    `mapstructure:"repetitions"`
	ReportPath  string `mapstructure:"report_path"`
	BulkSizes   []int  `mapstructure:"bulk_sizes"`
}

// ServerConfig holds dashboard HTTP server configuration
type ServerConfig struct {
	Address string        `mapstructure:"address"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// RedisConfig holds Redis configuration for the dashboard cache
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Enabled  bool   `mapstructure:"enabled"`
}

// DashboardConfig holds recommendation dashboard configuration
type DashboardConfig struct {
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
	WarmInterval time.Duration `mapstructure:"warm_interval"`
}

// LoadConfig reads configuration from file or environment variables
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Setup configuration paths
	v.AddConfigPath(path)
	v.AddConfigPath("./config")
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		// Continue without a config file - ENV vars and defaults still apply
	}

	// Enable environment variables to override config
	v.SetEnvPrefix("DELIVERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Core settings
	v.SetDefault("environment", "development")
	v.SetDefault("logging.level", "info")

	// Store paths: explicit configuration, never a hidden package default
	v.SetDefault("delivery.path", "restaurant_delivery.db")
	v.SetDefault("history.path", "restaurant_order_recommender.db")
	v.SetDefault("history.csv_path", "historical_data.csv")

	// Seed generator settings
	v.SetDefault("seed.orders", 10000)
	v.SetDefault("seed.batch_size", 500)

	// Evaluation harness settings
	v.SetDefault("evaluate.repetitions", 5)
	v.SetDefault("evaluate.report_path", "evaluation_results.csv")
	v.SetDefault("evaluate.bulk_sizes", []int{1000, 10000, 50000})

	// Dashboard server settings
	v.SetDefault("server.address", "0.0.0.0:8080")
	v.SetDefault("server.timeout", "30s")

	// Redis settings
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.enabled", false)

	// Dashboard cache settings
	v.SetDefault("dashboard.cache_ttl", "5m")
	v.SetDefault("dashboard.warm_interval", "10m")
}
