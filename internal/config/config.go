package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	API struct {
		BaseURL        string `mapstructure:"base_url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"api"`

	Credentials struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"credentials"`

	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`

	Monitoring struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"monitoring"`

	Receipts struct {
		Dir string `mapstructure:"dir"`
	} `mapstructure:"receipts"`
}

// Timeout returns the configured API timeout as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile("configs/config.yaml")

	// Auto bind environment variables
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	home, _ := os.UserHomeDir()
	v.SetDefault("api.base_url", "https://carviva-fuelwallet-api-production.up.railway.app")
	v.SetDefault("api.timeout_seconds", 30)
	v.SetDefault("credentials.dir", filepath.Join(home, ".fuelpay"))
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("monitoring.enabled", false)
	v.SetDefault("monitoring.port", 9190)
	v.SetDefault("receipts.dir", filepath.Join(home, ".fuelpay", "receipts"))

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	// Override from FUELPAY_* environment variables
	if base := os.Getenv("FUELPAY_API_URL"); base != "" {
		cfg.API.BaseURL = base
	}
	if dir := os.Getenv("FUELPAY_CRED_DIR"); dir != "" {
		cfg.Credentials.Dir = dir
	}
	if addr := os.Getenv("FUELPAY_REDIS_ADDR"); addr != "" {
		cfg.Redis.Enabled = true
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("FUELPAY_REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}
	if port := os.Getenv("FUELPAY_MONITORING_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Monitoring.Enabled = true
			cfg.Monitoring.Port = n
		}
	}

	return &cfg
}
