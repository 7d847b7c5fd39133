package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa*/

type Config struct {
	Port           string `mapstructure:"PORT"`
	Storage        string `mapstructure:"STORAGE"` // "redis" or "postgres"
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int    `mapstructure:"REDIS_DB"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	SourcesFile    string `mapstructure:"SOURCES_FILE"`
	AdminToken     string `mapstructure:"ADMIN_TOKEN"`
	MaxRetries     int    `mapstructure:"MAX_RETRIES"`
	SweepLimit     int    `mapstructure:"SWEEP_LIMIT"`
	SweepInterval  string `mapstructure:"SWEEP_INTERVAL"`
	HandlerTimeout string `mapstructure:"HANDLER_TIMEOUT"`
}

func GetConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	err := viper.ReadInConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var config Config
	err = viper.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.Storage == "" {
		c.Storage = "redis"
	}
	if c.SourcesFile == "" {
		c.SourcesFile = "sources.yaml"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.SweepLimit <= 0 {
		c.SweepLimit = 50
	}
}

// GetSweepInterval returns the interval between background retry sweeps.
// Defaults to 1 minute when unset or unparseable.
func (c *Config) GetSweepInterval() time.Duration {
	d, err := time.ParseDuration(c.SweepInterval)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// GetHandlerTimeout returns the per-handler execution timeout.
// Defaults to 10 seconds when unset or unparseable.
func (c *Config) GetHandlerTimeout() time.Duration {
	d, err := time.ParseDuration(c.HandlerTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
