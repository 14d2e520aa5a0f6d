// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the application configuration.
type Config struct {
	DiscordBotToken string        `envconfig:"DISCORD_BOT_TOKEN"`
	CommandPrefix   string        `envconfig:"COMMAND_PREFIX" default:"!ww "`
	NitterMirrors   []string      `envconfig:"NITTER_MIRRORS"`
	TickInterval    time.Duration `envconfig:"TICK_INTERVAL" default:"30s"`
	AccountDelay    time.Duration `envconfig:"ACCOUNT_DELAY" default:"1s"`
	ChannelDelay    time.Duration `envconfig:"CHANNEL_DELAY" default:"2s"`
	MetricsAddr     string        `envconfig:"METRICS_ADDR" default:":9090"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from environment variables. A missing bot
// token is a startup error, not a runtime one.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}
	return &cfg, nil
}
