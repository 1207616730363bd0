package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type config struct {
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	Name   string `mapstructure:"name"`
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
	Format string `mapstructure:"format"`

	RedisAddr        string        `mapstructure:"redis-addr"`
	RedisKey         string        `mapstructure:"redis-key"`
	RedisIdleTimeout time.Duration `mapstructure:"redis-idle-timeout"`

	SlackWebhookURL string `mapstructure:"slack-webhook-url"`
	AlertURL        string `mapstructure:"alert-url"`

	Addr            string        `mapstructure:"addr"`
	APIKey          string        `mapstructure:"api-key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
	MetricNames     []string      `mapstructure:"metric-names"`
}

func loadConfig(v *viper.Viper) (*config, error) {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
