package config

import "github.com/kelseyhightower/envconfig"

// Config holds application configuration loaded from environment variables.
type Config struct {
	DiscordToken string `envconfig:"DISCORD_TOKEN" required:"true"`
	DBPath       string `envconfig:"DB_PATH" default:"./data/stalkbroker.db"`
	ForecastAddr string `envconfig:"FORECAST_ADDR" default:"http://localhost:8090"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr     string `envconfig:"HTTP_ADDR" default:":8080"` // healthz + metrics
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
