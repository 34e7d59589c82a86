package config

import "github.com/caarlos0/env/v11"

// Config contains runtime configuration required by the service.
type Config struct {
	DBURL         string `env:"DB_URL,notEmpty"`
	APIToken      string `env:"API_TOKEN,notEmpty"`
	Addr          string `env:"ADDR" envDefault:":8080"`
	RatePerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	Debug         bool   `env:"APP_DEBUG" envDefault:"false"`
}

// Load reads required values from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
