package config

import (
	"errors"
	"strings"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort               string   `env:"HTTP_PORT" envDefault:"8080"`
	TrustedProxies         []string `env:"TRUSTED_PROXIES" envSeparator:","`
	ModelPath              string   `env:"MODEL_PATH"`
	ModelURL               string   `env:"MODEL_URL"`
	ModelTimeoutSeconds    int      `env:"MODEL_TIMEOUT_SECONDS" envDefault:"10"`
	DefaultVariant         string   `env:"DEFAULT_VARIANT"`
	VariantsFile           string   `env:"VARIANTS_FILE"`
	ImportanceTopN         int      `env:"IMPORTANCE_TOP_N" envDefault:"10"`
	RedisAddr              string   `env:"REDIS_ADDR"`
	RedisPassword          string   `env:"REDIS_PASSWORD"`
	RedisDB                int      `env:"REDIS_DB" envDefault:"0"`
	ScoreCacheTTLSeconds   int      `env:"SCORE_CACHE_TTL_SECONDS" envDefault:"0"`
	RateLimitMax           int      `env:"RATE_LIMIT_MAX" envDefault:"60"`
	RateLimitWindowSeconds int      `env:"RATE_LIMIT_WINDOW_SECONDS" envDefault:"60"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate exige exactamente una fuente de modelo.
func (c *Config) Validate() error {
	hasPath := strings.TrimSpace(c.ModelPath) != ""
	hasURL := strings.TrimSpace(c.ModelURL) != ""
	switch {
	case !hasPath && !hasURL:
		return errors.New("one of MODEL_PATH or MODEL_URL is required")
	case hasPath && hasURL:
		return errors.New("MODEL_PATH and MODEL_URL are mutually exclusive")
	}
	if c.ImportanceTopN <= 0 {
		c.ImportanceTopN = 10
	}
	return nil
}
