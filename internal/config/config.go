package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode   string `mapstructure:"mode"`
	Port   int    `mapstructure:"port"`
	Secret string `mapstructure:"secret"`
	DBPath string `mapstructure:"db_path"`

	MaxEditors  int           `mapstructure:"max_editors"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	PseudonymSalt string `mapstructure:"pseudonym_salt"`

	// Edit submissions allowed per client per window.
	EditRateLimit int           `mapstructure:"edit_rate_limit"`
	RateWindow    time.Duration `mapstructure:"rate_window"`

	// JSON object of gameId -> uid admin credentials, normally
	// supplied via the ADMIN_WHITELIST env var.
	AdminWhitelist string `mapstructure:"admin_whitelist"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("secret", "dev-secret")
	v.SetDefault("db_path", "./data/rosterd.db")
	v.SetDefault("max_editors", 10)
	v.SetDefault("idle_timeout", "3m")
	v.SetDefault("pseudonym_salt", "dev-fallback-salt")
	v.SetDefault("edit_rate_limit", 20)
	v.SetDefault("rate_window", "1m")

	// Secrets stay out of the yaml files.
	_ = v.BindEnv("admin_whitelist", "ADMIN_WHITELIST")
	_ = v.BindEnv("pseudonym_salt", "PSEUDONYM_SALT")
	_ = v.BindEnv("secret", "SESSION_SECRET")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Int("max_editors", cfg.MaxEditors).Dur("idle_timeout", cfg.IdleTimeout).Msg("config ready")
	return &cfg, nil
}
