// Package config loads arena settings from defaults, an optional config
// file and ARENA_-prefixed environment variables, in rising precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"othello-arena/internal/validator"
)

// Config holds every tunable the arena understands.
type Config struct {
	HTTPAddr     string        `mapstructure:"http_addr" validate:"required"`
	DBPath       string        `mapstructure:"db_path" validate:"required"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	OTLPEndpoint string        `mapstructure:"otlp_endpoint" validate:"required"`
	OpeningDepth int           `mapstructure:"opening_depth" validate:"gte=0,lte=6"`
	Concurrency  int           `mapstructure:"concurrency" validate:"gte=1"`
	MoveTimeout  time.Duration `mapstructure:"move_timeout" validate:"gt=0"`
}

// Load reads the configuration, optionally merging the file at path.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("db_path", "arena.db")
	v.SetDefault("redis_addr", "")
	v.SetDefault("otlp_endpoint", "otel-collector:4317")
	v.SetDefault("opening_depth", 1)
	v.SetDefault("concurrency", 4)
	v.SetDefault("move_timeout", 3*time.Second)

	v.SetEnvPrefix("ARENA")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := validator.GetValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
