// Package config loads CLI settings from defaults, an optional .env file,
// an optional YAML config file, HTTPTEMPLATE_* environment variables and
// command-line flags, in increasing order of precedence.
//
// The .env file is read without touching the process environment, so its
// values sit just above the defaults and below the config file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. HTTPTEMPLATE_LOG_LEVEL.
const EnvPrefix = "HTTPTEMPLATE"

// Config holds the CLI configuration.
type Config struct {
	LogLevel      string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat     string        `mapstructure:"log_format" validate:"oneof=text json"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gte=0"`
	UserAgent     string        `mapstructure:"user_agent"`
	ThrottleRPS   int           `mapstructure:"throttle_rps" validate:"gte=0"`
	ThrottleBurst int           `mapstructure:"throttle_burst" validate:"required_with=ThrottleRPS,gte=0"`
	Progress      bool          `mapstructure:"progress"`
}

var defaults = map[string]any{
	"log_level":      "info",
	"log_format":     "text",
	"timeout":        time.Duration(0),
	"user_agent":     "",
	"throttle_rps":   0,
	"throttle_burst": 0,
	"progress":       false,
}

// keys lists the settings in a fixed order.
var keys = []string{"log_level", "log_format", "timeout", "user_agent", "throttle_rps", "throttle_burst", "progress"}

// DotEnvFile is the optional dotenv file read from the working directory.
const DotEnvFile = ".env"

// Load resolves the configuration. configFile may be empty. flags, when
// non-nil, are bound by name with dashes mapped to underscores.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	dotenv, err := readDotEnv(DotEnvFile)
	if err != nil {
		return nil, err
	}

	v := viper.New()

	for _, key := range keys {
		if val, ok := dotenv[envName(key)]; ok {
			v.SetDefault(key, val)
			continue
		}
		v.SetDefault(key, defaults[key])
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for _, key := range keys {
			f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("binding flag %s: %w", f.Name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// readDotEnv parses path into a map. A missing file yields no values.
func readDotEnv(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return vals, nil
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(key)
}

// SlogLevel maps LogLevel onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
