// Package config loads surftabs settings from a YAML file and SURFTABS_
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/vidyasagar/surftabs/internal/theme"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "SURFTABS"

// Config holds application configuration.
type Config struct {
	Theme   string        `mapstructure:"theme"`
	DataDir string        `mapstructure:"data_dir"`
	Log     LogConfig     `mapstructure:"log"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Display DisplayConfig `mapstructure:"display"`
}

// LogConfig selects where structured logs go. An empty File discards them.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// FetchConfig tunes page fetching.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CacheConfig sizes the rendered page cache.
type CacheConfig struct {
	Pages int `mapstructure:"pages"`
}

// DisplayConfig controls which pages the display surface refuses.
type DisplayConfig struct {
	RespectFramePolicy bool `mapstructure:"respect_frame_policy"`
}

func setDefaults(v *viper.Viper) error {
	dataDir, err := DataDir()
	if err != nil {
		return err
	}
	v.SetDefault("theme", theme.DefaultName)
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("fetch.timeout", "15s")
	v.SetDefault("fetch.user_agent", "surftabs/0.1 (terminal browser)")
	v.SetDefault("cache.pages", 50)
	v.SetDefault("display.respect_frame_policy", false)
	return nil
}

// Load reads configuration from path, or the default location when path is
// empty. A missing file is not an error; a malformed one is.
func Load(path string) (Config, error) {
	v := viper.New()
	if err := setDefaults(v); err != nil {
		return Config{}, err
	}

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil && !missingDefault(err, explicit) {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// missingDefault reports whether err only says the default config file does
// not exist. A missing explicit --config file is still an error.
func missingDefault(err error, explicit bool) bool {
	if explicit {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}

// Validate rejects settings the browser cannot run with.
func (c Config) Validate() error {
	var errs []error
	if !theme.Exists(c.Theme) {
		errs = append(errs, fmt.Errorf("theme %q is not one of %s", c.Theme, strings.Join(theme.List(), ", ")))
	}
	if c.Fetch.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch.timeout must be positive, got %s", c.Fetch.Timeout))
	}
	if c.Cache.Pages <= 0 {
		errs = append(errs, fmt.Errorf("cache.pages must be positive, got %d", c.Cache.Pages))
	}
	if strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir must be set"))
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "trace", "debug", "info", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of trace, debug, info, error", c.Log.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
