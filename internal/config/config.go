package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "DRAGSORT"

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UIConfig holds reorder view settings. Durations are milliseconds.
type UIConfig struct {
	ItemHeight   int    `mapstructure:"item_height"`
	AnimationMs  int    `mapstructure:"animation_ms"`
	Vibrate      bool   `mapstructure:"vibrate"`
	HandleOnly   bool   `mapstructure:"handle_only"`
	HandleClass  string `mapstructure:"handle_class"`
	CancelPolicy string `mapstructure:"cancel_policy"`
	SettleMs     int    `mapstructure:"settle_ms"`
}

func (u UIConfig) AnimationDuration() time.Duration {
	return time.Duration(u.AnimationMs) * time.Millisecond
}

func (u UIConfig) SettleDelay() time.Duration {
	return time.Duration(u.SettleMs) * time.Millisecond
}

// LogConfig holds logger settings. An empty Path disables logging.
type LogConfig struct {
	Path  string
	Level string
}

// InvalidError reports a configuration key holding an unusable value.
type InvalidError struct {
	Key    string
	Value  any
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("config %s=%v: %s", e.Key, e.Value, e.Reason)
}

func defaultDBPath() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "dragsort", "dragsort.db")
}

// DefaultPath is the config file used when DRAGSORT_CONFIG is unset.
func DefaultPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "dragsort", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix DRAGSORT_.
// An explicit path (flag) wins over DRAGSORT_CONFIG.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", defaultDBPath())
	v.SetDefault("ui.item_height", 3)
	v.SetDefault("ui.animation_ms", 150)
	v.SetDefault("ui.vibrate", true)
	v.SetDefault("ui.handle_only", true)
	v.SetDefault("ui.handle_class", "drag-handle")
	v.SetDefault("ui.cancel_policy", "commit")
	v.SetDefault("ui.settle_ms", 100)
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default file is fine; an explicit one must exist and parse.
		if explicit != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
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

// Validate checks value ranges. It returns an *InvalidError for the first bad key.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Database.Path) == "":
		return &InvalidError{Key: "database.path", Value: c.Database.Path, Reason: "must not be empty"}
	case c.UI.ItemHeight <= 0:
		return &InvalidError{Key: "ui.item_height", Value: c.UI.ItemHeight, Reason: "must be positive"}
	case c.UI.AnimationMs < 0:
		return &InvalidError{Key: "ui.animation_ms", Value: c.UI.AnimationMs, Reason: "must not be negative"}
	case c.UI.SettleMs < 0:
		return &InvalidError{Key: "ui.settle_ms", Value: c.UI.SettleMs, Reason: "must not be negative"}
	}
	switch strings.ToLower(strings.TrimSpace(c.UI.CancelPolicy)) {
	case "commit", "abort":
	default:
		return &InvalidError{Key: "ui.cancel_policy", Value: c.UI.CancelPolicy, Reason: `want "commit" or "abort"`}
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "error":
	default:
		return &InvalidError{Key: "log.level", Value: c.Log.Level, Reason: "unknown level"}
	}
	return nil
}
