package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database       DatabaseConfig    `mapstructure:"database"`
	Import         ImportConfig      `mapstructure:"import"`
	Log            LogConfig         `mapstructure:"log"`
	UI             UIConfig          `mapstructure:"ui"`
	Review         ReviewConfig      `mapstructure:"review"`
	Classification map[string]string `mapstructure:"classification"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ImportConfig holds the options applied to mappings created without explicit options.
type ImportConfig struct {
	DateFormat              string `mapstructure:"date_format"`
	NegativeAmountIsExpense bool   `mapstructure:"negative_amount_is_expense"`
	InvertAmount            bool   `mapstructure:"invert_amount"`
	PresetsPath             string `mapstructure:"presets_path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// ReviewConfig tunes near-duplicate review.
type ReviewConfig struct {
	MaxDaysApart     int     `mapstructure:"max_days_apart"`
	MaxDistanceRatio float64 `mapstructure:"max_distance_ratio"`
}

// DefaultClassification maps every transaction type to its rollup bucket.
// Keys are lower-case because viper folds map keys.
func DefaultClassification() map[string]string {
	return map[string]string{
		"income":                   "income",
		"expense":                  "expense",
		"capital transfer":         "transfer",
		"capital inflow":           "transfer",
		"true expense":             "expense",
		"reversed capital expense": "transfer",
		"reversed true expense":    "income",
	}
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "fintrack")
}

// Load reads configuration from file and env. Env var overrides use prefix FINTRACK_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "fintrack", "fintrack.db"))
	v.SetDefault("import.date_format", "MM/DD/YYYY")
	v.SetDefault("import.negative_amount_is_expense", true)
	v.SetDefault("import.invert_amount", false)
	v.SetDefault("import.presets_path", filepath.Join(configDir(), "mappings.toml"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("review.max_days_apart", 7)
	v.SetDefault("review.max_distance_ratio", 0.4)
	v.SetDefault("classification", DefaultClassification())

	v.SetConfigType("toml")

	cfgPath := os.Getenv("FINTRACK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FINTRACK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file is fine, defaults apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Classification = mergeClassification(c.Classification)
	return c, nil
}

// mergeClassification fills types missing from a user supplied table.
func mergeClassification(in map[string]string) map[string]string {
	out := DefaultClassification()
	for k, v := range in {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("FINTRACK_CONFIG")
	if path == "" {
		path = filepath.Join(configDir(), "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("import.date_format", cfg.Import.DateFormat)
	v.Set("import.negative_amount_is_expense", cfg.Import.NegativeAmountIsExpense)
	v.Set("import.invert_amount", cfg.Import.InvertAmount)
	v.Set("import.presets_path", cfg.Import.PresetsPath)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.pretty", cfg.Log.Pretty)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("review.max_days_apart", cfg.Review.MaxDaysApart)
	v.Set("review.max_distance_ratio", cfg.Review.MaxDistanceRatio)
	v.Set("classification", cfg.Classification)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
