package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // timezone names resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/rebtools/affill/engine"
)

// Config is the resolved runtime configuration of the reporting CLI.
// File values override defaults and AFFILL_* environment values override both.
type Config struct {
	LogLevel  string
	LogFormat string

	Currency string
	Timezone string

	Thresholds   engine.QualificationThresholds
	BucketUnit   string
	TrackingMode string
	SortField    string
	SortOrder    string
	ChartType    string
}

// configFile mirrors the YAML layout of affill.yaml.
type configFile struct {
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Report struct {
		Currency     string `yaml:"currency"`
		Timezone     string `yaml:"timezone"`
		BucketUnit   string `yaml:"bucket_unit"`
		TrackingMode string `yaml:"tracking_mode"`
		SortField    string `yaml:"sort_field"`
		SortOrder    string `yaml:"sort_order"`
		ChartType    string `yaml:"chart_type"`
	} `yaml:"report"`
	Qualification struct {
		MinDeposit         *float64 `yaml:"min_deposit"`
		MinVolume          *float64 `yaml:"min_volume"`
		CommissionRequired *bool    `yaml:"commission_required"`
	} `yaml:"qualification"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "warn",
		LogFormat:    "text",
		Currency:     "USD",
		Timezone:     "UTC",
		BucketUnit:   string(engine.BucketMonth),
		TrackingMode: string(engine.TrackingAll),
		SortField:    "date",
		SortOrder:    string(engine.Ascending),
		ChartType:    "bar",
		Thresholds: engine.QualificationThresholds{
			MinDeposit: 100,
			MinVolume:  1000,
		},
	}
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// An empty path or a missing file skips the file layer.
func LoadConfig(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			var f configFile
			if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
				return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
			}
			applyFile(&cfg, f)
		case errors.Is(err, os.ErrNotExist):
		default:
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg.LogLevel = envOrDefault("AFFILL_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("AFFILL_LOG_FORMAT", cfg.LogFormat)
	cfg.Currency = envOrDefault("AFFILL_CURRENCY", cfg.Currency)
	cfg.Timezone = envOrDefault("AFFILL_TIMEZONE", cfg.Timezone)
	cfg.BucketUnit = envOrDefault("AFFILL_BUCKET_UNIT", cfg.BucketUnit)
	cfg.TrackingMode = envOrDefault("AFFILL_TRACKING_MODE", cfg.TrackingMode)
	cfg.SortField = envOrDefault("AFFILL_SORT_FIELD", cfg.SortField)
	cfg.SortOrder = envOrDefault("AFFILL_SORT_ORDER", cfg.SortOrder)
	cfg.ChartType = envOrDefault("AFFILL_CHART_TYPE", cfg.ChartType)
	cfg.Thresholds.MinDeposit = envFloat("AFFILL_MIN_DEPOSIT", cfg.Thresholds.MinDeposit)
	cfg.Thresholds.MinVolume = envFloat("AFFILL_MIN_VOLUME", cfg.Thresholds.MinVolume)
	cfg.Thresholds.CommissionRequired = envBool("AFFILL_COMMISSION_REQUIRED", cfg.Thresholds.CommissionRequired)

	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	if _, ok := engine.ParseBucketUnit(cfg.BucketUnit); !ok {
		return Config{}, fmt.Errorf("invalid bucket unit %q", cfg.BucketUnit)
	}
	if cfg.Thresholds.MinDeposit < 0 || cfg.Thresholds.MinVolume < 0 {
		return Config{}, fmt.Errorf("thresholds must not be negative")
	}

	return cfg, nil
}

func applyFile(cfg *Config, f configFile) {
	if f.Log.Level != "" {
		cfg.LogLevel = f.Log.Level
	}
	if f.Log.Format != "" {
		cfg.LogFormat = f.Log.Format
	}
	if f.Report.Currency != "" {
		cfg.Currency = f.Report.Currency
	}
	if f.Report.Timezone != "" {
		cfg.Timezone = f.Report.Timezone
	}
	if f.Report.BucketUnit != "" {
		cfg.BucketUnit = f.Report.BucketUnit
	}
	if f.Report.TrackingMode != "" {
		cfg.TrackingMode = f.Report.TrackingMode
	}
	if f.Report.SortField != "" {
		cfg.SortField = f.Report.SortField
	}
	if f.Report.SortOrder != "" {
		cfg.SortOrder = f.Report.SortOrder
	}
	if f.Report.ChartType != "" {
		cfg.ChartType = f.Report.ChartType
	}
	if f.Qualification.MinDeposit != nil {
		cfg.Thresholds.MinDeposit = *f.Qualification.MinDeposit
	}
	if f.Qualification.MinVolume != nil {
		cfg.Thresholds.MinVolume = *f.Qualification.MinVolume
	}
	if f.Qualification.CommissionRequired != nil {
		cfg.Thresholds.CommissionRequired = *f.Qualification.CommissionRequired
	}
}

// Location loads the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Sort returns the configured table sort.
func (c Config) Sort() engine.SortState {
	order := engine.Ascending
	if strings.EqualFold(strings.TrimSpace(c.SortOrder), string(engine.Descending)) {
		order = engine.Descending
	}
	return engine.SortState{Field: c.SortField, Order: order}
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envFloat parses float env vars with fallback on empty/invalid values.
func envFloat(name string, fallback float64) float64 {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return fallback
	}
	return v
}

// envBool parses common boolean env forms.
func envBool(name string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	default:
		return fallback
	}
}
