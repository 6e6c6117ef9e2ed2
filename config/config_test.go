package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rebtools/affill/engine"
)

// ============================================================================
// CONFIG LOADING
// ============================================================================

const sampleYAML = `
log:
  level: debug
  format: json
report:
  currency: EUR
  timezone: Europe/Berlin
  bucket_unit: week
  tracking_mode: custom
  sort_field: commission
  sort_order: desc
qualification:
  min_deposit: 0
  commission_required: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "affill.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("missing file should yield defaults:\n got %+v\nwant %+v", cfg, want)
	}
	if cfg.Sort() != engine.DefaultCommissionSort() {
		t.Errorf("default sort: got %+v", cfg.Sort())
	}
}

func TestLoadConfigFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.LogLevel != "debug" || cfg.LogFormat != "json" {
		t.Errorf("log: got %q/%q", cfg.LogLevel, cfg.LogFormat)
	}
	if cfg.Currency != "EUR" || cfg.BucketUnit != "week" || cfg.TrackingMode != "custom" {
		t.Errorf("report: got %+v", cfg)
	}
	if cfg.Sort() != (engine.SortState{Field: "commission", Order: engine.Descending}) {
		t.Errorf("sort: got %+v", cfg.Sort())
	}
	// An explicit zero overrides the default; an absent key keeps it.
	if cfg.Thresholds.MinDeposit != 0 || cfg.Thresholds.MinVolume != 1000 || !cfg.Thresholds.CommissionRequired {
		t.Errorf("thresholds: got %+v", cfg.Thresholds)
	}
	if cfg.ChartType != "bar" {
		t.Errorf("chart type should keep its default, got %q", cfg.ChartType)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	t.Setenv("AFFILL_CURRENCY", "GBP")
	t.Setenv("AFFILL_MIN_VOLUME", "2500")
	t.Setenv("AFFILL_COMMISSION_REQUIRED", "no")
	t.Setenv("AFFILL_MIN_DEPOSIT", "not-a-number")

	cfg, err := LoadConfig(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Currency != "GBP" {
		t.Errorf("currency: got %q", cfg.Currency)
	}
	if cfg.Thresholds.MinVolume != 2500 || cfg.Thresholds.CommissionRequired {
		t.Errorf("thresholds: got %+v", cfg.Thresholds)
	}
	if cfg.Thresholds.MinDeposit != 0 {
		t.Errorf("invalid env float should keep the file value, got %v", cfg.Thresholds.MinDeposit)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	cases := map[string]string{
		"timezone":  "report:\n  timezone: Mars/Olympus\n",
		"unit":      "report:\n  bucket_unit: fortnight\n",
		"threshold": "qualification:\n  min_volume: -5\n",
		"yaml":      "report: [unclosed\n",
	}
	for name, body := range cases {
		if _, err := LoadConfig(writeConfig(t, body)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	t.Setenv("AFFILL_TIMEZONE", "America/Sao_Paulo")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "America/Sao_Paulo" {
		t.Errorf("location: got %v, %v", loc, err)
	}
}

// ============================================================================
// LOGGING
// ============================================================================

func TestNewLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogLevel = "info"
	cfg.LogFormat = "json"

	logger := newLogger(cfg, &buf)
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("level: got %v", logger.GetLevel())
	}

	logger.Debug("hidden")
	logger.WithField("records", 3).Info("parsed records")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered")
	}
	if !strings.Contains(out, `"records":3`) || !strings.Contains(out, `"msg":"parsed records"`) {
		t.Errorf("json output: %s", out)
	}
}

func TestNewLoggerBadLevelFallsBackToWarn(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "chatty"
	if got := newLogger(cfg, &bytes.Buffer{}).GetLevel(); got != logrus.WarnLevel {
		t.Errorf("level: got %v", got)
	}
}

func TestLogError(t *testing.T) {
	var buf bytes.Buffer
	cfg := Default()
	cfg.LogFormat = "json"
	logger := newLogger(cfg, &buf)

	LogError(logger, "cmd", "main", "parse records", "input.json", errors.New("boom"))
	out := buf.String()
	for _, want := range []string{`"module":"cmd"`, `"funcName":"main"`, `"data":"input.json"`, `"msg":"boom"`, `"level":"error"`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}
