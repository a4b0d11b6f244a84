package adapter

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mmcdole/kinostat/internal/report"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `dataset:
  path: /data/titles.csv
cache:
  dir: ""
dashboard:
  top_n: 5
  added_year_uses_release_year: true
  duration_policy: fail
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dataset.Path != "/data/titles.csv" {
		t.Errorf("Dataset.Path = %q", cfg.Dataset.Path)
	}
	if cfg.Cache.Dir != "" {
		t.Errorf("Cache.Dir = %q, want memory-only", cfg.Cache.Dir)
	}
	if cfg.Dashboard.TopN != 5 || cfg.Dashboard.HistogramBins != 30 {
		t.Errorf("Dashboard = %+v", cfg.Dashboard)
	}
	if cfg.UI.DefaultTab != "overview" {
		t.Errorf("unset key lost its default: %q", cfg.UI.DefaultTab)
	}

	opts, err := cfg.ReportOptions()
	if err != nil {
		t.Fatalf("ReportOptions: %v", err)
	}
	if opts.TopN != 5 || !opts.AddedYearUsesReleaseYear || opts.DurationPolicy != report.DurationFail {
		t.Errorf("ReportOptions = %+v", opts)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dashboard:\n  top_n: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("KINOSTAT_DASHBOARD_TOP_N", "7")
	t.Setenv("KINOSTAT_EXPORT_PATH", "out.json")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Dashboard.TopN != 7 {
		t.Errorf("TopN = %d, want env override 7", cfg.Dashboard.TopN)
	}
	if cfg.Export.Path != "out.json" {
		t.Errorf("Export.Path = %q, want out.json", cfg.Export.Path)
	}
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig accepted a missing explicit file")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Dashboard.TopN = 12
	cfg.Export.Path = "dash.db"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Dashboard.TopN != 12 || got.Export.Path != "dash.db" {
		t.Errorf("round trip = %+v", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"defaults", func(*Config) {}, ""},
		{"top n", func(c *Config) { c.Dashboard.TopN = 0 }, "top_n"},
		{"bins", func(c *Config) { c.Dashboard.HistogramBins = -1 }, "histogram_bins"},
		{"policy", func(c *Config) { c.Dashboard.DurationPolicy = "ignore" }, "duration policy"},
		{"dataset", func(c *Config) { c.Dataset.Path = " " }, "dataset.path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Errorf("Validate = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("ExpandPath = %q", got)
	}
	if got := ExpandPath("~user/x"); got != "~user/x" {
		t.Errorf("ExpandPath expanded another user's home: %q", got)
	}
	if got := ExpandPath("rel/path"); got != "rel/path" {
		t.Errorf("ExpandPath = %q", got)
	}
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "kinostat.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "warn"})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "rows", 3)
	closer.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") || !strings.Contains(out, `"msg":"kept"`) {
		t.Errorf("log output = %s", out)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
