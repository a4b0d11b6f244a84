package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/kinostat/internal/report"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Export    ExportConfig    `mapstructure:"export"`
	UI        UIConfig        `mapstructure:"ui"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatasetConfig locates the titles CSV
type DatasetConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds the normalized-table cache location.
// An empty Dir keeps the cache in memory only.
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// DashboardConfig tunes panel computation
type DashboardConfig struct {
	TopN                     int    `mapstructure:"top_n"`
	HistogramBins            int    `mapstructure:"histogram_bins"`
	AddedYearUsesReleaseYear bool   `mapstructure:"added_year_uses_release_year"`
	DurationPolicy           string `mapstructure:"duration_policy"` // "skip" or "fail"
}

// ExportConfig holds the default export destination
type ExportConfig struct {
	Path string `mapstructure:"path"` // extension picks json, yaml or sqlite
}

// UIConfig holds UI configuration
type UIConfig struct {
	DefaultTab string `mapstructure:"default_tab"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	opts := report.DefaultOptions()
	return &Config{
		Dataset: DatasetConfig{
			Path: "netflix_titles.csv",
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
		},
		Dashboard: DashboardConfig{
			TopN:           opts.TopN,
			HistogramBins:  opts.Bins,
			DurationPolicy: string(opts.DurationPolicy),
		},
		Export: ExportConfig{
			Path: "kinostat-export.yaml",
		},
		UI: UIConfig{
			DefaultTab: "overview",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	return filepath.Join(dataDir(), "kinostat.log")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	return filepath.Join(dataDir(), "cache")
}

func dataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "kinostat")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "kinostat")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "kinostat")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kinostat")
	}
}

// LoadConfig loads configuration from file and environment. An empty file
// searches the default config directory and the working directory; a
// missing file there is not an error.
func LoadConfig(file string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()

	setDefaults(v, cfg)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. KINOSTAT_DASHBOARD_TOP_N
	v.SetEnvPrefix("KINOSTAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Cache.Dir = ExpandPath(cfg.Cache.Dir)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)
	cfg.Dataset.Path = ExpandPath(cfg.Dataset.Path)
	cfg.Export.Path = ExpandPath(cfg.Export.Path)
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("dataset.path", cfg.Dataset.Path)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("dashboard.top_n", cfg.Dashboard.TopN)
	v.SetDefault("dashboard.histogram_bins", cfg.Dashboard.HistogramBins)
	v.SetDefault("dashboard.added_year_uses_release_year", cfg.Dashboard.AddedYearUsesReleaseYear)
	v.SetDefault("dashboard.duration_policy", cfg.Dashboard.DurationPolicy)
	v.SetDefault("export.path", cfg.Export.Path)
	v.SetDefault("ui.default_tab", cfg.UI.DefaultTab)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// SaveConfig writes cfg to file, or to the default location when file is empty
func SaveConfig(cfg *Config, file string) error {
	if file == "" {
		file = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	setDefaults(v, cfg)
	if err := v.WriteConfigAs(file); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects settings the dashboard cannot run with
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.Dataset.Path) == "" {
		problems = append(problems, "dataset.path is required")
	}
	if c.Dashboard.TopN < 1 {
		problems = append(problems, fmt.Sprintf("dashboard.top_n must be at least 1, got %d", c.Dashboard.TopN))
	}
	if c.Dashboard.HistogramBins < 1 {
		problems = append(problems, fmt.Sprintf("dashboard.histogram_bins must be at least 1, got %d", c.Dashboard.HistogramBins))
	}
	if _, err := report.ParseDurationPolicy(c.Dashboard.DurationPolicy); err != nil {
		problems = append(problems, "dashboard."+err.Error())
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ReportOptions converts the dashboard settings to report options
func (c *Config) ReportOptions() (report.Options, error) {
	policy, err := report.ParseDurationPolicy(c.Dashboard.DurationPolicy)
	if err != nil {
		return report.Options{}, err
	}
	opts := report.DefaultOptions()
	opts.TopN = c.Dashboard.TopN
	opts.Bins = c.Dashboard.HistogramBins
	opts.AddedYearUsesReleaseYear = c.Dashboard.AddedYearUsesReleaseYear
	opts.DurationPolicy = policy
	return opts, nil
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
