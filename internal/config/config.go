package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/trajectory-dev/trajectory/internal/model"
	"github.com/trajectory-dev/trajectory/internal/timeseries"
)

// FileName is the project config file created by init.
const FileName = "trajectory.yaml"

// Environment overrides applied by ApplyEnv.
const (
	EnvLogLevel  = "TRAJECTORY_LOG_LEVEL"
	EnvLogFormat = "TRAJECTORY_LOG_FORMAT"
	EnvMetric    = "TRAJECTORY_METRIC"
)

// Config represents the top-level trajectory.yaml configuration.
type Config struct {
	Chart ChartConfig `yaml:"chart"`
	Log   LogConfig   `yaml:"log"`
	Data  DataConfig  `yaml:"data"`
}

// ChartConfig controls series construction.
type ChartConfig struct {
	Metric        string `yaml:"metric"`
	TickThreshold int    `yaml:"tick_threshold"`
	ThinQuarters  []int  `yaml:"thin_quarters,flow"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DataConfig locates project data, relative to the config file.
type DataConfig struct {
	Entities string `yaml:"entities"`
	Filings  string `yaml:"filings"`
}

// Load reads a trajectory.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	opts := timeseries.DefaultOptions()
	return &Config{
		Chart: ChartConfig{
			Metric:        string(model.MetricReceipts),
			TickThreshold: opts.TickThreshold,
			ThinQuarters:  opts.ThinQuarters,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Data: DataConfig{
			Entities: "entities.csv",
			Filings:  "filings",
		},
	}
}

// LoadEnv loads .env files into the process environment. Missing files are
// ignored; variables already set win over file values.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overlays TRAJECTORY_* environment variables onto cfg.
func (c *Config) ApplyEnv() {
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvLogFormat); ok && v != "" {
		c.Log.Format = v
	}
	if v, ok := os.LookupEnv(EnvMetric); ok && v != "" {
		c.Chart.Metric = v
	}
}

// Validate checks values the YAML schema cannot express.
func (c *Config) Validate() error {
	var errs []error
	if _, err := model.ParseMetric(c.Chart.Metric); err != nil {
		errs = append(errs, fmt.Errorf("chart.metric: %w", err))
	}
	if c.Chart.TickThreshold < 1 {
		errs = append(errs, fmt.Errorf("chart.tick_threshold: must be at least 1, got %d", c.Chart.TickThreshold))
	}
	for _, q := range c.Chart.ThinQuarters {
		if q < 1 || q > 4 {
			errs = append(errs, fmt.Errorf("chart.thin_quarters: %d is not a quarter", q))
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Metric returns the configured metric. Call Validate first.
func (c *Config) Metric() model.Metric {
	m, err := model.ParseMetric(c.Chart.Metric)
	if err != nil {
		return model.MetricReceipts
	}
	return m
}

// TimeseriesOptions returns the engine options for this config.
func (c *Config) TimeseriesOptions() timeseries.Options {
	return timeseries.Options{
		TickThreshold: c.Chart.TickThreshold,
		ThinQuarters:  c.Chart.ThinQuarters,
	}
}
