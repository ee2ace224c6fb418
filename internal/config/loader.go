package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the demo configuration file.
type Config struct {
	// Interval is the report interval for every profiler ("1.5s", "1500ms" or "2").
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"`

	// Iterations is the number of times each workload runs.
	Iterations int `yaml:"iterations,omitempty" json:"iterations,omitempty"`

	// Rate paces loop iterations per second. 0 runs unpaced.
	Rate float64 `yaml:"rate,omitempty" json:"rate,omitempty"`

	// Format selects the reporter: "text" (console) or "json" (zap).
	Format string `yaml:"format,omitempty" json:"format,omitempty"`

	// NoColor disables console colors.
	NoColor bool `yaml:"noColor,omitempty" json:"noColor,omitempty"`

	// GroupEvery inserts a blank console line after every N reports.
	GroupEvery int `yaml:"groupEvery,omitempty" json:"groupEvery,omitempty"`

	// MetricsAddr serves Prometheus gauges on this address when set.
	MetricsAddr string `yaml:"metricsAddr,omitempty" json:"metricsAddr,omitempty"`

	Log       LogConfig        `yaml:"log,omitempty" json:"log,omitempty"`
	Workloads []WorkloadConfig `yaml:"workloads,omitempty" json:"workloads,omitempty"`
}

// WorkloadConfig describes one instrumented function.
type WorkloadConfig struct {
	Name  string `yaml:"name" json:"name"`
	Work  string `yaml:"work" json:"work"`                       // Simulated busy time per call
	Bytes uint64 `yaml:"bytes,omitempty" json:"bytes,omitempty"` // Volume produced per call
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level    string            `yaml:"level,omitempty" json:"level,omitempty"`
	File     string            `yaml:"file,omitempty" json:"file,omitempty"`
	Rotation LogRotationConfig `yaml:"rotation,omitempty" json:"rotation,omitempty"`
}

// LogRotationConfig defines log file rotation settings (powered by lumberjack).
type LogRotationConfig struct {
	MaxSize    int  `yaml:"maxSize,omitempty" json:"maxSize,omitempty"`       // megabytes before rotation
	MaxBackups int  `yaml:"maxBackups,omitempty" json:"maxBackups,omitempty"` // rotated files to keep
	MaxAge     int  `yaml:"maxAge,omitempty" json:"maxAge,omitempty"`         // days to retain
	Compress   bool `yaml:"compress,omitempty" json:"compress,omitempty"`     // gzip rotated files
}

// DefaultConfig returns the configuration used when no file is given: two
// workloads of 2ms and 6ms, 1000 iterations, reports every 1.5s.
func DefaultConfig() *Config {
	return &Config{
		Interval:   "1500ms",
		Iterations: 1000,
		Format:     "text",
		GroupEvery: 2,
		Log: LogConfig{
			Level: "info",
			Rotation: LogRotationConfig{
				MaxSize:    100,
				MaxBackups: 3,
				MaxAge:     28,
				Compress:   true,
			},
		},
		Workloads: []WorkloadConfig{
			{Name: "f1", Work: "2ms", Bytes: 512},
			{Name: "f2", Work: "6ms", Bytes: 2048},
		},
	}
}

// LoadConfig loads a configuration file on top of DefaultConfig.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data, checks it against the schema and
// validates it.
//
// The format is determined by the file extension in path, or defaults to
// YAML if the path is empty or has an unknown extension.
func ParseConfig(data []byte, path string) (*Config, error) {
	var doc interface{}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	}

	if doc == nil {
		doc = map[string]interface{}{}
	}

	// Round-trip through JSON so the schema sees JSON types only.
	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to normalize config: %w", err)
	}

	if err := validateSchema(normalized); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(normalized, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "1h30m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(s)
	if err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}

// IntervalDuration returns the parsed report interval.
func (c *Config) IntervalDuration() (time.Duration, error) {
	return ParseDurationString(c.Interval)
}

// WorkDuration returns the parsed per-call busy time.
func (w WorkloadConfig) WorkDuration() (time.Duration, error) {
	return ParseDurationString(w.Work)
}
