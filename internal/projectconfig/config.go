// Package projectconfig provides the Config struct and loader for
// .syftviz.yaml configuration files.
package projectconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up from the working directory upwards.
const FileName = ".syftviz.yaml"

// Default values for configuration. New() references them and no other code
// should duplicate them.
const (
	DefaultWidth        = 40
	DefaultThreshold    = 0.01
	DefaultMaxNameWidth = 48
	DefaultFormat       = "table"
)

// ChartConfig holds bar chart layout settings.
type ChartConfig struct {
	Width        int      `yaml:"width,omitempty"`
	Threshold    *float64 `yaml:"threshold,omitempty"`
	MaxNameWidth int      `yaml:"max_name_width,omitempty"`
}

// OutputConfig holds output settings. A nil Color means "colour when stdout
// is a terminal".
type OutputConfig struct {
	Format    string `yaml:"format,omitempty"`
	Color     *bool  `yaml:"color,omitempty"`
	ShowTotal *bool  `yaml:"show_total,omitempty"`
}

// Config is the top-level configuration loaded from .syftviz.yaml.
type Config struct {
	Chart  ChartConfig  `yaml:"chart,omitempty"`
	Output OutputConfig `yaml:"output,omitempty"`
}

// New returns a Config with all hard-coded defaults populated.
func New() *Config {
	return &Config{
		Chart: ChartConfig{
			Width:        DefaultWidth,
			Threshold:    float64Ptr(DefaultThreshold),
			MaxNameWidth: DefaultMaxNameWidth,
		},
		Output: OutputConfig{
			Format:    DefaultFormat,
			ShowTotal: boolPtr(true),
		},
	}
}

// Load finds .syftviz.yaml by walking up from startDir (max 10 levels),
// unmarshals it, and fills in missing fields with defaults.
// If no config file is found, returns defaults with a nil error.
func Load(startDir string) (*Config, error) {
	data, err := findConfigFile(startDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}
		return nil, fmt.Errorf("loading %s: %w", FileName, err)
	}
	return parse(data, FileName)
}

// LoadFile reads the config at path. Unlike Load, a missing file is an error.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, name string) (*Config, error) {
	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	cfg := New()
	mergeConfig(cfg, &fileCfg)
	return cfg, nil
}

// findConfigFile walks up from dir looking for .syftviz.yaml (max 10 levels).
// Returns os.ErrNotExist if no config file is found. Propagates real I/O
// errors (e.g. permission denied) instead of silently swallowing them.
func findConfigFile(dir string) ([]byte, error) {
	// Convert to absolute path so filepath.Dir(".") walks correctly.
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path %q: %w", dir, err)
	}
	dir = absDir

	for i := 0; i < 10; i++ {
		p := filepath.Join(dir, FileName)
		data, err := os.ReadFile(p)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %q: %w", p, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}
	return nil, os.ErrNotExist
}

// mergeConfig overlays non-zero values from src onto dst.
func mergeConfig(dst, src *Config) {
	if src.Chart.Width != 0 {
		dst.Chart.Width = src.Chart.Width
	}
	if src.Chart.Threshold != nil {
		dst.Chart.Threshold = src.Chart.Threshold
	}
	if src.Chart.MaxNameWidth != 0 {
		dst.Chart.MaxNameWidth = src.Chart.MaxNameWidth
	}

	if src.Output.Format != "" {
		dst.Output.Format = src.Output.Format
	}
	if src.Output.Color != nil {
		dst.Output.Color = src.Output.Color
	}
	if src.Output.ShowTotal != nil {
		dst.Output.ShowTotal = src.Output.ShowTotal
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func float64Ptr(f float64) *float64 {
	return &f
}
