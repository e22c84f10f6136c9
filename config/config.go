package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Threshold kinds: reports from the same engine or from different engines.
const (
	SamePlatform  = "same_platform"
	CrossPlatform = "cross_platform"
)

// Thresholds are percent-change magnitudes at which a metric is flagged.
type Thresholds struct {
	WarningPercent  float64 `yaml:"warning_percent" json:"warning_percent"`
	CriticalPercent float64 `yaml:"critical_percent" json:"critical_percent"`
}

// DefaultThresholds apply to a missing threshold kind or a missing key.
var DefaultThresholds = Thresholds{WarningPercent: 15, CriticalPercent: 30}

func (t *Thresholds) UnmarshalYAML(node *yaml.Node) error {
	type plain Thresholds
	p := plain(DefaultThresholds)
	if err := node.Decode(&p); err != nil {
		return err
	}
	*t = Thresholds(p)
	return nil
}

// Config holds the lookup tables the comparison engine consumes.
type Config struct {
	Thresholds        map[string]Thresholds `yaml:"thresholds"`
	TableDescriptions map[string]string     `yaml:"table_descriptions"`
	IgnoredColumns    []string              `yaml:"ignored_columns"`
	// MetricMapping is keyed by "<from>_to_<to>" (for example
	// "oracle_to_postgres") and maps a metric name to its counterparts.
	MetricMapping map[string]map[string][]string `yaml:"metric_mapping"`
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Parse([]byte(defaultConfig))
	if err != nil {
		panic(fmt.Sprintf("config: built-in defaults are invalid: %v", err))
	}
	return cfg
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Load reads the YAML file at path on top of the built-in defaults. Map
// entries are merged; lists in the file replace the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return cfg, nil
}

// ThresholdsFor returns the thresholds configured for kind, or DefaultThresholds.
func (c *Config) ThresholdsFor(kind string) Thresholds {
	if c == nil {
		return DefaultThresholds
	}
	if t, ok := c.Thresholds[kind]; ok {
		return t
	}
	return DefaultThresholds
}

// Description returns the human readable description of a table, defaulting to its id.
func (c *Config) Description(table string) string {
	if c != nil {
		if d, ok := c.TableDescriptions[table]; ok && d != "" {
			return d
		}
	}
	return table
}

// Ignored reports whether column is excluded from numeric comparison.
func (c *Config) Ignored(column string) bool {
	if c == nil {
		return false
	}
	for _, col := range c.IgnoredColumns {
		if col == column {
			return true
		}
	}
	return false
}

// Mapping returns the metric-name mapping between two platforms. It is empty
// when both platforms are the same.
func (c *Config) Mapping(from, to string) map[string][]string {
	if c == nil || from == to {
		return nil
	}
	return c.MetricMapping[from+"_to_"+to]
}
