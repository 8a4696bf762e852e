// Package config provides configuration loading and management for
// specdrift.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the complete specdrift configuration
type Config struct {
	Spec        SpecConfig          `yaml:"spec"`
	Docs        DocsConfig          `yaml:"docs"`
	Annotations AnnotationsConfig   `yaml:"annotations"`
	Report      ReportConfig        `yaml:"report"`
	Keywords    map[string][]string `yaml:"keywords"`
}

// SpecConfig locates the tracked specification document
type SpecConfig struct {
	// Path is the specification document whose sections are fingerprinted
	Path string `yaml:"path"`
}

// DocsConfig lists the companion documents
type DocsConfig struct {
	// Paths are free-text documents consulted only for keyword coverage;
	// missing files are treated as empty
	Paths []string `yaml:"paths"`
}

// AnnotationsConfig configures the annotation scanner
type AnnotationsConfig struct {
	// Root is the directory the source patterns are resolved under
	// (auto-detected from git if empty)
	Root string `yaml:"root"`
	// Patterns are doublestar globs selecting source files to scan
	Patterns []string `yaml:"patterns"`
	// Tag is the annotation word recognized in comments (default "@spec")
	Tag string `yaml:"tag"`
	// ArtifactPath is the mapping JSON artifact location
	ArtifactPath string `yaml:"artifact_path"`
	// MarkdownPath is the mapping markdown document
	MarkdownPath string `yaml:"markdown_path"`
	// Marker separates preserved content from the generated table in the
	// mapping document (empty = built-in default)
	Marker string `yaml:"marker"`
}

// ReportConfig configures report outputs
type ReportConfig struct {
	// JSONPath is the machine-readable report, read back as the next
	// run's snapshot
	JSONPath string `yaml:"json_path"`
	// MarkdownPath is the human-readable rendering
	MarkdownPath string `yaml:"markdown_path"`
	// MetricsPath, when set, receives Prometheus textfile gauges
	MetricsPath string `yaml:"metrics_path"`
	// Threshold is the minimum keyword coverage percent (warning only)
	Threshold float64 `yaml:"threshold"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Spec: SpecConfig{
			Path: "spec/spec.md",
		},
		Docs: DocsConfig{
			Paths: nil,
		},
		Annotations: AnnotationsConfig{
			Root:         "", // Auto-detect

			Patterns:     []string{"**/*_test.go"},
			Tag:          "@spec",
			ArtifactPath: "spec/spec_test_mapping.json",
			MarkdownPath: "docs/spec_test_mapping.md",
			Marker:       "",
		},
		Report: ReportConfig{
			JSONPath:     "spec/spec_drift_report.json",
			MarkdownPath: "docs/spec_drift_report.md",
			MetricsPath:  "",
			Threshold:    70.0,
		},
		Keywords: map[string][]string{},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Spec.Path == "" {
		return fmt.Errorf("spec.path is required")
	}
	if c.Report.JSONPath == "" {
		return fmt.Errorf("report.json_path is required")
	}
	if c.Report.MarkdownPath == "" {
		return fmt.Errorf("report.markdown_path is required")
	}
	if c.Report.Threshold < 0 || c.Report.Threshold > 100 {
		return fmt.Errorf("report.threshold must be between 0 and 100")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Spec
	if other.Spec.Path != "" {
		c.Spec.Path = other.Spec.Path
	}

	// Docs
	if len(other.Docs.Paths) > 0 {
		c.Docs.Paths = other.Docs.Paths
	}

	// Annotations
	if other.Annotations.Root != "" {
		c.Annotations.Root = other.Annotations.Root
	}
	if len(other.Annotations.Patterns) > 0 {
		c.Annotations.Patterns = other.Annotations.Patterns
	}
	if other.Annotations.Tag != "" {
		c.Annotations.Tag = other.Annotations.Tag
	}
	if other.Annotations.ArtifactPath != "" {
		c.Annotations.ArtifactPath = other.Annotations.ArtifactPath
	}
	if other.Annotations.MarkdownPath != "" {
		c.Annotations.MarkdownPath = other.Annotations.MarkdownPath
	}
	if other.Annotations.Marker != "" {
		c.Annotations.Marker = other.Annotations.Marker
	}

	// Report
	if other.Report.JSONPath != "" {
		c.Report.JSONPath = other.Report.JSONPath
	}
	if other.Report.MarkdownPath != "" {
		c.Report.MarkdownPath = other.Report.MarkdownPath
	}
	if other.Report.MetricsPath != "" {
		c.Report.MetricsPath = other.Report.MetricsPath
	}
	if other.Report.Threshold != 0 {
		c.Report.Threshold = other.Report.Threshold
	}

	// Keywords
	if len(other.Keywords) > 0 {
		c.Keywords = other.Keywords
	}
}
