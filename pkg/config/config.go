package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"composeclean/pkg/validate"
	"gopkg.in/yaml.v3"
)

// Config represents the structure of a composeclean.yaml configuration file.
type Config struct {
	Project        string        `yaml:"project"`
	Images         []string      `yaml:"images"`
	Force          *bool         `yaml:"force"`
	ComposeCommand []string      `yaml:"compose-command"`
	StackFile      string        `yaml:"stack-file"`
	DockerHost     string        `yaml:"docker-host"`
	Timeout        time.Duration `yaml:"timeout"`
}

// DefaultProject is the compose project torn down when none is configured.
const DefaultProject = "test-project"

// DefaultImages lists the images removed when none are configured, in removal order.
var DefaultImages = []string{"docker-web-app", "sql-server-backup"}

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = "composeclean.yaml"

// Loaded holds the currently loaded configuration (populated after Load).
var Loaded *Config

// Load reads and parses the config file at the given path.
// If the file does not exist and the path is the default, an empty config is returned without error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) // #nosec G304 -- config file path is intentionally user-specified via CLI flag
	if err != nil {
		if os.IsNotExist(err) && path == DefaultConfigFile {
			// Default config file is optional
			Loaded = cfg
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error in %s: %w", path, err)
	}

	// A relative stack file is resolved against the config file's directory
	if cfg.StackFile != "" && !filepath.IsAbs(cfg.StackFile) {
		cfg.StackFile = filepath.Join(filepath.Dir(cleanPath), cfg.StackFile)
	}

	Loaded = cfg
	return cfg, nil
}

// Validate checks that all configured values are safe and well-formed.
func (c *Config) Validate() error {
	if c.Project != "" {
		if err := validate.ProjectName(c.Project); err != nil {
			return fmt.Errorf("project: %w", err)
		}
	}

	for i, img := range c.Images {
		if err := validate.ImageReference(img); err != nil {
			return fmt.Errorf("images[%d]: %w", i, err)
		}
	}

	if c.ComposeCommand != nil {
		if err := validate.ComposeCommand(c.ComposeCommand); err != nil {
			return fmt.Errorf("compose-command: %w", err)
		}
	}

	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got: %s", c.Timeout)
	}

	return nil
}

// GetProject returns the configured compose project, falling back to default.
func (c *Config) GetProject() string {
	if c != nil && c.Project != "" {
		return c.Project
	}
	return DefaultProject
}

// GetImages returns the configured image list, falling back to default.
// The returned slice is a copy.
func (c *Config) GetImages() []string {
	if c != nil && len(c.Images) > 0 {
		return append([]string(nil), c.Images...)
	}
	return append([]string(nil), DefaultImages...)
}

// GetForce returns the configured force flag, defaulting to true.
func (c *Config) GetForce() bool {
	if c != nil && c.Force != nil {
		return *c.Force
	}
	return true
}

// GetComposeCommand returns the configured orchestrator invocation, or
// detect() when none is configured.
func (c *Config) GetComposeCommand(detect func() []string) []string {
	if c != nil && len(c.ComposeCommand) > 0 {
		return append([]string(nil), c.ComposeCommand...)
	}
	return detect()
}

// GetTimeout returns the run timeout. Zero means unbounded.
func (c *Config) GetTimeout() time.Duration {
	if c != nil {
		return c.Timeout
	}
	return 0
}
