package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
	charmlog "github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

const (
	AppName  = "mdsite"
	FileName = "mdsite.yaml"
)

// Config represents the mdsite configuration
type Config struct {
	ContentDir string
	StaticDir  string
	PublicDir  string
	Template   string
	LogFile    string // empty means stderr
	LogLevel   string
	Interval   time.Duration
	Workers    int
}

// file is the on-disk form, interval is kept as a duration string
type file struct {
	ContentDir string `yaml:"content_dir"`
	StaticDir  string `yaml:"static_dir"`
	PublicDir  string `yaml:"public_dir"`
	Template   string `yaml:"template"`
	LogFile    string `yaml:"log_file"`
	LogLevel   string `yaml:"log_level"`
	Interval   string `yaml:"interval"`
	Workers    int    `yaml:"workers"`
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		ContentDir: "content",
		StaticDir:  "static",
		PublicDir:  "public",
		Template:   "template.html",
		LogLevel:   "info",
		Interval:   500 * time.Millisecond,
		Workers:    runtime.NumCPU(),
	}
}

// Path returns the path to the config file: mdsite.yaml inside the working
// directory if it exists, otherwise the file in the XDG config directory.
// Can be overridden for testing
var Path = func() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// Load reads configuration from path. Values missing in the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		// Return default config if file doesn't exist
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var raw file
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.merge(raw); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) merge(raw file) error {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.ContentDir, raw.ContentDir)
	set(&c.StaticDir, raw.StaticDir)
	set(&c.PublicDir, raw.PublicDir)
	set(&c.Template, raw.Template)
	set(&c.LogFile, raw.LogFile)
	set(&c.LogLevel, raw.LogLevel)

	if raw.Interval != "" {
		interval, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return fmt.Errorf("invalid interval format '%s': %w", raw.Interval, err)
		}
		c.Interval = interval
	}
	if raw.Workers != 0 {
		c.Workers = raw.Workers
	}
	return nil
}

// Save writes configuration to path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(file{
		ContentDir: c.ContentDir,
		StaticDir:  c.StaticDir,
		PublicDir:  c.PublicDir,
		Template:   c.Template,
		LogFile:    c.LogFile,
		LogLevel:   c.LogLevel,
		Interval:   c.Interval.String(),
		Workers:    c.Workers,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ContentDir == "" {
		return fmt.Errorf("content_dir cannot be empty")
	}
	if c.StaticDir == "" {
		return fmt.Errorf("static_dir cannot be empty")
	}
	if c.PublicDir == "" {
		return fmt.Errorf("public_dir cannot be empty")
	}
	if c.Template == "" {
		return fmt.Errorf("template cannot be empty")
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if _, err := charmlog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s'", c.LogLevel)
	}
	return c.validatePaths()
}

// validatePaths rejects layouts in which a build would delete or copy into the sources.
// The public dir is cleaned on every build and the static dir is copied into it.
func (c *Config) validatePaths() error {
	sources := []struct {
		name string
		path string
	}{
		{"content_dir", c.ContentDir},
		{"static_dir", c.StaticDir},
		{"template", c.Template},
	}
	for _, src := range sources {
		inside, err := within(src.path, c.PublicDir)
		if err != nil {
			return err
		}
		if inside {
			return fmt.Errorf("public_dir '%s' must not contain %s '%s'", c.PublicDir, src.name, src.path)
		}
	}
	for _, src := range sources[:2] {
		inside, err := within(c.PublicDir, src.path)
		if err != nil {
			return err
		}
		if inside {
			return fmt.Errorf("public_dir '%s' must not be inside of %s '%s'", c.PublicDir, src.name, src.path)
		}
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	paths := []struct {
		name string
		ptr  *string
	}{
		{"content_dir", &c.ContentDir},
		{"static_dir", &c.StaticDir},
		{"public_dir", &c.PublicDir},
		{"template", &c.Template},
		{"log_file", &c.LogFile},
	}
	for _, p := range paths {
		expanded, err := expandPath(*p.ptr)
		if err != nil {
			return fmt.Errorf("failed to expand %s: %w", p.name, err)
		}
		*p.ptr = expanded
	}
	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}

// within reports whether path is dir itself or is located inside of it
func within(path, dir string) (bool, error) {
	absPath, err := expandPath(path)
	if err != nil {
		return false, err
	}
	absDir, err := expandPath(dir)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}
