package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "content", cfg.ContentDir)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, 500*time.Millisecond, cfg.Interval)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"empty content_dir", func(c *Config) { c.ContentDir = "" }},
		{"empty static_dir", func(c *Config) { c.StaticDir = "" }},
		{"empty public_dir", func(c *Config) { c.PublicDir = "" }},
		{"empty template", func(c *Config) { c.Template = "" }},
		{"zero interval", func(c *Config) { c.Interval = 0 }},
		{"negative interval", func(c *Config) { c.Interval = -time.Second }},
		{"no workers", func(c *Config) { c.Workers = 0 }},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }},
		{"public is content", func(c *Config) { c.PublicDir = "./content" }},
		{"public contains content", func(c *Config) { c.ContentDir = "site/content"; c.PublicDir = "site" }},
		{"public is working dir", func(c *Config) { c.PublicDir = "." }},
		{"public contains static", func(c *Config) { c.StaticDir = "public/static" }},
		{"public contains template", func(c *Config) { c.Template = "public/layout/template.html" }},
		{"public inside static", func(c *Config) { c.PublicDir = "static/public" }},
		{"public inside content", func(c *Config) { c.PublicDir = "content/out" }},
		{"public contains absolute content", func(c *Config) {
			wd, _ := os.Getwd()
			c.ContentDir = filepath.Join(wd, "content")
			c.PublicDir = "./"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateSiblingPaths(t *testing.T) {
	cfg := Default()
	cfg.ContentDir = "site/content"
	cfg.StaticDir = "site/static"
	cfg.PublicDir = "site/public"
	cfg.Template = "site/template.html"
	assert.NoError(t, cfg.Validate())

	cfg.PublicDir = "site/content-public"
	assert.NoError(t, cfg.Validate(), "common name prefix isn't nesting")
}

func TestLoad(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("partial file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mdsite.yaml")
		data := "content_dir: docs\ninterval: 2s\nworkers: 3\nlog_level: debug\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "docs", cfg.ContentDir)
		assert.Equal(t, "public", cfg.PublicDir)
		assert.Equal(t, 2*time.Second, cfg.Interval)
		assert.Equal(t, 3, cfg.Workers)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("invalid interval", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mdsite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("interval: soon\n"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid interval")
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mdsite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("content_dir: [unclosed\n"), 0o644))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mdsite.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: -2\n"), 0o644))
		_, err := Load(path)
		assert.ErrorContains(t, err, "invalid configuration")
	})
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.Template = "layout.html"
	cfg.Interval = time.Second
	cfg.Workers = 2

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestExpandPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)

	cfg := Default()
	cfg.ContentDir = "~/notes"
	cfg.LogFile = ""
	require.NoError(t, cfg.ExpandPaths())

	assert.Equal(t, filepath.Join(home, "notes"), cfg.ContentDir)
	assert.Equal(t, filepath.Join(wd, "public"), cfg.PublicDir)
	assert.Equal(t, "", cfg.LogFile)
}

func TestPath(t *testing.T) {
	assert.Equal(t, "config.yaml", filepath.Base(Path()))

	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(FileName, []byte(""), 0o644))
	assert.Equal(t, FileName, Path())
}
