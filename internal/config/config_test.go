package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "data.js", cfg.Source.Path)
	assert.Equal(t, BackendFile, cfg.Store.Backend)
	assert.Equal(t, "data/enrich/enrich.json", cfg.Store.Path)
	assert.Equal(t, 300, cfg.Enrich.SummaryMaxLength)
	assert.Equal(t, 800, cfg.Enrich.MinImageWidth)
	assert.Equal(t, 200, cfg.Enrich.DelayMs)
	assert.Equal(t, 3, cfg.Enrich.ImageCaps["travel"])
	assert.Equal(t, 5, cfg.Wikipedia.Timeout)
	assert.Equal(t, 10, cfg.Commons.SearchLimit)
	assert.False(t, cfg.Enrich.Force)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	path := writeConfig(t, `
store:
  backend: redis
enrich:
  limit: 5
  delay_ms: 0
commons:
  thumb_width: 640
`)
	t.Setenv("WIKIPEDIA_TIMEOUT", "2")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("force", false, "")
	flags.Int("limit", 0, "")
	require.NoError(t, flags.Parse([]string{"--force", "--limit=7"}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, BackendRedis, cfg.Store.Backend)
	assert.Equal(t, 640, cfg.Commons.ThumbWidth)
	assert.Equal(t, 2, cfg.Wikipedia.Timeout)
	assert.True(t, cfg.Enrich.Force)
	assert.Equal(t, 7, cfg.Enrich.Limit)
	assert.Equal(t, 0, cfg.Enrich.DelayMs)
}

func TestLoadUnsetFlagsKeepConfigValues(t *testing.T) {
	path := writeConfig(t, "enrich:\n  limit: 4\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("limit", 0, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Enrich.Limit)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Chdir(t.TempDir())
	base, err := Load("", nil)
	require.NoError(t, err)

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Store.Backend = "s3" }},
		{"empty file path", func(c *Config) { c.Store.Path = " " }},
		{"negative limit", func(c *Config) { c.Enrich.Limit = -1 }},
		{"negative delay", func(c *Config) { c.Enrich.DelayMs = -5 }},
		{"zero summary length", func(c *Config) { c.Enrich.SummaryMaxLength = 0 }},
		{"negative image cap", func(c *Config) { c.Enrich.ImageCaps = map[string]int{"food": -1} }},
		{"zero search limit", func(c *Config) { c.Commons.SearchLimit = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, base.Validate())
}

func TestDatabaseURL(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: 5433, Name: "enrich", User: "u", Password: "p", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5433/enrich?sslmode=disable", db.URL())
}
