package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yaoapp/kun/log"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, int64(50<<20), cfg.MaxUploadSize)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docapi.yml")
	require.NoError(t, os.WriteFile(file, []byte(`
port: 9000
mode: development
log_level: trace
allow_origins: ["https://pdf.example.com"]
max_upload_size: 1048576
workspace:
  root: /tmp/docapi-test
  ttl: 30m
  sweep: "*/5 * * * *"
tools:
  soffice: /opt/libreoffice/program/soffice
  render_tool: mutool
timeouts:
  office: 90s
`), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Port)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://pdf.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, int64(1048576), cfg.MaxUploadSize)
	assert.Equal(t, "/tmp/docapi-test", cfg.Workspace.Root)
	assert.Equal(t, 30*time.Minute, cfg.Workspace.TTL)
	assert.Equal(t, "/opt/libreoffice/program/soffice", cfg.Tools.Soffice)
	assert.Equal(t, "mutool", cfg.Tools.RenderTool)
	assert.Equal(t, 90*time.Second, cfg.Timeouts.Office)

	// untouched values keep their defaults
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Ghostscript)
	assert.Equal(t, "0.0.0.0", cfg.Host)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, log.TraceLevel, level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "docapi.yml")
	require.NoError(t, os.WriteFile(file, []byte("port: [1"), 0644))
	_, err := Load(file)
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("DOCAPI_PORT", "9100")
	t.Setenv("DOCAPI_MODE", "development")
	t.Setenv("DOCAPI_ALLOW_ORIGINS", "https://a.example.com, https://b.example.com,")
	t.Setenv("DOCAPI_MAX_UPLOAD_SIZE", "10MB")
	t.Setenv("DOCAPI_GS_PATH", "/usr/local/bin/gs")
	t.Setenv("DOCAPI_TIMEOUT_OFFICE", "45s")
	t.Setenv("DOCAPI_WORKERS", "3")

	file := filepath.Join(t.TempDir(), "docapi.yml")
	require.NoError(t, os.WriteFile(file, []byte("port: 9000\n"), 0644))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, Development, cfg.Mode)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadSize)
	assert.Equal(t, "/usr/local/bin/gs", cfg.Tools.Ghostscript)
	assert.Equal(t, 45*time.Second, cfg.Timeouts.Office)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadEnvInvalid(t *testing.T) {
	cfg := Default()
	lookup := func(values map[string]string) func(string) (string, bool) {
		return func(key string) (string, bool) {
			v, has := values[key]
			return v, has
		}
	}

	assert.Error(t, cfg.applyEnv(lookup(map[string]string{"DOCAPI_PORT": "http"})))
	assert.Error(t, cfg.applyEnv(lookup(map[string]string{"DOCAPI_WORKSPACE_TTL": "soon"})))
	assert.Error(t, cfg.applyEnv(lookup(map[string]string{"DOCAPI_MAX_UPLOAD_SIZE": "lots"})))
	assert.Error(t, cfg.applyEnv(lookup(map[string]string{"DOCAPI_WORKERS": "many"})))
	assert.NoError(t, cfg.applyEnv(lookup(map[string]string{"DOCAPI_HOST": "  "})))
	assert.Equal(t, "0.0.0.0", cfg.Host)
}

func TestValidate(t *testing.T) {
	tests := map[string]func(*Config){
		"port":        func(c *Config) { c.Port = 70000 },
		"mode":        func(c *Config) { c.Mode = "staging" },
		"log level":   func(c *Config) { c.LogLevel = "loud" },
		"upload size": func(c *Config) { c.MaxUploadSize = 0 },
		"ttl":         func(c *Config) { c.Workspace.TTL = 0 },
		"workers":     func(c *Config) { c.Workers = 0 },
		"sweep":       func(c *Config) { c.Workspace.Sweep = "often" },
		"render tool": func(c *Config) { c.Tools.RenderTool = "imagemagick" },
	}

	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := map[string]int64{
		"1024":  1024,
		"512KB": 512 << 10,
		"50MB":  50 << 20,
		"1gb":   1 << 30,
		"10 MB": 10 << 20,
		"100B":  100,
	}
	for input, want := range tests {
		got, err := ParseSize(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseSize("MB")
	assert.Error(t, err)
}
