package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/yaoapp/kun/log"
	"gopkg.in/yaml.v3"
)

// EnvPrefix the prefix of every environment variable
const EnvPrefix = "DOCAPI_"

// DefaultFile the config file loaded when none is given
const DefaultFile = "docapi.yml"

const (
	// Development verbose logs, error details are returned to the caller
	Development = "development"
	// Production release mode, engine output is only logged
	Production = "production"
)

// Config the service configuration
type Config struct {
	Host          string          `yaml:"host"`
	Port          int             `yaml:"port"`
	Mode          string          `yaml:"mode"`
	LogLevel      string          `yaml:"log_level"`
	AllowOrigins  []string        `yaml:"allow_origins"`
	MaxUploadSize int64           `yaml:"max_upload_size"` // bytes per file
	Workers       int             `yaml:"workers"`         // engines running at the same time
	Server        ServerConfig    `yaml:"server"`
	Workspace     WorkspaceConfig `yaml:"workspace"`
	Tools         ToolsConfig     `yaml:"tools"`
	Timeouts      TimeoutsConfig  `yaml:"timeouts"`
}

// ServerConfig the http server timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// WorkspaceConfig the request workspace settings
type WorkspaceConfig struct {
	Root  string        `yaml:"root"`
	TTL   time.Duration `yaml:"ttl"`   // stale workspaces older than this are removed
	Sweep string        `yaml:"sweep"` // cron spec of the janitor
}

// ToolsConfig paths of the external engines, empty values use the platform defaults
type ToolsConfig struct {
	Soffice     string `yaml:"soffice"`
	Ghostscript string `yaml:"ghostscript"`
	Pdftoppm    string `yaml:"pdftoppm"`
	Pdftotext   string `yaml:"pdftotext"`
	Mutool      string `yaml:"mutool"`
	Rembg       string `yaml:"rembg"`
	RenderTool  string `yaml:"render_tool"` // pdftoppm or mutool
}

// TimeoutsConfig per engine invocation timeouts
type TimeoutsConfig struct {
	Office      time.Duration `yaml:"office"`
	Ghostscript time.Duration `yaml:"ghostscript"`
	Render      time.Duration `yaml:"render"`
	Rembg       time.Duration `yaml:"rembg"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          8000,
		Mode:          Production,
		LogLevel:      "info",
		AllowOrigins:  []string{"http://localhost:3000"},
		MaxUploadSize: 50 << 20,
		Workers:       runtime.NumCPU(),
		Server: ServerConfig{
			ReadTimeout:     5 * time.Minute,
			WriteTimeout:    10 * time.Minute,
			ShutdownTimeout: 30 * time.Second,
		},
		Workspace: WorkspaceConfig{
			TTL:   time.Hour,
			Sweep: "@every 10m",
		},
		Tools: ToolsConfig{RenderTool: "pdftoppm"},
		Timeouts: TimeoutsConfig{
			Office:      3 * time.Minute,
			Ghostscript: 2 * time.Minute,
			Render:      2 * time.Minute,
			Rembg:       2 * time.Minute,
		},
	}
}

// Load reads the configuration. Values are applied in order: defaults, the
// YAML file, the .env file, then DOCAPI_* environment variables.
func Load(file string) (Config, error) {
	cfg := Default()

	explicit := file != ""
	if !explicit {
		file = DefaultFile
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", file, err)
		}
		log.Trace("[Config] loaded %s", file)
	case explicit || !errors.Is(err, os.ErrNotExist):
		return cfg, fmt.Errorf("failed to read %s: %w", file, err)
	}

	if err := godotenv.Load(); err == nil {
		log.Trace("[Config] loaded .env")
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// applyEnv overrides the configuration with the DOCAPI_* variables
func (cfg *Config) applyEnv(lookup func(string) (string, bool)) error {
	env := func(key string) (string, bool) {
		value, has := lookup(EnvPrefix + key)
		return strings.TrimSpace(value), has && strings.TrimSpace(value) != ""
	}

	strs := map[string]*string{
		"HOST":            &cfg.Host,
		"MODE":            &cfg.Mode,
		"LOG_LEVEL":       &cfg.LogLevel,
		"WORKSPACE_ROOT":  &cfg.Workspace.Root,
		"WORKSPACE_SWEEP": &cfg.Workspace.Sweep,
		"SOFFICE_PATH":    &cfg.Tools.Soffice,
		"GS_PATH":         &cfg.Tools.Ghostscript,
		"PDFTOPPM_PATH":   &cfg.Tools.Pdftoppm,
		"PDFTOTEXT_PATH":  &cfg.Tools.Pdftotext,
		"MUTOOL_PATH":     &cfg.Tools.Mutool,
		"REMBG_PATH":      &cfg.Tools.Rembg,
		"RENDER_TOOL":     &cfg.Tools.RenderTool,
	}
	for key, field := range strs {
		if value, has := env(key); has {
			*field = value
		}
	}

	durations := map[string]*time.Duration{
		"WORKSPACE_TTL":    &cfg.Workspace.TTL,
		"READ_TIMEOUT":     &cfg.Server.ReadTimeout,
		"WRITE_TIMEOUT":    &cfg.Server.WriteTimeout,
		"SHUTDOWN_TIMEOUT": &cfg.Server.ShutdownTimeout,
		"TIMEOUT_OFFICE":   &cfg.Timeouts.Office,
		"TIMEOUT_GS":       &cfg.Timeouts.Ghostscript,
		"TIMEOUT_RENDER":   &cfg.Timeouts.Render,
		"TIMEOUT_REMBG":    &cfg.Timeouts.Rembg,
	}
	for key, field := range durations {
		if value, has := env(key); has {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
			}
			*field = d
		}
	}

	if value, has := env("PORT"); has {
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sPORT: %w", EnvPrefix, err)
		}
		cfg.Port = port
	}

	if value, has := env("WORKERS"); has {
		workers, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%sWORKERS: %w", EnvPrefix, err)
		}
		cfg.Workers = workers
	}

	if value, has := env("MAX_UPLOAD_SIZE"); has {
		size, err := ParseSize(value)
		if err != nil {
			return fmt.Errorf("%sMAX_UPLOAD_SIZE: %w", EnvPrefix, err)
		}
		cfg.MaxUploadSize = size
	}

	if value, has := env("ALLOW_ORIGINS"); has {
		cfg.AllowOrigins = []string{}
		for _, origin := range strings.Split(value, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
			}
		}
	}

	return nil
}

// Validate checks the configuration
func (cfg Config) Validate() error {
	if cfg.Port < 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}

	if cfg.Mode != Development && cfg.Mode != Production {
		return fmt.Errorf("invalid mode %q, expected %s or %s", cfg.Mode, Development, Production)
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	if cfg.MaxUploadSize <= 0 {
		return fmt.Errorf("max upload size must be positive")
	}

	if cfg.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	if cfg.Workspace.TTL <= 0 {
		return fmt.Errorf("workspace ttl must be positive")
	}

	if _, err := cron.ParseStandard(cfg.Workspace.Sweep); err != nil {
		return fmt.Errorf("invalid workspace sweep %q: %w", cfg.Workspace.Sweep, err)
	}

	switch cfg.Tools.RenderTool {
	case "", "pdftoppm", "mutool":
	default:
		return fmt.Errorf("invalid render tool %q", cfg.Tools.RenderTool)
	}

	return nil
}

// Level returns the kun/log level of LogLevel
func (cfg Config) Level() (log.Level, error) {
	switch strings.ToLower(cfg.LogLevel) {
	case "trace":
		return log.TraceLevel, nil
	case "debug":
		return log.DebugLevel, nil
	case "", "info":
		return log.InfoLevel, nil
	case "warn", "warning":
		return log.WarnLevel, nil
	case "error":
		return log.ErrorLevel, nil
	default:
		return log.InfoLevel, fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
}

// IsProduction reports whether the service runs in production mode
func (cfg Config) IsProduction() bool {
	return cfg.Mode == Production
}

// Addr returns host:port
func (cfg Config) Addr() string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}

// ParseSize parses a byte size like 52428800, 50MB or 512KB
func ParseSize(value string) (int64, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	units := []struct {
		suffix string
		scale  int64
	}{{"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10}, {"B", 1}}

	for _, unit := range units {
		if strings.HasSuffix(value, unit.suffix) {
			n, err := strconv.ParseInt(strings.TrimSpace(strings.TrimSuffix(value, unit.suffix)), 10, 64)
			if err != nil {
				return 0, err
			}
			return n * unit.scale, nil
		}
	}
	return strconv.ParseInt(value, 10, 64)
}
