package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/claude/ironledger/internal/models"
	"github.com/claude/ironledger/internal/storage"
)

type Config struct {
	Server        ServerConfig    `yaml:"server"`
	Storage       StorageConfig   `yaml:"storage"`
	Auth          AuthConfig      `yaml:"auth"`
	Tailscale     TailscaleConfig `yaml:"tailscale"`
	Timer         TimerConfig     `yaml:"timer"`
	TemplatesFile string          `yaml:"templates_file"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// CORSOrigins lists browser origins allowed to call the API. Empty
	// allows any origin.
	CORSOrigins []string `yaml:"cors_origins"`
}

// Addr returns host:port for net.Listen.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	Key    string `yaml:"key"`
}

// AuthConfig protects mutating routes when APIKey is set.
type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type TimerConfig struct {
	ExtendSeconds int `yaml:"extend_seconds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "127.0.0.1", Port: 8080},
		Storage: StorageConfig{
			Driver: storage.DriverSQLite,
			Path:   "~/.local/state/ironledger/ironledger.db",
			Key:    storage.DefaultKey,
		},
		Tailscale: TailscaleConfig{Hostname: "ironledger"},
		Timer:     TimerConfig{ExtendSeconds: 30},
	}
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. A missing file is not an error.
// Env vars use the prefix IRONLEDGER_ and underscore-separated paths:
//
//	IRONLEDGER_SERVER_HOST, IRONLEDGER_SERVER_PORT,
//	IRONLEDGER_STORAGE_DRIVER, IRONLEDGER_STORAGE_PATH, IRONLEDGER_STORAGE_KEY,
//	IRONLEDGER_AUTH_API_KEY,
//	IRONLEDGER_TAILSCALE_ENABLED, IRONLEDGER_TAILSCALE_HOSTNAME,
//	IRONLEDGER_TEMPLATES_FILE
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	cfg.Storage.Path = ExpandHome(cfg.Storage.Path)
	cfg.Tailscale.StateDir = ExpandHome(cfg.Tailscale.StateDir)
	cfg.TemplatesFile = ExpandHome(cfg.TemplatesFile)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("IRONLEDGER_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("IRONLEDGER_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("IRONLEDGER_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("IRONLEDGER_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("IRONLEDGER_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("IRONLEDGER_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("IRONLEDGER_TAILSCALE_ENABLED"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			cfg.Tailscale.Enabled = on
		}
	}
	if v := os.Getenv("IRONLEDGER_TAILSCALE_HOSTNAME"); v != "" {
		cfg.Tailscale.Hostname = v
	}
	if v := os.Getenv("IRONLEDGER_TEMPLATES_FILE"); v != "" {
		cfg.TemplatesFile = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case storage.DriverSQLite, storage.DriverFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for driver %q", c.Storage.Driver)
		}
	case storage.DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q is not one of sqlite, file, memory", c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key is required")
	}
	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}
	if c.Timer.ExtendSeconds <= 0 {
		return fmt.Errorf("timer.extend_seconds must be positive")
	}
	return nil
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

type templateFile struct {
	Templates []models.WorkoutTemplate `yaml:"templates"`
}

// LoadTemplates reads a YAML template list. Every workout type must be
// present exactly once; missing identities and rest periods are filled in.
func LoadTemplates(path string) ([]models.WorkoutTemplate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file: %w", err)
	}
	return ParseTemplates(data)
}

// ParseTemplates decodes and validates a YAML template list.
func ParseTemplates(data []byte) ([]models.WorkoutTemplate, error) {
	var f templateFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing templates file: %w", err)
	}

	seen := make(map[models.WorkoutType]bool)
	out := make([]models.WorkoutTemplate, 0, len(f.Templates))
	for _, tmpl := range f.Templates {
		if t, err := models.ParseWorkoutType(string(tmpl.Type)); err == nil {
			tmpl.Type = t
		}
		for i, e := range tmpl.Exercises {
			if c, err := models.ParseCategory(string(e.Category)); err == nil {
				tmpl.Exercises[i].Category = c
			}
		}
		if err := tmpl.Validate(); err != nil {
			return nil, err
		}
		if seen[tmpl.Type] {
			return nil, fmt.Errorf("%w: workout %s listed twice", models.ErrInvalidTemplate, tmpl.Type)
		}
		seen[tmpl.Type] = true
		out = append(out, tmpl.WithIDs())
	}
	for _, t := range models.AllWorkoutTypes() {
		if !seen[t] {
			return nil, fmt.Errorf("%w: workout %s missing", models.ErrInvalidTemplate, t)
		}
	}
	return out, nil
}

// MarshalTemplates encodes templates in the format ParseTemplates reads.
func MarshalTemplates(templates []models.WorkoutTemplate) ([]byte, error) {
	data, err := yaml.Marshal(templateFile{Templates: templates})
	if err != nil {
		return nil, fmt.Errorf("encoding templates: %w", err)
	}
	return data, nil
}

// SeedTemplates returns the template factory used on first run and reset. A
// configured file is re-read on every call; when it is unusable the built-in
// program is used.
func SeedTemplates(path string, log *slog.Logger) func() []models.WorkoutTemplate {
	if path == "" {
		return models.DefaultTemplates
	}
	return func() []models.WorkoutTemplate {
		templates, err := LoadTemplates(path)
		if err != nil {
			log.Warn("templates file unusable, using built-in program", "path", path, "error", err)
			return models.DefaultTemplates()
		}
		return templates
	}
}
