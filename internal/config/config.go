// Package config loads classreport settings from an optional YAML file and
// CLASSREPORT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"classreport/internal/logging"
	"classreport/internal/record"
)

// DefaultPath is read when no path is given and the file exists.
const DefaultPath = "classreport.yaml"

// Config holds all classreport configuration.
type Config struct {
	ListenAddr      string        `yaml:"listen_addr"`
	Classes         int           `yaml:"classes"`
	StrictStatus    bool          `yaml:"strict_status"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	DataPath        string        `yaml:"data_path"`
	ExportDir       string        `yaml:"export_dir"`
	DefaultPageSize int           `yaml:"default_page_size"`
	MaxPageSize     int           `yaml:"max_page_size"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	SheetNameLimit  int           `yaml:"sheet_name_limit"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		ListenAddr:      ":8080",
		Classes:         record.DefaultClasses,
		LogLevel:        "info",
		LogFormat:       "text",
		ExportDir:       os.TempDir(),
		DefaultPageSize: 50,
		MaxPageSize:     500,
		MaxUploadBytes:  32 << 20,
		SheetNameLimit:  20,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads path (or CLASSREPORT_CONFIG, or DefaultPath when present),
// applies environment overrides and validates the result. An explicit path
// that does not exist is an error; a missing default file is not.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		if env := os.Getenv("CLASSREPORT_CONFIG"); env != "" {
			path, explicit = env, true
		} else {
			path = DefaultPath
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Classes < 1 {
		return fmt.Errorf("config: classes must be >= 1, got %d", c.Classes)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("config: log_format must be text or json, got %q", c.LogFormat)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("config: default_page_size must be >= 1, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("config: max_page_size (%d) below default_page_size (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("config: max_upload_bytes must be positive")
	}
	if c.SheetNameLimit < 1 || c.SheetNameLimit > 31 {
		return fmt.Errorf("config: sheet_name_limit must be in [1,31], got %d", c.SheetNameLimit)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: shutdown_timeout must be positive")
	}
	return nil
}

// Validator returns the record validator these settings describe.
func (c Config) Validator() record.Validator {
	v := record.NewValidator(c.Classes)
	v.StrictStatus = c.StrictStatus
	return v
}

func (c *Config) applyEnv() error {
	setString("CLASSREPORT_LISTEN_ADDR", &c.ListenAddr)
	setString("CLASSREPORT_LOG_LEVEL", &c.LogLevel)
	setString("CLASSREPORT_LOG_FORMAT", &c.LogFormat)
	setString("CLASSREPORT_DATA_PATH", &c.DataPath)
	setString("CLASSREPORT_EXPORT_DIR", &c.ExportDir)

	ints := []struct {
		key string
		dst *int
	}{
		{"CLASSREPORT_CLASSES", &c.Classes},
		{"CLASSREPORT_DEFAULT_PAGE_SIZE", &c.DefaultPageSize},
		{"CLASSREPORT_MAX_PAGE_SIZE", &c.MaxPageSize},
		{"CLASSREPORT_SHEET_NAME_LIMIT", &c.SheetNameLimit},
	}
	for _, i := range ints {
		if err := setInt(i.key, i.dst); err != nil {
			return err
		}
	}

	if v := os.Getenv("CLASSREPORT_MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: CLASSREPORT_MAX_UPLOAD_BYTES: %w", err)
		}
		c.MaxUploadBytes = n
	}
	if v := os.Getenv("CLASSREPORT_STRICT_STATUS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: CLASSREPORT_STRICT_STATUS: %w", err)
		}
		c.StrictStatus = b
	}
	if v := os.Getenv("CLASSREPORT_SHUTDOWN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: CLASSREPORT_SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
