package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/pkg/filesystem"
	"github.com/tavernari/kuaa/internal/ports"
)

// Keys looked up in the override layer. Each is bound to a persistent flag of
// the same name and to KUAA_<KEY> in the environment.
const (
	KeyBaseURL = "base-url"
	KeyTimeout = "timeout"
	KeyEnvFile = "env-file"
)

// FileLoader loads YAML configuration from ~/.kuaa/config.yaml (overridable via KUAA_CONFIG)
// and applies flag/environment overrides on top.
type FileLoader struct {
	overridePath string
	overrides    *viper.Viper
}

// NewFileLoader builds a new loader. overrides may be nil.
func NewFileLoader(path string, overrides *viper.Viper) *FileLoader {
	return &FileLoader{overridePath: path, overrides: overrides}
}

// Load implements ports.ConfigProvider.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	cfg, err := l.LoadFile()
	if err != nil {
		return domain.Config{}, err
	}
	return ApplyOverrides(cfg, l.overrides), nil
}

// LoadFile reads the YAML file only, creating it with defaults when missing.
func (l *FileLoader) LoadFile() (domain.Config, error) {
	path := l.Path()
	if err := ensureConfigDir(path); err != nil {
		return domain.Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, err
	}

	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}

	return hydrateDefaults(cfg), nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return l.overridePath
	}
	if custom := os.Getenv("KUAA_CONFIG"); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(filesystem.AppDir(), "config.yaml")
}

// NewOverrides returns a viper instance resolving KUAA_* environment variables.
// Callers bind their persistent flags to it.
func NewOverrides() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("KUAA")
	v.SetEnvKeyReplacer(envKeyReplacer())
	v.AutomaticEnv()
	return v
}

func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer("-", "_")
}

// ApplyOverrides layers flag and environment values over the file config.
func ApplyOverrides(cfg domain.Config, v *viper.Viper) domain.Config {
	if v == nil {
		return cfg
	}
	if baseURL := v.GetString(KeyBaseURL); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if v.IsSet(KeyTimeout) {
		if timeout := v.GetDuration(KeyTimeout); timeout > 0 {
			cfg.API.TimeoutSeconds = int((timeout + time.Second - 1) / time.Second)
		}
	}
	if envFile := v.GetString(KeyEnvFile); envFile != "" {
		cfg.Credentials.EnvFile = envFile
	}
	return cfg
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: domain.ConfigFormatVersion,
		API: domain.APISettings{
			BaseURL:        domain.DefaultBaseURL,
			TimeoutSeconds: domain.DefaultTimeoutSeconds,
		},
		Credentials: domain.CredentialSettings{
			EnvFile: domain.DefaultEnvFile,
		},
		History: domain.HistorySettings{
			Enabled: true,
			Backend: domain.HistoryBackendSQLite,
			Path:    filepath.Join(filesystem.AppDir(), "history.db"),
		},
	}
}

func ensureConfigDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
}

func writeDefault(path string, cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, domain.SecureFilePermissions)
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = domain.ConfigFormatVersion
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = domain.DefaultBaseURL
	}
	if cfg.API.TimeoutSeconds == 0 {
		cfg.API.TimeoutSeconds = domain.DefaultTimeoutSeconds
	}
	if cfg.Credentials.EnvFile == "" {
		cfg.Credentials.EnvFile = domain.DefaultEnvFile
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendSQLite
	}
	if cfg.History.Path == "" {
		cfg.History.Path = defaultHistoryPath(cfg.History.Backend)
	}
	cfg.History.Path = filesystem.ExpandPath(cfg.History.Path)
	return cfg
}

func defaultHistoryPath(backend string) string {
	if backend == domain.HistoryBackendJSONL {
		return filepath.Join(filesystem.AppDir(), "history.jsonl")
	}
	return filepath.Join(filesystem.AppDir(), "history.db")
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
