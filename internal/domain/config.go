package domain

import "time"

// Config mirrors ~/.kuaa/config.yaml.
type Config struct {
	ConfigFormatVersion string             `yaml:"config_format_version"`
	API                 APISettings        `yaml:"api"`
	Credentials         CredentialSettings `yaml:"credentials"`
	History             HistorySettings    `yaml:"history"`
}

// APISettings locates the remote prompt service.
type APISettings struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout converts TimeoutSeconds, falling back to DefaultTimeoutSeconds.
func (a APISettings) Timeout() time.Duration {
	if a.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// CredentialSettings points at the dotenv file holding the API key.
type CredentialSettings struct {
	EnvFile string `yaml:"env_file"`
}

// HistorySettings controls the local record of generated messages.
type HistorySettings struct {
	Enabled bool   `yaml:"enabled"`
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}
