package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tavernari/kuaa/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateAPI(cfg.API); err != nil {
		return err
	}
	if err := validateCredentials(cfg.Credentials); err != nil {
		return err
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateAPI(api domain.APISettings) error {
	parsed, err := url.Parse(api.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url invalid: %w", err)
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", api.BaseURL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("api.base_url must include a host, got %q", api.BaseURL)
	}
	if api.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be > 0")
	}
	return nil
}

func validateCredentials(creds domain.CredentialSettings) error {
	if strings.TrimSpace(creds.EnvFile) == "" {
		return fmt.Errorf("credentials.env_file must be set")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if !history.Enabled {
		return nil
	}
	switch history.Backend {
	case domain.HistoryBackendSQLite, domain.HistoryBackendJSONL:
	default:
		return fmt.Errorf("history.backend must be sqlite|jsonl, got %s", history.Backend)
	}
	if history.Path == "" {
		return fmt.Errorf("history.path must be set")
	}
	return nil
}
