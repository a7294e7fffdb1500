package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	appconfig "github.com/tavernari/kuaa/internal/application/config"
	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Service runs environment diagnostics.
type Service struct {
	ConfigProvider ports.ConfigProvider
	Git            ports.GitInspector
	Credentials    ports.CredentialStore
	History        ports.HistoryRepository
}

// Run executes checks and returns a report. The error is non-nil only when
// the configuration itself cannot be loaded.
func (s *Service) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	if err := appconfig.Validate(cfg); err != nil {
		checks = append(checks, fail("Config file", err.Error()))
	} else {
		checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))
	}

	checks = append(checks, s.gitCheck(ctx))
	checks = append(checks, s.credentialCheck())
	checks = append(checks, endpointCheck(cfg.API))
	checks = append(checks, s.historyCheck(cfg.History))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *Service) gitCheck(ctx context.Context) domain.HealthCheck {
	if s.Git == nil {
		return warn("Git", "not checked")
	}
	version, err := s.Git.Version(ctx)
	if err != nil {
		return fail("Git", err.Error())
	}
	return ok("Git", version)
}

func (s *Service) credentialCheck() domain.HealthCheck {
	if s.Credentials == nil {
		return warn("API key", "credential store not initialized")
	}
	if key, found := s.Credentials.Get(); found && key != "" {
		return ok("API key", fmt.Sprintf("%s set (%s)", domain.CredentialEnvVar, s.Credentials.Path()))
	}
	return warn("API key", fmt.Sprintf("%s missing, run `kuaa config api-key <KEY>`", domain.CredentialEnvVar))
}

func (s *Service) historyCheck(settings domain.HistorySettings) domain.HealthCheck {
	if !settings.Enabled {
		return ok("History", "disabled")
	}
	if s.History == nil {
		return warn("History", "store not opened")
	}
	if _, err := s.History.Records(1); err != nil {
		return warn("History", err.Error())
	}
	return ok("History", s.History.Path())
}

func endpointCheck(settings domain.APISettings) domain.HealthCheck {
	u, err := url.Parse(settings.BaseURL)
	if err != nil || u.Host == "" {
		if err == nil {
			err = errors.New("missing host")
		}
		return fail("API endpoint", fmt.Sprintf("%q: %v", settings.BaseURL, err))
	}
	return ok("API endpoint", fmt.Sprintf("%s (timeout %s)", u.String(), settings.Timeout()))
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
