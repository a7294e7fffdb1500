package credential

import (
	"errors"
	"strings"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Service stores and resolves the API key.
type Service struct {
	Store  ports.CredentialStore
	Logger ports.Logger
}

// Configure persists key. Empty keys are rejected.
func (s *Service) Configure(key string) error {
	if s.Store == nil {
		return errors.New("credential.Service store not configured")
	}
	if key == "" {
		return domain.ErrEmptyCredential
	}
	if err := s.Store.Set(key); err != nil {
		return err
	}
	s.Logger.Info("api key stored", map[string]interface{}{"path": s.Store.Path()})
	return nil
}

// Resolve returns the configured key or domain.ErrMissingCredential.
func (s *Service) Resolve() (string, error) {
	if s.Store == nil {
		return "", domain.ErrMissingCredential
	}
	key, ok := s.Store.Get()
	if !ok || strings.TrimSpace(key) == "" {
		return "", domain.ErrMissingCredential
	}
	return key, nil
}
