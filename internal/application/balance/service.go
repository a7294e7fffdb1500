package balance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/ports"
)

// Report is what the balance command displays.
type Report struct {
	Result domain.BalanceResult
	// Rejected is set when the service answered with a non-2xx status.
	// StatusCode and Status describe that answer.
	Rejected   bool
	StatusCode int
	Status     string
}

// Service fetches the K-Tokens balance.
type Service struct {
	API    ports.KuaaAPI
	Logger ports.Logger
}

// Run queries the balance. A rejection by the server is reported in the
// Report rather than as an error; transport and decode failures are errors.
func (s *Service) Run(ctx context.Context, apiKey string) (Report, error) {
	if s.API == nil || s.Logger == nil {
		return Report{}, errors.New("balance.Service dependencies not satisfied")
	}
	if strings.TrimSpace(apiKey) == "" {
		return Report{}, domain.ErrMissingCredential
	}

	result, err := s.API.GetBalance(ctx, apiKey)
	if err != nil {
		var statusErr *domain.StatusError
		if errors.As(err, &statusErr) {
			s.Logger.Warn("balance request rejected", map[string]interface{}{"status": statusErr.StatusCode})
			return Report{Rejected: true, StatusCode: statusErr.StatusCode, Status: statusErr.Status}, nil
		}
		return Report{}, fmt.Errorf("fetch balance: %w", err)
	}
	return Report{Result: result}, nil
}
