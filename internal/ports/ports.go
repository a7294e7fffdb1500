// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application services in internal/application depend only on these
// contracts. Concrete adapters live under internal/infrastructure: the HTTP
// client for the remote prompt service, the git command wrapper, the dotenv
// credential file, the YAML config loader, the history stores and the
// terminal prompter/renderer.
package ports

import (
	"context"

	"github.com/tavernari/kuaa/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.kuaa/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// CredentialStore persists the API key and resolves it at runtime.
type CredentialStore interface {
	Set(key string) error
	// Get returns the key and false when it is unset or empty.
	Get() (string, bool)
	Path() string
}

// DiffSource captures the staged change set. It never fails: an unreadable
// diff is reported as the empty string.
type DiffSource interface {
	StagedDiff(ctx context.Context) string
}

// Committer records a commit with the given message.
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// GitInspector reports the installed version control tool, for diagnostics.
type GitInspector interface {
	Version(ctx context.Context) (string, error)
}

// KuaaAPI is the remote prompt service. Only one call is in flight at a time.
type KuaaAPI interface {
	GetBalance(ctx context.Context, apiKey string) (domain.BalanceResult, error)
	GenerateCommitMessage(ctx context.Context, apiKey string, req domain.PromptRequest) (domain.GenerationResult, error)
}

// ActionPrompter reads the user's follow-up choices, one line per call.
type ActionPrompter interface {
	AskAction() (string, error)
	AskInfo() (string, error)
}

// Renderer presents results of the generation flow to the user.
type Renderer interface {
	// StartProgress shows an activity indicator and returns the function that hides it.
	StartProgress(label string) (stop func())
	ShowGeneration(domain.GenerationResult)
	ShowInvalidAction(input string)
	ShowCommitted(message string)
}

// Presenter extends Renderer with the output of the other commands.
type Presenter interface {
	Renderer
	ShowBalance(domain.BalanceResult)
	ShowBalanceRejected(status string)
	ShowMissingCredential()
	ShowCredentialSaved(path string)
}

// HistoryRepository stores generated commit messages.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int) ([]domain.HistoryRecord, error)
	Clear() error
	Path() string
	Close() error
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
