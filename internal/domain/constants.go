package domain

// Credential constants
const (
	// CredentialEnvVar is the variable holding the API key, both in the
	// process environment and in the dotenv file.
	CredentialEnvVar = "KUAA_API_KEY"
	// DefaultEnvFile is resolved against the working directory.
	DefaultEnvFile = ".env"
)

// API constants
const (
	DefaultBaseURL        = "https://kuaa.tools"
	DefaultTimeoutSeconds = 30

	BalancePath = "/api/ktokens/balance"
	PromptPath  = "/api/prompt"

	// PromptTypeGitCommitMessage selects the commit message prompt model server side.
	PromptTypeGitCommitMessage = "git-commit-message"
)

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// History constants
const (
	HistoryBackendSQLite = "sqlite"
	HistoryBackendJSONL  = "jsonl"

	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)

// ConfigFormatVersion is written into freshly created config files.
const ConfigFormatVersion = "1"
