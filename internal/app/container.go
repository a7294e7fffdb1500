package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/tavernari/kuaa/internal/application/balance"
	"github.com/tavernari/kuaa/internal/application/commitmsg"
	appconfig "github.com/tavernari/kuaa/internal/application/config"
	"github.com/tavernari/kuaa/internal/application/credential"
	"github.com/tavernari/kuaa/internal/application/doctor"
	"github.com/tavernari/kuaa/internal/domain"
	"github.com/tavernari/kuaa/internal/infrastructure/api"
	"github.com/tavernari/kuaa/internal/infrastructure/config"
	"github.com/tavernari/kuaa/internal/infrastructure/credentials"
	"github.com/tavernari/kuaa/internal/infrastructure/git"
	"github.com/tavernari/kuaa/internal/infrastructure/history"
	"github.com/tavernari/kuaa/internal/pkg/filesystem"
	"github.com/tavernari/kuaa/internal/pkg/logger"
	"github.com/tavernari/kuaa/internal/ports"
)

// Settings are the process-level inputs of Build.
type Settings struct {
	// ConfigPath overrides the config file location. Empty means default.
	ConfigPath string
	// Overrides resolves flag and KUAA_* environment values.
	Overrides *viper.Viper
	Verbose   bool
	// LogOutput receives diagnostics. Defaults to stderr.
	LogOutput io.Writer
	// WorkDir is where git runs. Empty means the working directory.
	WorkDir string
	// SkipValidation lets diagnostic commands start with a broken config.
	SkipValidation bool
}

// Container wires up application services with infrastructure adapters.
type Container struct {
	Config         domain.Config
	ConfigLoader   *config.FileLoader
	ConfigProvider ports.ConfigProvider

	Credentials       *credentials.DotenvStore
	CredentialService *credential.Service
	CommitService     *commitmsg.Service
	BalanceService    *balance.Service
	DoctorService     *doctor.Service
	HistoryStore      ports.HistoryRepository
	Presenter         ports.Presenter
	Logger            ports.Logger

	built bool
}

// NewContainer returns an empty container. Commands hold the pointer and
// Build fills it once flags have been parsed.
func NewContainer() *Container {
	return &Container{}
}

// Build constructs the dependency graph. The dotenv file is merged into the
// environment before overrides are applied, so KUAA_* values it defines take
// part in configuration.
func (c *Container) Build(s Settings) error {
	if c.built {
		return nil
	}
	out := s.LogOutput
	if out == nil {
		out = os.Stderr
	}
	log := logger.New(out, s.Verbose)

	loader := config.NewFileLoader(s.ConfigPath, s.Overrides)
	fileCfg, err := loader.LoadFile()
	if err != nil {
		return fmt.Errorf("load config %s: %w", loader.Path(), err)
	}

	envFile := fileCfg.Credentials.EnvFile
	if s.Overrides != nil {
		if override := s.Overrides.GetString(config.KeyEnvFile); override != "" {
			envFile = override
		}
	}
	store := credentials.NewDotenvStore(filesystem.ExpandPath(envFile), log)
	if err := store.Load(); err != nil {
		return err
	}

	cfg := config.ApplyOverrides(fileCfg, s.Overrides)
	if err := appconfig.Validate(cfg); err != nil && !s.SkipValidation {
		return fmt.Errorf("invalid configuration %s: %w", loader.Path(), err)
	}
	log.Debug("configuration loaded", map[string]interface{}{
		"path":     loader.Path(),
		"base_url": cfg.API.BaseURL,
		"env_file": store.Path(),
	})

	gitClient := git.NewClient(s.WorkDir, log)
	apiClient := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout(), log)
	historyStore := history.Open(cfg.History, log)

	c.Config = cfg
	c.ConfigLoader = loader
	c.ConfigProvider = loader
	c.Credentials = store
	c.HistoryStore = historyStore
	c.Logger = log
	c.CredentialService = &credential.Service{Store: store, Logger: log}
	c.CommitService = &commitmsg.Service{
		API:       apiClient,
		Diffs:     gitClient,
		Committer: gitClient,
		History:   historyStore,
		Logger:    log,
	}
	c.BalanceService = &balance.Service{API: apiClient, Logger: log}
	c.DoctorService = &doctor.Service{
		ConfigProvider: loader,
		Git:            gitClient,
		Credentials:    store,
		History:        historyStore,
	}
	c.built = true
	return nil
}

// AttachIO connects the interactive services to the terminal.
func (c *Container) AttachIO(prompter ports.ActionPrompter, presenter ports.Presenter) {
	c.Presenter = presenter
	if c.CommitService != nil {
		c.CommitService = c.CommitService.WithIO(prompter, presenter)
	}
}

// Close releases resources held by adapters.
func (c *Container) Close() error {
	if c.HistoryStore == nil {
		return nil
	}
	return c.HistoryStore.Close()
}
