package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tavernari/kuaa/internal/app"
	"github.com/tavernari/kuaa/internal/infrastructure/cli/commands"
	"github.com/tavernari/kuaa/internal/infrastructure/config"
	"github.com/tavernari/kuaa/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	// ConfigPath overrides the config file location; KUAA_CONFIG is used otherwise.
	ConfigPath string
	// WorkDir is where git runs. Empty means the working directory.
	WorkDir string

	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewRootCmd wires the cobra root command. The container is built lazily in
// PersistentPreRunE, once flags are parsed, and must be closed by the caller.
func NewRootCmd(opts Options) (*cobra.Command, *app.Container) {
	container := app.NewContainer()
	overrides := config.NewOverrides()
	verbose := opts.Verbose

	root := &cobra.Command{
		Use:     "kuaa",
		Short:   "kuaa - commit messages from your staged changes",
		Long:    "kuaa sends the staged diff to the kuaa prompt service and proposes a commit message.",
		Version: versionString(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[commands.AnnotationNoContainer] != "" {
				return nil
			}
			err := container.Build(app.Settings{
				ConfigPath:     opts.ConfigPath,
				Overrides:      overrides,
				Verbose:        verbose,
				LogOutput:      cmd.ErrOrStderr(),
				WorkDir:        opts.WorkDir,
				SkipValidation: cmd.Annotations[commands.AnnotationSkipValidation] != "",
			})
			if err != nil {
				return err
			}
			renderer := NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
			container.AttachIO(NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout()), renderer)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	if opts.In != nil {
		root.SetIn(opts.In)
	}
	if opts.Out != nil {
		root.SetOut(opts.Out)
	}
	if opts.ErrOut != nil {
		root.SetErr(opts.ErrOut)
	}

	flags := root.PersistentFlags()
	flags.String(config.KeyBaseURL, "", "Prompt service base URL (env KUAA_BASE_URL)")
	flags.Duration(config.KeyTimeout, 0, "Request timeout, e.g. 30s (env KUAA_TIMEOUT)")
	flags.String(config.KeyEnvFile, "", "Dotenv file holding KUAA_API_KEY (env KUAA_ENV_FILE)")
	flags.BoolVarP(&verbose, "verbose", "v", opts.Verbose, "Enable debug logging")
	for _, key := range []string{config.KeyBaseURL, config.KeyTimeout, config.KeyEnvFile} {
		bindFlag(overrides, root, key)
	}

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		_ = cmd.Usage()
		return err
	})

	commands.Group(root,
		commands.NewConfigCommand(container),
		commands.NewGenCommand(container),
		commands.NewBalanceCommand(container),
		commands.NewHistoryCommand(container),
		commands.NewDoctorCommand(container),
		commands.NewVersionCommand(),
	)
	usageOnArgError(root)
	return root, container
}

// Execute runs the CLI with args and releases the container afterwards.
func Execute(ctx context.Context, opts Options, args []string) error {
	root, container := NewRootCmd(opts)
	defer container.Close()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func bindFlag(v *viper.Viper, root *cobra.Command, key string) {
	// The flag exists; BindPFlag only fails on a nil flag.
	_ = v.BindPFlag(key, root.PersistentFlags().Lookup(key))
}

// usageOnArgError prints usage when positional arguments are rejected, which
// SilenceUsage would otherwise suppress.
func usageOnArgError(cmd *cobra.Command) {
	if validate := cmd.Args; validate != nil {
		cmd.Args = func(c *cobra.Command, args []string) error {
			if err := validate(c, args); err != nil {
				_ = c.Usage()
				return err
			}
			return nil
		}
	}
	for _, sub := range cmd.Commands() {
		usageOnArgError(sub)
	}
}

func versionString() string {
	v := version.Version
	if version.Commit != "" {
		v += " (" + version.Commit + ")"
	}
	return v
}

// IsVerboseEnv reports whether KUAA_DEBUG asks for debug logging.
func IsVerboseEnv() bool {
	value := os.Getenv("KUAA_DEBUG")
	return value == "1" || strings.EqualFold(value, "true")
}
