package commands

import (
	"fmt"
	"io"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tavernari/kuaa/internal/app"
	configinfra "github.com/tavernari/kuaa/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with all subcommands
func NewConfigCommand(container *app.Container) *cobra.Command {
	return Group(&cobra.Command{
		Use:   "config",
		Short: "Configure kuaa",
	},
		newConfigAPIKeyCommand(container),
		newConfigShowCommand(container),
		newConfigDiffCommand(container),
		newConfigPathCommand(container),
	)
}

// newConfigAPIKeyCommand creates the 'config api-key' subcommand
func newConfigAPIKeyCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:         "api-key <KEY>",
		Short:       "Store the API key in the dotenv file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{AnnotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return storeAPIKey(cmd.ErrOrStderr(), container, args[0])
		},
	}
}

func newConfigShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:         "show",
		Short:       "Show the effective configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfiguration(cmd.OutOrStdout(), container)
		},
	}
}

func newConfigDiffCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:         "diff",
		Short:       "Show differences from the default configuration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return diffConfiguration(cmd.OutOrStdout(), container)
		},
	}
}

func newConfigPathCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:         "path",
		Short:       "Print the config and credential file locations",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{AnnotationSkipValidation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config: %s\n", container.ConfigLoader.Path())
			fmt.Fprintf(out, "env file: %s\n", container.Credentials.Path())
			if container.HistoryStore != nil {
				fmt.Fprintf(out, "history: %s\n", container.HistoryStore.Path())
			}
			return nil
		},
	}
}

// storeAPIKey persists the key and warns when the environment shadows it.
func storeAPIKey(errOut io.Writer, container *app.Container, key string) error {
	if err := container.CredentialService.Configure(key); err != nil {
		return err
	}
	container.Presenter.ShowCredentialSaved(container.Credentials.Path())
	if container.Credentials.Exported() {
		fmt.Fprintln(errOut, "note: KUAA_API_KEY is exported in this shell and takes precedence over the file")
	}
	return nil
}

func showConfiguration(out io.Writer, container *app.Container) error {
	raw, err := yaml.Marshal(container.Config)
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(raw)
	return err
}

func diffConfiguration(out io.Writer, container *app.Container) error {
	diff := cmp.Diff(configinfra.DefaultConfig(), container.Config)
	if diff == "" {
		fmt.Fprintln(out, MsgNoDifferencesFromDefault)
		return nil
	}
	fmt.Fprintln(out, "Differences from default (-default +current):")
	fmt.Fprint(out, diff)
	return nil
}
