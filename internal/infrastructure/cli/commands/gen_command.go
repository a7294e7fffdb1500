package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tavernari/kuaa/internal/app"
	"github.com/tavernari/kuaa/internal/application/commitmsg"
	"github.com/tavernari/kuaa/internal/domain"
)

// NewGenCommand creates the gen command group.
func NewGenCommand(container *app.Container) *cobra.Command {
	return Group(&cobra.Command{
		Use:   "gen",
		Short: "Generate content from the working tree",
	},
		newGenCommitMessageCommand(container),
	)
}

func newGenCommitMessageCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "git-commit-message [FREE_TEXT]",
		Short: "Generate a commit message for the staged changes",
		Long: "Sends the staged diff and optional free text to the prompt service, prints the\n" +
			"suggested message and asks whether to commit it, add information or do nothing.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := container.CredentialService.Resolve()
			if errors.Is(err, domain.ErrMissingCredential) {
				container.Presenter.ShowMissingCredential()
				return nil
			}
			if err != nil {
				return err
			}

			var comments string
			if len(args) == 1 {
				comments = args[0]
			}
			_, err = container.CommitService.Run(cmd.Context(), commitmsg.Request{APIKey: key, Comments: comments})
			return err
		},
	}
}
