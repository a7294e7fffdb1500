package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tavernari/kuaa/internal/app"
	"github.com/tavernari/kuaa/internal/domain"
)

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "balance",
		Short: "Fetch the K-Tokens balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := container.CredentialService.Resolve()
			if errors.Is(err, domain.ErrMissingCredential) {
				container.Presenter.ShowMissingCredential()
				return nil
			}
			if err != nil {
				return err
			}

			report, err := container.BalanceService.Run(cmd.Context(), key)
			if err != nil {
				return err
			}
			if report.Rejected {
				container.Presenter.ShowBalanceRejected(report.Status)
				return nil
			}
			container.Presenter.ShowBalance(report.Result)
			return nil
		},
	}
}
