package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lachiem1/tallyUp/internal/report"
	"github.com/lachiem1/tallyUp/internal/tui"
)

func newSummaryCommand(a *app) *cobra.Command {
	var customer string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print what each customer owes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd); err != nil {
				return err
			}
			defer a.close()
			return a.runSummary(cmd, customer)
		},
	}

	cmd.Flags().StringVar(&customer, "customer", "", "show every invoice for one customer instead")

	return cmd
}

func (a *app) runSummary(cmd *cobra.Command, customer string) error {
	src, err := a.activeSource()
	if err != nil {
		return err
	}

	table, err := src.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("loading %s: %w", src.Name(), err)
	}

	snap := report.Build(table)
	out := tui.RenderHome(snap)
	if customer != "" {
		out = tui.RenderCustomerDetail(snap, customer)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}
