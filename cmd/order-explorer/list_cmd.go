package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/mappers"
)

func newListCmd(a *app) *cobra.Command {
	var (
		q          queryFlags
		clientSort bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of orders",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			m, printer, err := a.session(opts)
			if err != nil {
				return err
			}

			if err := m.Explorer.ChangePage(cmd.Context(), q.page); err != nil {
				return withCode(exitUsage, err)
			}
			if err := printer.err(); err != nil {
				return err
			}
			if clientSort {
				m.Explorer.SortPage()
			}
			return writeJSON(a.stdout, mappers.StateToOrdersPage(m.Explorer.State(), m.Dates, m.Localizer))
		},
	}

	q.register(cmd)
	cmd.Flags().BoolVar(&clientSort, "client-sort", false, "Re-sort the page locally with the display locale")
	return cmd
}
