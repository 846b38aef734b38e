package main

import (
	"github.com/spf13/cobra"
)

type countOutput struct {
	Count int64 `json:"count"`
}

func newCountCmd(a *app) *cobra.Command {
	var q queryFlags

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Print the number of orders matching the filters",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			m, printer, err := a.session(opts)
			if err != nil {
				return err
			}

			m.Explorer.GetFilterCount(cmd.Context())
			if err := printer.err(); err != nil {
				return err
			}
			return writeJSON(a.stdout, countOutput{Count: m.Explorer.State().FilterCount})
		},
	}

	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "Filter as field=value (name, id, placed_at); repeatable")
	q.page = 1
	return cmd
}
