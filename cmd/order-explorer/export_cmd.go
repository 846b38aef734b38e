package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/mappers"
	"github.com/iota-uz/order-explorer/pkg/excel"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		q   queryFlags
		out string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write one page of orders to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return withCode(exitUsage, fmt.Errorf("--out is required"))
			}
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

			props := mappers.StateToOrdersPage(m.Explorer.State(), m.Dates, m.Localizer)
			data, err := excel.Export(mappers.OrdersPageToSheet(props, m.Localizer), excel.DefaultExportOptions())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			return writeJSON(a.stdout, map[string]any{"file": out, "orders": len(props.Orders)})
		},
	}

	q.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Destination .xlsx file")
	return cmd
}
