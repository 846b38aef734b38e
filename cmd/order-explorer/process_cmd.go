package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/authz"
)

func newProcessCmd(a *app, action string) *cobra.Command {
	var (
		q        queryFlags
		orderIDs []string
		requests []string
		reason   string
	)

	cmd := &cobra.Command{
		Use:   action,
		Short: fmt.Sprintf("Select service requests and %s them", action),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(orderIDs) == 0 && len(requests) == 0 {
				return withCode(exitUsage, errors.New("select at least one --order or --request"))
			}
			opts, err := q.options()
			if err != nil {
				return err
			}
			m, printer, err := a.session(opts)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := m.Explorer.ChangePage(ctx, q.page); err != nil {
				return withCode(exitUsage, err)
			}
			if err := printer.err(); err != nil {
				return err
			}
			if !m.Explorer.CheckApproval() {
				return fmt.Errorf("user %q may not %s requests: %w", m.Explorer.State().CurrentUser.UserID, action, authz.ErrForbidden)
			}

			for _, id := range orderIDs {
				if err := m.Explorer.SelectionChange(order.ID(id)); err != nil {
					return err
				}
			}
			for _, id := range requests {
				if err := m.Explorer.SelectItem(order.ID(id)); err != nil {
					return err
				}
			}

			if _, err := m.Explorer.RunAction(action); err != nil {
				return err
			}
			res, err := m.Dialog.Submit(ctx, reason)
			if err != nil {
				if res != nil {
					_ = writeJSON(a.stdout, res)
				}
				if exitCode(err) == exitFailure {
					return withCode(exitRemote, err)
				}
				return err
			}
			return writeJSON(a.stdout, res)
		},
	}

	q.register(cmd)
	cmd.Flags().StringArrayVar(&orderIDs, "order", nil, "Toggle every request of this order; repeatable")
	cmd.Flags().StringArrayVar(&requests, "request", nil, "Toggle a single service request; repeatable")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded with the transition")
	return cmd
}
