package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/iota-uz/order-explorer/modules/orders"
	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/configuration"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/tracing"
)

var errInvalidInterval = errors.New("--interval must be positive")

// app carries what the commands share. Tests replace the repository and
// the output streams.
type app struct {
	repo     order.Repository
	stdout   io.Writer
	stderr   io.Writer
	envFiles []string
	user     string
	locale   string

	closers []tracing.ShutdownFunc
}

type queryFlags struct {
	limit   int
	page    int
	filters []string
	sort    string
	desc    bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&q.limit, "limit", 0, "Page size (default PAGE_SIZE)")
	cmd.Flags().IntVar(&q.page, "page", 1, "1-based page number")
	cmd.Flags().StringArrayVar(&q.filters, "filter", nil, "Filter as field=value (name, id, placed_at); repeatable")
	cmd.Flags().StringVar(&q.sort, "sort", "", "Sort field (name, id, placed_at)")
	cmd.Flags().BoolVar(&q.desc, "desc", false, "Sort descending")
}

func (q *queryFlags) options() (orders.Options, error) {
	var opts orders.Options
	for _, raw := range q.filters {
		id, value, ok := strings.Cut(raw, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return opts, withCode(exitUsage, fmt.Errorf("invalid --filter %q, want field=value", raw))
		}
		opts.Filters = append(opts.Filters, order.Filter{ID: strings.TrimSpace(id), Value: value})
	}
	if q.sort != "" {
		field, ok := explorer.SortFieldFor(q.sort)
		if !ok {
			return opts, withCode(exitUsage, fmt.Errorf("invalid --sort %q", q.sort))
		}
		opts.Sort = &order.Sort{CurrentField: field, IsAscending: !q.desc}
	}
	if q.limit != 0 {
		if !slices.Contains(configuration.PageSizeOptions, q.limit) {
			return opts, withCode(exitUsage, fmt.Errorf("invalid --limit %d, want one of %v", q.limit, configuration.PageSizeOptions))
		}
		opts.Explorer = append(opts.Explorer, explorer.WithLimit(q.limit))
	}
	if q.page < 1 {
		return opts, withCode(exitUsage, fmt.Errorf("invalid --page %d", q.page))
	}
	return opts, nil
}

// session builds the module and subscribes the notification printer.
func (a *app) session(opts orders.Options) (*orders.Module, *notificationPrinter, error) {
	conf, err := configuration.Load(a.envFiles)
	if err != nil {
		return nil, nil, withCode(exitUsage, fmt.Errorf("configuration: %w", err))
	}
	if a.user != "" {
		conf.CurrentUser = a.user
	}
	if a.locale != "" {
		conf.Locale = a.locale
	}
	if opts.Repository == nil {
		opts.Repository = a.repo
	}

	a.closers = append(a.closers, func(context.Context) error {
		conf.Unload()
		return nil
	})
	shutdown, err := tracing.Setup(context.Background(), conf.OpenTelemetry, conf.Logger())
	if err != nil {
		return nil, nil, withCode(exitUsage, err)
	}
	a.closers = append(a.closers, shutdown)

	m, err := orders.New(conf, opts)
	if err != nil {
		return nil, nil, withCode(exitUsage, err)
	}
	printer := &notificationPrinter{w: a.stderr}
	m.Bus.Subscribe(printer.handle)
	return m, printer, nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "order-explorer",
		Short:         "Browse service orders and approve or deny their requests",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)

	cmd.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", []string{".env", ".env.local"}, "Env files to load")
	cmd.PersistentFlags().StringVar(&a.user, "user", "", "Act as this user (default CURRENT_USER)")
	cmd.PersistentFlags().StringVar(&a.locale, "locale", "",
		fmt.Sprintf("Display locale, one of %s (default LOCALE)", strings.Join(intl.LanguageCodes(intl.GetSupportedLanguages(nil)), ", ")))

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newCountCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newProcessCmd(a, explorer.ActionApprove))
	cmd.AddCommand(newProcessCmd(a, explorer.ActionDeny))
	cmd.AddCommand(newWatchCmd(a))
	return cmd
}

// close flushes what session set up.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, shutdown := range a.closers {
		if err := shutdown(ctx); err != nil {
			fmt.Fprintln(a.stderr, "shutdown:", err.Error())
		}
	}
	a.closers = nil
}

func Execute() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(exitCode(err))
	}
}
