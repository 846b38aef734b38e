package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/iota-uz/order-explorer/modules/orders"
	"github.com/iota-uz/order-explorer/modules/orders/presentation/controllers"
	"github.com/iota-uz/order-explorer/modules/orders/presentation/mappers"
	"github.com/iota-uz/order-explorer/pkg/metrics"
	"github.com/iota-uz/order-explorer/pkg/middleware"
	"github.com/iota-uz/order-explorer/pkg/server"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		q        queryFlags
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Serve the current page over HTTP and refresh it periodically",
		Long: "Serve the current page over HTTP and refresh it periodically.\n" +
			"The first page is printed as JSON; every refresh that changes it prints one JSON Patch line.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := q.options()
			if err != nil {
				return err
			}
			if interval <= 0 {
				return withCode(exitUsage, errInvalidInterval)
			}
			m, _, err := a.session(opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := m.Explorer.ChangePage(ctx, q.page); err != nil {
				return withCode(exitUsage, err)
			}
			current := mappers.StateToOrdersPage(m.Explorer.State(), m.Dates, m.Localizer)
			if err := writeJSON(a.stdout, current); err != nil {
				return err
			}

			srv, err := newWatchServer(m)
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Start(ctx, addr)
			})
			g.Go(func() error {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				enc := json.NewEncoder(a.stdout)
				for {
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
						s := m.Explorer.State()
						if err := m.Explorer.ResolveOrders(ctx, s.Limit, s.Offset); err != nil {
							return err
						}
						next := mappers.StateToOrdersPage(m.Explorer.State(), m.Dates, m.Localizer)
						patch, err := mappers.PageChanges(current, next)
						if err != nil {
							return err
						}
						current = next
						if len(patch) == 0 {
							continue
						}
						if err := enc.Encode(patch); err != nil {
							return err
						}
					}
				}
			})
			return g.Wait()
		},
	}

	q.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Refresh interval")
	return cmd
}

func newWatchServer(m *orders.Module) (*server.HTTPServer, error) {
	log := m.Config.Logger()
	stream := controllers.NewOrdersStreamController(m.Explorer, m.Bus, m.Dates, m.Localizer, log)
	srv := server.NewHTTPServer(log,
		controllers.NewOrdersController(m.Explorer, m.Dates, m.Localizer, log),
		stream,
	)
	srv.OnShutdown = append(srv.OnShutdown, stream.Close)

	loggerOpts := middleware.DefaultLoggerOptions()
	if m.Config.RequestIDHeader != "" {
		loggerOpts.RequestIDHeader = m.Config.RequestIDHeader
	}
	srv.Middlewares = append(srv.Middlewares,
		middleware.WithLogger(log, loggerOpts),
		middleware.TracedMiddleware("cors"),
		middleware.Cors(m.Config.HTTP.AllowedOrigins...),
	)
	if m.Config.HTTP.RateLimitEnabled {
		store := middleware.NewMemoryStore()
		if m.Config.HTTP.RateLimitStorage == "redis" {
			redisStore, err := middleware.NewRedisStore(m.Config.HTTP.RedisURL)
			if err != nil {
				log.WithError(err).Warn("Failed to create Redis store for rate limiting, falling back to memory")
			} else {
				store = redisStore
			}
		}
		limit, err := middleware.RateLimit(middleware.RateLimitConfig{Rate: m.Config.HTTP.RateLimit, Store: store})
		if err != nil {
			stream.Close()
			return nil, withCode(exitValidation, err)
		}
		srv.Middlewares = append(srv.Middlewares, middleware.TracedMiddleware("rateLimit"), limit)
	}
	if m.Config.Prometheus.Enabled {
		srv.Controllers = append(srv.Controllers, metrics.NewPrometheusController(m.Config.Prometheus.Path, metrics.WithLogger(log)))
	}
	return srv, nil
}
