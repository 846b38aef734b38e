package orders

import (
	"context"
	"embed"
	"io/fs"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/infrastructure/api"
	"github.com/iota-uz/order-explorer/modules/orders/services"
	"github.com/iota-uz/order-explorer/modules/orders/services/dialogs"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/authz"
	"github.com/iota-uz/order-explorer/pkg/configuration"
	"github.com/iota-uz/order-explorer/pkg/eventbus"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/modal"
	"github.com/iota-uz/order-explorer/pkg/notifications"
	"github.com/iota-uz/order-explorer/pkg/session"
)

//go:embed presentation/locales/*.json presentation/locales/*.toml
var localeFiles embed.FS

// LocaleFiles returns the embedded translation files.
func LocaleFiles() fs.FS {
	sub, err := fs.Sub(localeFiles, "presentation/locales")
	if err != nil {
		panic(err)
	}
	return sub
}

type Options struct {
	// Repository replaces the HTTP client built from configuration.
	Repository order.Repository
	// Session defaults to the configured CURRENT_USER.
	Session  session.Session
	Location *time.Location
	// Sort and Filters seed the shared orders state before the explorer
	// reads it.
	Sort     *order.Sort
	Filters  []order.Filter
	Explorer []explorer.Option
}

// Module wires the order explorer and its collaborators.
type Module struct {
	Config      *configuration.Configuration
	Bus         eventbus.EventBus
	Repository  order.Repository
	OrdersState *services.OrdersState
	Localizer   *intl.Localizer
	Dates       *intl.MediumDate
	Authz       *authz.Service
	Checker     *authz.CapabilityChecker
	Modals      *modal.Host
	Dialog      *dialogs.ProcessRequests
	Explorer    *explorer.Explorer
}

func New(conf *configuration.Configuration, opts Options) (*Module, error) {
	log := conf.Logger()
	if log == nil {
		log = logrus.StandardLogger()
	}

	repo := opts.Repository
	if repo == nil {
		client, err := api.NewFromConfig(conf)
		if err != nil {
			return nil, errors.Wrap(err, "orders api client")
		}
		repo = client
	}

	bundle, err := intl.NewBundle(LocaleFiles())
	if err != nil {
		return nil, errors.Wrap(err, "load locales")
	}
	locale := intl.MatchLocale(conf.Locale, intl.GetSupportedLanguages(conf.Languages))
	localizer := intl.NewLocalizer(bundle, locale)
	dates := intl.NewMediumDate(locale, opts.Location)

	authzSvc, err := authz.NewService(authz.ConfigFrom(conf))
	if err != nil {
		return nil, errors.Wrap(err, "authz")
	}

	sess := opts.Session
	if sess == nil {
		sess = session.Static{User: session.User{UserID: conf.CurrentUser, Name: conf.CurrentUser}}
	}
	checker := authzSvc.ForUser(sess.CurrentUser().UserID)

	bus := eventbus.NewEventPublisher(log)
	sink := notifications.NewBusSink(bus, log)
	host := modal.NewHost(bus, log)
	state := services.NewOrdersState(repo)
	if opts.Sort != nil {
		state.SetSort(opts.Sort.CurrentField, opts.Sort.IsAscending)
	}
	if len(opts.Filters) > 0 {
		state.SetFilters(opts.Filters)
	}

	explorerOpts := append([]explorer.Option{explorer.WithLimit(conf.PageSize)}, opts.Explorer...)
	exp, err := explorer.New(explorer.Dependencies{
		Orders:     state,
		Translator: localizer,
		Dates:      dates,
		Collator:   intl.NewCollator(locale),
		Notify:     sink,
		Session:    sess,
		RBAC:       checker,
		Modals:     host,
		Publisher:  bus,
		Logger:     log,
	}, explorerOpts...)
	if err != nil {
		return nil, err
	}

	dialog := dialogs.NewProcessRequests(state, sink, localizer, log)
	dialog.OnProcessed = func(ctx context.Context) {
		s := exp.State()
		if err := exp.ResolveOrders(ctx, s.Limit, s.Offset); err != nil {
			log.WithError(err).Warn("failed to reload orders after processing")
		}
	}
	dialog.Register(host)

	return &Module{
		Config:      conf,
		Bus:         bus,
		Repository:  repo,
		OrdersState: state,
		Localizer:   localizer,
		Dates:       dates,
		Authz:       authzSvc,
		Checker:     checker,
		Modals:      host,
		Dialog:      dialog,
		Explorer:    exp,
	}, nil
}
