package explorer

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/configuration"
	"github.com/iota-uz/order-explorer/pkg/eventbus"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/listview"
	"github.com/iota-uz/order-explorer/pkg/modal"
	"github.com/iota-uz/order-explorer/pkg/notifications"
	"github.com/iota-uz/order-explorer/pkg/session"
)

const DefaultLimit = 20

var (
	ErrMissingDependency = errors.New("explorer: missing dependency")
	ErrUnknownOrder      = errors.New("explorer: unknown order")
	ErrUnknownRequest    = errors.New("explorer: unknown service request")
	ErrUnknownSortField  = errors.New("explorer: unknown sort field")
	ErrUnknownAction     = errors.New("explorer: unknown action")
)

// OrdersState is the shared sort/filter holder and order data service.
type OrdersState interface {
	GetOrders(ctx context.Context, limit, offset int, filters []order.Filter, sortField order.SortField, ascending bool) (*order.Page, error)
	GetMinimal(ctx context.Context, filters []order.Filter) (int64, error)
	GetSort() order.Sort
	SetSort(field order.SortField, ascending bool)
	GetFilters() []order.Filter
	SetFilters(filters []order.Filter)
	IsFilterApplied() bool
}

// RBAC reports whether the current user holds a capability.
type RBAC interface {
	Has(capability string) bool
}

type Collator interface {
	Compare(a, b string) int
}

// FilterFunc applies filters to the source list, recording them on state.
type FilterFunc func(
	filters []order.Filter,
	source []*order.Order,
	state listview.FilterStore[order.Filter],
	match func(*order.Order, order.Filter) bool,
) []*order.Order

type Dependencies struct {
	Orders       OrdersState
	Translator   intl.Translator
	Dates        intl.DateFormatter
	Collator     Collator
	Notify       notifications.Sink
	Session      session.Session
	RBAC         RBAC
	Modals       modal.Service
	Publisher    eventbus.EventBus
	Logger       *logrus.Logger
	ApplyFilters FilterFunc
}

type Option func(*Explorer)

// WithLimit overrides the initial page size. Values outside
// configuration.PageSizeOptions are ignored.
func WithLimit(limit int) Option {
	return func(e *Explorer) {
		if slices.Contains(configuration.PageSizeOptions, limit) {
			e.state.Limit = limit
		}
	}
}

// Explorer is the order list view: it fetches pages of orders, tracks the
// selected service requests and opens the approve/deny dialog.
type Explorer struct {
	orders       OrdersState
	t            intl.Translator
	dates        intl.DateFormatter
	collator     Collator
	notify       notifications.Sink
	rbac         RBAC
	modals       modal.Service
	publisher    eventbus.EventBus
	log          *logrus.Entry
	applyFilters FilterFunc
	validate     *validator.Validate

	mu    sync.Mutex
	state State

	inflight     int
	querySeq     uint64
	appliedQuery uint64
	countSeq     uint64
	appliedCount uint64
}

func New(deps Dependencies, opts ...Option) (*Explorer, error) {
	if deps.Orders == nil {
		return nil, errors.Wrap(ErrMissingDependency, "orders state")
	}
	if deps.Notify == nil {
		return nil, errors.Wrap(ErrMissingDependency, "notification sink")
	}
	if deps.Session == nil {
		return nil, errors.Wrap(ErrMissingDependency, "session")
	}
	if deps.RBAC == nil {
		return nil, errors.Wrap(ErrMissingDependency, "rbac")
	}
	if deps.Modals == nil {
		return nil, errors.Wrap(ErrMissingDependency, "modal service")
	}
	if deps.Translator == nil {
		deps.Translator = intl.Identity{}
	}
	if deps.Dates == nil {
		deps.Dates = intl.NewMediumDate(intl.DefaultLocale, nil)
	}
	if deps.Collator == nil {
		deps.Collator = intl.NewCollator(intl.DefaultLocale)
	}
	if deps.ApplyFilters == nil {
		deps.ApplyFilters = listview.ApplyFilters[*order.Order, order.Filter]
	}
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	e := &Explorer{
		orders:       deps.Orders,
		t:            deps.Translator,
		dates:        deps.Dates,
		collator:     deps.Collator,
		notify:       deps.Notify,
		rbac:         deps.RBAC,
		modals:       deps.Modals,
		publisher:    deps.Publisher,
		log:          log.WithField("component", "order-explorer"),
		applyFilters: deps.ApplyFilters,
		validate:     validator.New(),
	}
	e.state = State{
		CurrentUser:  deps.Session.CurrentUser(),
		Orders:       []*order.Order{},
		OrdersList:   []*order.Order{},
		Limit:        DefaultLimit,
		LimitOptions: slices.Clone(configuration.PageSizeOptions),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.initConfig()
	return e, nil
}

func (e *Explorer) initConfig() {
	canApprove := e.CheckApproval()
	sortFields := orderSortFields(e.t)
	sort := e.orders.GetSort()

	var applied []order.Filter
	if e.orders.IsFilterApplied() {
		applied = e.orders.GetFilters()
	}

	e.state.ToolbarConfig = ToolbarConfig{
		SortConfig: SortConfig{
			Fields:       sortFields,
			CurrentField: bindSortField(sortFields, sort.CurrentField),
			IsAscending:  sort.IsAscending,
		},
		FilterConfig: FilterConfig{
			Fields:         orderFilterFields(e.t),
			AppliedFilters: applied,
		},
		ActionsConfig: ActionsConfig{ActionsInclude: canApprove},
	}
	e.state.ListConfig = listConfig(canApprove)
	e.state.ExpandedListConfig = expandedListConfig(canApprove)
	if canApprove {
		e.state.ActionConfig = lifecycleActions(e.t)
	}
}

// Init fetches the first page.
func (e *Explorer) Init(ctx context.Context) error {
	return e.ResolveOrders(ctx, e.Limit(), 0)
}

// State returns a snapshot of the current view.
func (e *Explorer) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

func (e *Explorer) Limit() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Limit
}

// update applies fn to the state under the lock and publishes the result.
func (e *Explorer) update(fn func(s *State)) State {
	e.mu.Lock()
	fn(&e.state)
	snapshot := e.state.Clone()
	e.mu.Unlock()

	e.publish(snapshot)
	return snapshot
}

func (e *Explorer) publish(snapshot State) {
	if e.publisher == nil {
		return
	}
	e.publisher.Publish(&StateChanged{State: snapshot})
}
