package modal

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/pkg/eventbus"
)

// Resolver is evaluated lazily by the dialog host.
type Resolver func() any

type Options struct {
	Component string
	Resolve   map[string]Resolver
}

// Value evaluates the named resolver; nil when it is absent.
func (o Options) Value(key string) any {
	r, ok := o.Resolve[key]
	if !ok || r == nil {
		return nil
	}
	return r()
}

// Service opens dialogs.
type Service interface {
	Open(opts Options) uuid.UUID
}

// Opened is published on the event bus every time a dialog is opened.
type Opened struct {
	ID      uuid.UUID
	Options Options
}

// Component renders one kind of dialog.
type Component func(id uuid.UUID, opts Options)

// Host dispatches Open calls to registered components.
type Host struct {
	bus        eventbus.EventBus
	log        *logrus.Entry
	mu         sync.RWMutex
	components map[string]Component
}

func NewHost(bus eventbus.EventBus, log *logrus.Logger) *Host {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Host{
		bus:        bus,
		log:        log.WithField("component", "modal"),
		components: map[string]Component{},
	}
}

func (h *Host) Register(name string, component Component) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.components[name] = component
}

func (h *Host) Open(opts Options) uuid.UUID {
	id := uuid.New()
	if h.bus != nil {
		h.bus.Publish(&Opened{ID: id, Options: opts})
	}

	h.mu.RLock()
	component, ok := h.components[opts.Component]
	h.mu.RUnlock()
	if !ok {
		h.log.WithField("modal", opts.Component).Warn("no component registered for modal")
		return id
	}
	component(id, opts)
	return id
}
