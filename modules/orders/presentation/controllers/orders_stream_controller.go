package controllers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/mappers"
	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/eventbus"
	"github.com/iota-uz/order-explorer/pkg/intl"
)

const (
	MessagePage  = "page"
	MessagePatch = "patch"
)

// StreamMessage is one websocket frame. The first frame carries the full
// page, later frames carry the JSON Patch against the previous frame.
type StreamMessage struct {
	Type  string                      `json:"type"`
	Page  *viewmodels.OrdersPageProps `json:"page,omitempty"`
	Patch jsondiff.Patch              `json:"patch,omitempty"`
}

// OrdersStreamController pushes page changes to websocket clients.
type OrdersStreamController struct {
	explorer *explorer.Explorer
	bus      eventbus.EventBus
	dates    intl.DateFormatter
	t        intl.Translator
	log      *logrus.Entry
	basePath string
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[chan *viewmodels.OrdersPageProps]struct{}

	done      chan struct{}
	closeOnce sync.Once
}

func NewOrdersStreamController(
	e *explorer.Explorer,
	bus eventbus.EventBus,
	dates intl.DateFormatter,
	t intl.Translator,
	log *logrus.Logger,
) *OrdersStreamController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	c := &OrdersStreamController{
		explorer: e,
		bus:      bus,
		dates:    dates,
		t:        t,
		log:      log.WithField("component", "orders-stream"),
		basePath: "/orders/stream",
		clients:  map[chan *viewmodels.OrdersPageProps]struct{}{},
		done:     make(chan struct{}),
	}
	bus.Subscribe(c.onStateChanged)
	return c
}

func (c *OrdersStreamController) Key() string {
	return c.basePath
}

func (c *OrdersStreamController) Register(r *mux.Router) {
	r.HandleFunc(c.basePath, c.Stream).Methods(http.MethodGet)
}

// Close detaches from the event bus and ends every stream with a going-away
// close frame. Hijacked connections are not closed by http.Server.Shutdown.
func (c *OrdersStreamController) Close() {
	c.closeOnce.Do(func() {
		c.bus.Unsubscribe(c.onStateChanged)
		c.log.WithField("clients", c.Clients()).Info("closing order streams")
		close(c.done)
	})
}

func (c *OrdersStreamController) Clients() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// onStateChanged hands the newest page to every client. A client that has
// not consumed the previous page only gets the newest one.
func (c *OrdersStreamController) onStateChanged(ev *explorer.StateChanged) {
	page := mappers.StateToOrdersPage(ev.State, c.dates, c.t)
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.clients {
		select {
		case ch <- page:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- page
		}
	}
}

func (c *OrdersStreamController) subscribe() chan *viewmodels.OrdersPageProps {
	ch := make(chan *viewmodels.OrdersPageProps, 1)
	c.mu.Lock()
	c.clients[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

func (c *OrdersStreamController) unsubscribe(ch chan *viewmodels.OrdersPageProps) {
	c.mu.Lock()
	delete(c.clients, ch)
	c.mu.Unlock()
}

func (c *OrdersStreamController) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := c.subscribe()
	defer c.unsubscribe(updates)

	current := mappers.StateToOrdersPage(c.explorer.State(), c.dates, c.t)
	if err := conn.WriteJSON(StreamMessage{Type: MessagePage, Page: current}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
			return
		case next := <-updates:
			patch, err := mappers.PageChanges(current, next)
			if err != nil {
				c.log.WithError(err).Error("failed to diff orders page")
				continue
			}
			current = next
			if len(patch) == 0 {
				continue
			}
			if err := conn.WriteJSON(StreamMessage{Type: MessagePatch, Patch: patch}); err != nil {
				c.log.WithError(err).Debug("websocket client gone")
				return
			}
		}
	}
}
