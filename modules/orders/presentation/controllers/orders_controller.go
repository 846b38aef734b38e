package controllers

import (
	"net/http"

	"github.com/go-playground/form"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/mappers"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/httpapi"
	"github.com/iota-uz/order-explorer/pkg/intl"
)

// OrdersController exposes the explorer's current page as JSON.
type OrdersController struct {
	explorer *explorer.Explorer
	dates    intl.DateFormatter
	t        intl.Translator
	log      *logrus.Entry
	basePath string
}

func NewOrdersController(e *explorer.Explorer, dates intl.DateFormatter, t intl.Translator, log *logrus.Logger) *OrdersController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrdersController{
		explorer: e,
		dates:    dates,
		t:        t,
		log:      log.WithField("component", "orders-controller"),
		basePath: "/orders",
	}
}

func (c *OrdersController) Key() string {
	return c.basePath
}

func (c *OrdersController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/refresh", c.Refresh).Methods(http.MethodPost)
}

func (c *OrdersController) Get(w http.ResponseWriter, r *http.Request) {
	c.write(w)
}

type refreshQuery struct {
	Page *int `form:"page"`
}

var queryDecoder = form.NewDecoder()

// Refresh fetches a page again. The page defaults to the current one.
func (c *OrdersController) Refresh(w http.ResponseWriter, r *http.Request) {
	var q refreshQuery
	if err := queryDecoder.Decode(&q, r.URL.Query()); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest,
			httpapi.NewError(httpapi.CodeInvalidRequest, "invalid page").WithMeta("page", r.URL.Query().Get("page")))
		return
	}
	page := c.explorer.State().Page()
	if q.Page != nil {
		page = *q.Page
	}
	if err := c.explorer.ChangePage(r.Context(), page); err != nil {
		_ = httpapi.WriteError(w, http.StatusBadRequest, httpapi.NewError(httpapi.CodeInvalidRequest, err.Error()))
		return
	}
	c.write(w)
}

func (c *OrdersController) write(w http.ResponseWriter) {
	props := mappers.StateToOrdersPage(c.explorer.State(), c.dates, c.t)
	if err := httpapi.WriteJSON(w, http.StatusOK, props); err != nil {
		c.log.WithError(err).Error("failed to encode orders page")
	}
}
