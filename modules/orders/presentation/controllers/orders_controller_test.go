package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
	"github.com/iota-uz/order-explorer/modules/orders/services"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/httpapi"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/modal"
	"github.com/iota-uz/order-explorer/pkg/session"
)

type pagedRepo struct {
	offsets []int
}

func (r *pagedRepo) List(_ context.Context, params *order.FindParams) (*order.Page, error) {
	r.offsets = append(r.offsets, params.Offset)
	return &order.Page{Resources: []*order.Order{{ID: order.ID("o" + strconv.Itoa(params.Offset))}}}, nil
}

func (r *pagedRepo) Count(context.Context, []order.Filter) (int64, error) { return 100, nil }

func (r *pagedRepo) Process(context.Context, order.Action, []order.ID, string) error { return nil }

type nopSink struct{}

func (nopSink) Error(string)   {}
func (nopSink) Success(string) {}

type nopModals struct{}

func (nopModals) Open(modal.Options) uuid.UUID { return uuid.Nil }

type allow struct{}

func (allow) Has(string) bool { return true }

func newRouter(t *testing.T) (*mux.Router, *pagedRepo) {
	t.Helper()
	repo := &pagedRepo{}
	e, err := explorer.New(explorer.Dependencies{
		Orders:  services.NewOrdersState(repo),
		Notify:  nopSink{},
		Session: session.Static{},
		RBAC:    allow{},
		Modals:  nopModals{},
	})
	require.NoError(t, err)
	require.NoError(t, e.Init(context.Background()))

	c := NewOrdersController(e, intl.NewMediumDate(language.English, time.UTC), intl.Identity{}, nil)
	r := mux.NewRouter()
	c.Register(r)
	return r, repo
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) viewmodels.OrdersPageProps {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code)
	var props viewmodels.OrdersPageProps
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&props))
	return props
}

func TestOrdersController_Get(t *testing.T) {
	r, _ := newRouter(t)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/orders", nil))

	props := decode(t, rec)
	require.Len(t, props.Orders, 1)
	require.Equal(t, 1, props.Page)
	require.Equal(t, int64(100), props.FilterCount)
	require.True(t, props.CanApprove)
}

func TestOrdersController_Refresh(t *testing.T) {
	r, repo := newRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/refresh?page=3", nil))
	props := decode(t, rec)
	require.Equal(t, 3, props.Page)
	require.Equal(t, []int{0, 40}, repo.offsets)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/refresh", nil))
	require.Equal(t, 3, decode(t, rec).Page)

	// (2^62) * 20 wraps to offset 0
	for _, raw := range []string{"x", "0", "4611686018427387905"} {
		rec = httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/orders/refresh?page="+raw, nil))
		require.Equal(t, http.StatusBadRequest, rec.Code, raw)
		var env httpapi.ErrorEnvelope
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
		require.Equal(t, httpapi.CodeInvalidRequest, env.Code)
	}
	require.Equal(t, []int{0, 40, 40}, repo.offsets)
}
