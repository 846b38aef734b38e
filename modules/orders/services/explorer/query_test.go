package explorer

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/session"
)

func TestInit_RendersWellFormedOrders(t *testing.T) {
	f := newFixture(t, approver())
	f.repo.returns(samplePage(), nil)
	f.repo.count = func(context.Context, []order.Filter) (int64, error) { return 4, nil }

	require.NoError(t, f.explorer.Init(context.Background()))

	calls := f.repo.calls()
	require.Len(t, calls, 1)
	require.Equal(t, DefaultLimit, calls[0].Limit)
	require.Zero(t, calls[0].Offset)
	require.Equal(t, FieldPlacedAt, calls[0].SortField.ID)
	require.False(t, calls[0].Ascending)

	s := f.explorer.State()
	require.False(t, s.Loading)

	ids := make([]order.ID, 0, len(s.OrdersList))
	expansion := map[order.ID]bool{}
	for _, o := range s.OrdersList {
		ids = append(ids, o.ID)
		expansion[o.ID] = o.DisableRowExpansion
	}
	require.Equal(t, []order.ID{"1", "2", "1042", "3"}, ids)
	require.Equal(t, map[order.ID]bool{"1": false, "2": true, "1042": false, "3": true}, expansion)
	require.Len(t, s.Orders, 4)

	require.Equal(t, int64(4), s.FilterCount)
	// the toolbar shows the count known when the page arrived
	require.Zero(t, s.ToolbarConfig.FilterConfig.ResultsCount)

	require.NoError(t, f.explorer.ResolveOrders(context.Background(), DefaultLimit, 0))
	require.Equal(t, int64(4), f.explorer.State().ToolbarConfig.FilterConfig.ResultsCount)
	require.Zero(t, f.sink.errorCount())
}

func TestResolveOrders_WorkingCopyIsIndependent(t *testing.T) {
	f := newFixture(t, approver())
	f.repo.returns(samplePage(), nil)
	require.NoError(t, f.explorer.Init(context.Background()))

	require.NoError(t, f.explorer.ExpandRow("1"))
	s := f.explorer.State()
	require.True(t, s.OrdersList[0].IsExpanded)
	require.False(t, s.Orders[0].IsExpanded)
}

func TestResolveOrders_InvalidPage(t *testing.T) {
	f := newFixture(t, approver())

	for _, tc := range []struct {
		name          string
		limit, offset int
	}{
		{"zero limit", 0, 0},
		{"negative limit", -5, 0},
		{"negative offset", 20, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := f.explorer.ResolveOrders(context.Background(), tc.limit, tc.offset)
			require.ErrorIs(t, err, order.ErrInvalidPage)
		})
	}
	require.Empty(t, f.repo.calls())
}

func TestResolveOrders_LoadingWhileInFlight(t *testing.T) {
	f := newFixture(t, approver())
	started := make(chan struct{})
	release := make(chan struct{})
	f.repo.list = func(context.Context, *order.FindParams) (*order.Page, error) {
		close(started)
		<-release
		return samplePage(), nil
	}

	var loadingEvents []bool
	f.bus.Subscribe(func(ev *StateChanged) {
		loadingEvents = append(loadingEvents, ev.State.Loading)
	})

	done := make(chan error, 1)
	go func() { done <- f.explorer.ResolveOrders(context.Background(), 20, 0) }()

	<-started
	require.True(t, f.explorer.State().Loading)

	close(release)
	require.NoError(t, <-done)
	require.False(t, f.explorer.State().Loading)
	require.Len(t, f.explorer.State().OrdersList, 4)

	require.NotEmpty(t, loadingEvents)
	require.True(t, loadingEvents[0])
	require.False(t, loadingEvents[len(loadingEvents)-1])
}

func TestResolveOrders_FailureKeepsLastList(t *testing.T) {
	f := newFixture(t, approver())
	f.repo.returns(samplePage(), nil)
	require.NoError(t, f.explorer.Init(context.Background()))
	before := f.explorer.State()

	f.repo.returns(nil, errors.New("connection refused"))
	require.NoError(t, f.explorer.ResolveOrders(context.Background(), 20, 20))

	after := f.explorer.State()
	require.False(t, after.Loading)
	require.Equal(t, before.OrdersList, after.OrdersList)
	require.Equal(t, before.Offset, after.Offset)
	require.Equal(t, 1, f.sink.errorCount())
	require.Equal(t, []string{"There was an error loading orders."}, f.sink.errors)
}

func TestGetFilterCount_FailureNotifies(t *testing.T) {
	f := newFixture(t, approver())
	f.repo.returns(samplePage(), nil)
	f.repo.count = func(context.Context, []order.Filter) (int64, error) {
		return 0, errors.New("timeout")
	}

	require.NoError(t, f.explorer.Init(context.Background()))
	require.Equal(t, 1, f.sink.errorCount())
	require.Len(t, f.explorer.State().OrdersList, 4)
}

func TestGetFilterCount_UsesCurrentFilters(t *testing.T) {
	f := newFixture(t, approver())
	var got []order.Filter
	f.repo.count = func(_ context.Context, filters []order.Filter) (int64, error) {
		got = filters
		return 9, nil
	}
	f.state.SetFilters([]order.Filter{{ID: FieldID, Value: "42"}})

	f.explorer.GetFilterCount(context.Background())
	require.Equal(t, []order.Filter{{ID: FieldID, Value: "42"}}, got)
	require.Equal(t, int64(9), f.explorer.State().FilterCount)
}

func TestResolveOrders_DiscardsStaleResponse(t *testing.T) {
	f := newFixture(t, approver())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f.repo.list = func(_ context.Context, params *order.FindParams) (*order.Page, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return &order.Page{Resources: []*order.Order{{ID: "old"}}}, errors.New("late failure")
		}
		return &order.Page{Resources: []*order.Order{{ID: "new"}}}, nil
	}

	done := make(chan error, 1)
	go func() { done <- f.explorer.ResolveOrders(context.Background(), 20, 0) }()
	<-started

	require.NoError(t, f.explorer.ResolveOrders(context.Background(), 20, 40))
	s := f.explorer.State()
	require.True(t, s.Loading, "first request is still in flight")
	require.Equal(t, order.ID("new"), s.OrdersList[0].ID)

	close(release)
	require.NoError(t, <-done)

	s = f.explorer.State()
	require.False(t, s.Loading)
	require.Len(t, s.OrdersList, 1)
	require.Equal(t, order.ID("new"), s.OrdersList[0].ID)
	require.Equal(t, 40, s.Offset)
	require.Zero(t, f.sink.errorCount())
}

func TestGetFilterCount_DiscardsStaleResponse(t *testing.T) {
	f := newFixture(t, approver())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f.repo.count = func(context.Context, []order.Filter) (int64, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return 1, nil
		}
		return 2, nil
	}

	done := make(chan struct{})
	go func() {
		f.explorer.GetFilterCount(context.Background())
		close(done)
	}()
	<-started

	f.explorer.GetFilterCount(context.Background())
	close(release)
	<-done

	require.Equal(t, int64(2), f.explorer.State().FilterCount)
}

// gatedFilters holds the first armed GetFilters call after it has read the
// filters, until release is closed.
type gatedFilters struct {
	OrdersState
	armed    atomic.Bool
	captured chan struct{}
	release  chan struct{}
}

func (g *gatedFilters) GetFilters() []order.Filter {
	filters := g.OrdersState.GetFilters()
	if g.armed.CompareAndSwap(true, false) {
		close(g.captured)
		<-g.release
	}
	return filters
}

func TestResolveOrders_LatestFiltersWin(t *testing.T) {
	f := newFixture(t, approver())
	f.state.SetFilters([]order.Filter{{ID: FieldName, Value: "old"}})
	f.repo.list = func(_ context.Context, params *order.FindParams) (*order.Page, error) {
		name := "none"
		if len(params.Filters) > 0 {
			name = params.Filters[0].Value
		}
		return &order.Page{Resources: []*order.Order{{ID: "1", Name: name}}}, nil
	}

	gate := &gatedFilters{
		OrdersState: f.state,
		captured:    make(chan struct{}),
		release:     make(chan struct{}),
	}
	e, err := New(Dependencies{
		Orders:    gate,
		Notify:    f.sink,
		Session:   session.Static{User: session.User{UserID: "admin"}},
		RBAC:      approver(),
		Modals:    f.modals,
		Publisher: f.bus,
	})
	require.NoError(t, err)

	gate.armed.Store(true)
	first := make(chan error, 1)
	go func() { first <- e.ResolveOrders(context.Background(), 20, 0) }()
	<-gate.captured

	second := make(chan error, 1)
	go func() {
		second <- e.FilterChange(context.Background(), []order.Filter{{ID: FieldName, Value: "new"}})
	}()
	select {
	case err := <-second:
		require.NoError(t, err)
		second <- nil
	case <-time.After(100 * time.Millisecond):
	}

	close(gate.release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)

	s := e.State()
	require.Equal(t, []order.Filter{{ID: FieldName, Value: "new"}}, f.state.GetFilters())
	require.Equal(t, "new", s.OrdersList[0].Name)
	require.Zero(t, f.sink.errorCount())
}

func TestResolveOrders_StaleFailureIsSilent(t *testing.T) {
	f := newFixture(t, approver())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f.repo.list = func(context.Context, *order.FindParams) (*order.Page, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return nil, errors.New("gateway timeout")
		}
		return samplePage(), nil
	}

	done := make(chan error, 1)
	go func() { done <- f.explorer.ResolveOrders(context.Background(), 20, 0) }()
	<-started
	require.NoError(t, f.explorer.ResolveOrders(context.Background(), 20, 20))

	close(release)
	require.NoError(t, <-done)

	s := f.explorer.State()
	require.Len(t, s.OrdersList, 4)
	require.Equal(t, 20, s.Offset)
	require.Zero(t, f.sink.errorCount())
}

func TestGetFilterCount_StaleFailureIsSilent(t *testing.T) {
	f := newFixture(t, approver())
	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	f.repo.count = func(context.Context, []order.Filter) (int64, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
			return 0, errors.New("gateway timeout")
		}
		return 7, nil
	}

	done := make(chan struct{})
	go func() {
		f.explorer.GetFilterCount(context.Background())
		close(done)
	}()
	<-started
	f.explorer.GetFilterCount(context.Background())
	close(release)
	<-done

	require.Equal(t, int64(7), f.explorer.State().FilterCount)
	require.Zero(t, f.sink.errorCount())
}

func TestResolveOrders_NotifiesIgnoredFilters(t *testing.T) {
	f := newFixture(t, approver())
	page := samplePage()
	page.IgnoredFilters = []order.Filter{{ID: FieldPlacedAt, Value: "Mar"}}
	f.repo.returns(page, nil)

	require.NoError(t, f.explorer.Init(context.Background()))
	require.Len(t, f.explorer.State().OrdersList, 4)
	require.Equal(t, []string{"Some filters could not be applied to the order list."}, f.sink.errors)
}
