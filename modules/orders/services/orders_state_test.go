package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

type mockRepo struct {
	lastParams  *order.FindParams
	lastFilters []order.Filter
	processed   []order.ID
	action      order.Action
}

func (m *mockRepo) List(ctx context.Context, params *order.FindParams) (*order.Page, error) {
	m.lastParams = params
	return &order.Page{Resources: []*order.Order{{ID: "1"}}}, nil
}

func (m *mockRepo) Count(ctx context.Context, filters []order.Filter) (int64, error) {
	m.lastFilters = filters
	return 7, nil
}

func (m *mockRepo) Process(ctx context.Context, action order.Action, requests []order.ID, reason string) error {
	m.action = action
	m.processed = requests
	return nil
}

func TestOrdersState_Defaults(t *testing.T) {
	state := NewOrdersState(&mockRepo{})
	require.Equal(t, DefaultSort, state.GetSort())
	require.Empty(t, state.GetFilters())
	require.False(t, state.IsFilterApplied())
}

func TestOrdersState_SortAndFilters(t *testing.T) {
	state := NewOrdersState(&mockRepo{})

	field := order.SortField{ID: "name", Title: "Name", SortType: "alpha"}
	state.SetSort(field, true)
	require.Equal(t, order.Sort{CurrentField: field, IsAscending: true}, state.GetSort())

	filters := []order.Filter{{ID: "name", Value: "ann"}}
	state.SetFilters(filters)
	require.True(t, state.IsFilterApplied())

	got := state.GetFilters()
	require.Equal(t, filters, got)
	got[0].Value = "mutated"
	require.Equal(t, "ann", state.GetFilters()[0].Value)
}

func TestOrdersState_ForwardsQueries(t *testing.T) {
	repo := &mockRepo{}
	state := NewOrdersState(repo)
	filters := []order.Filter{{ID: "id", Value: "42"}}
	field := order.SortField{ID: "id"}

	page, err := state.GetOrders(context.Background(), 20, 40, filters, field, true)
	require.NoError(t, err)
	require.Len(t, page.Resources, 1)
	require.Equal(t, &order.FindParams{Limit: 20, Offset: 40, Filters: filters, SortField: field, Ascending: true}, repo.lastParams)

	count, err := state.GetMinimal(context.Background(), filters)
	require.NoError(t, err)
	require.Equal(t, int64(7), count)
	require.Equal(t, filters, repo.lastFilters)

	require.NoError(t, state.Process(context.Background(), order.ActionDeny, []order.ID{"5"}, "no"))
	require.Equal(t, order.ActionDeny, repo.action)
	require.Equal(t, []order.ID{"5"}, repo.processed)
}
