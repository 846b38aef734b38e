package services

import (
	"context"
	"slices"
	"sync"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

// DefaultSort orders the list by newest order date first.
var DefaultSort = order.Sort{
	CurrentField: order.SortField{ID: "placed_at", Title: "Order Date", SortType: "numeric"},
	IsAscending:  false,
}

// OrdersState is the sort and filter state shared by every order list view,
// together with the queries that use it.
type OrdersState struct {
	repo order.Repository

	mu            sync.RWMutex
	sort          order.Sort
	filters       []order.Filter
	filterApplied bool
}

func NewOrdersState(repo order.Repository) *OrdersState {
	return &OrdersState{
		repo: repo,
		sort: DefaultSort,
	}
}

func (s *OrdersState) GetOrders(
	ctx context.Context,
	limit, offset int,
	filters []order.Filter,
	sortField order.SortField,
	ascending bool,
) (*order.Page, error) {
	return s.repo.List(ctx, &order.FindParams{
		Limit:     limit,
		Offset:    offset,
		Filters:   slices.Clone(filters),
		SortField: sortField,
		Ascending: ascending,
	})
}

// GetMinimal runs the count-only query and returns the filtered subcount.
func (s *OrdersState) GetMinimal(ctx context.Context, filters []order.Filter) (int64, error) {
	return s.repo.Count(ctx, slices.Clone(filters))
}

func (s *OrdersState) GetSort() order.Sort {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

func (s *OrdersState) SetSort(field order.SortField, ascending bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = order.Sort{CurrentField: field, IsAscending: ascending}
}

func (s *OrdersState) GetFilters() []order.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.filters)
}

// SetFilters replaces the applied filters and marks them as applied.
func (s *OrdersState) SetFilters(filters []order.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = slices.Clone(filters)
	s.filterApplied = true
}

func (s *OrdersState) IsFilterApplied() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterApplied
}

// Process forwards an approve/deny transition to the data service.
func (s *OrdersState) Process(ctx context.Context, action order.Action, requests []order.ID, reason string) error {
	return s.repo.Process(ctx, action, requests, reason)
}
