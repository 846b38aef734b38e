package explorer

import (
	"cmp"
	"context"
	"math"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/configuration"
	"github.com/iota-uz/order-explorer/pkg/intl"
)

// CompareOrders orders a and b by the current sort field. Names use the
// locale collation, ids compare numerically and dates use placed_at with a
// fallback to updated_at. The result is negated for descending sorts.
func (e *Explorer) CompareOrders(a, b *order.Order) int {
	e.mu.Lock()
	sort := e.state.ToolbarConfig.SortConfig
	e.mu.Unlock()
	return e.compare(sort.CurrentField.ID, sort.IsAscending, a, b)
}

func (e *Explorer) compare(field string, ascending bool, a, b *order.Order) int {
	var v int
	switch field {
	case FieldName:
		v = sign(e.collator.Compare(a.Name, b.Name))
	case FieldID:
		v = compareIDs(a.ID, b.ID)
	case FieldPlacedAt:
		v = a.OrderDate().Compare(b.OrderDate())
	}
	if !ascending {
		v = -v
	}
	return v
}

func compareIDs(a, b order.ID) int {
	x, okA := a.Int64()
	y, okB := b.Int64()
	switch {
	case okA && okB:
		return cmp.Compare(x, y)
	case okA:
		return -1
	case okB:
		return 1
	}
	return strings.Compare(string(a), string(b))
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// MatchesFilter reports whether o contains the filter value, ignoring
// case, in the field named by the filter. Unknown fields match nothing.
func (e *Explorer) MatchesFilter(o *order.Order, f order.Filter) bool {
	needle := intl.Fold(f.Value)
	switch f.ID {
	case FieldName:
		return strings.Contains(intl.Fold(o.Name), needle)
	case FieldID:
		return strings.Contains(intl.Fold(o.ID.String()), needle)
	case FieldPlacedAt:
		var formatted string
		if o.HasOrderDate() {
			formatted = e.dates.FormatDate(o.OrderDate())
		}
		return strings.Contains(intl.Fold(formatted), needle)
	}
	return false
}

// FilterChange applies filters to the loaded page, stores them in the
// shared orders state and fetches the first page again.
func (e *Explorer) FilterChange(ctx context.Context, filters []order.Filter) error {
	e.mu.Lock()
	source := e.state.Orders
	e.mu.Unlock()

	filtered := e.applyFilters(filters, source, e.orders, e.MatchesFilter)

	e.update(func(s *State) {
		s.OrdersList = cloneOrders(filtered)
		s.SelectedItems = nil
		s.SelectedItemsCount = 0
		s.ToolbarConfig.FilterConfig.AppliedFilters = slices.Clone(filters)
	})
	return e.ResolveOrders(ctx, e.Limit(), 0)
}

// SortChange stores the new sort and fetches the first page again.
func (e *Explorer) SortChange(ctx context.Context, fieldID string, ascending bool) error {
	e.mu.Lock()
	field, ok := findSortField(e.state.ToolbarConfig.SortConfig.Fields, fieldID)
	e.mu.Unlock()
	if !ok {
		return errors.Wrap(ErrUnknownSortField, fieldID)
	}

	e.orders.SetSort(toOrderSortField(field), ascending)
	e.update(func(s *State) {
		s.ToolbarConfig.SortConfig.CurrentField = field
		s.ToolbarConfig.SortConfig.IsAscending = ascending
	})
	return e.ResolveOrders(ctx, e.Limit(), 0)
}

// SortPage re-sorts the working copy with CompareOrders.
func (e *Explorer) SortPage() {
	e.update(func(s *State) {
		sort := s.ToolbarConfig.SortConfig
		slices.SortStableFunc(s.OrdersList, func(a, b *order.Order) int {
			return e.compare(sort.CurrentField.ID, sort.IsAscending, a, b)
		})
	})
}

// SetLimit changes the page size and fetches the first page.
func (e *Explorer) SetLimit(ctx context.Context, limit int) error {
	if !slices.Contains(configuration.PageSizeOptions, limit) {
		return errors.Wrapf(order.ErrInvalidPage, "limit %d is not a page size option", limit)
	}
	e.update(func(s *State) {
		s.Limit = limit
	})
	return e.ResolveOrders(ctx, limit, 0)
}

// ChangePage fetches the given 1-based page with the current page size.
func (e *Explorer) ChangePage(ctx context.Context, page int) error {
	limit := e.Limit()
	if page < 1 || page-1 > math.MaxInt/limit {
		return errors.Wrapf(order.ErrInvalidPage, "page %d", page)
	}
	return e.ResolveOrders(ctx, limit, (page-1)*limit)
}
