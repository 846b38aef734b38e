package explorer

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

const (
	loadErrorMessage      = "There was an error loading orders."
	ignoredFiltersMessage = "Some filters could not be applied to the order list."
)

type pageRequest struct {
	Limit  int `validate:"gt=0"`
	Offset int `validate:"gte=0"`
}

// ResolveOrders fetches one page of orders with the current filters and
// sort. Only an invalid page request is returned as an error; a failed
// fetch is reported through the notification sink and the last list stays.
// A response that arrives after a newer one was applied is discarded.
func (e *Explorer) ResolveOrders(ctx context.Context, limit, offset int) error {
	if err := e.validate.Struct(pageRequest{Limit: limit, Offset: offset}); err != nil {
		return errors.Wrapf(order.ErrInvalidPage, "limit=%d offset=%d", limit, offset)
	}

	// Inputs are captured together with the sequence number so a later
	// sequence never carries older filters.
	var (
		seq     uint64
		filters []order.Filter
		sort    order.Sort
	)
	e.update(func(s *State) {
		filters = e.orders.GetFilters()
		sort = e.orders.GetSort()
		e.querySeq++
		seq = e.querySeq
		e.inflight++
		s.Loading = true
	})

	start := time.Now()
	page, err := e.orders.GetOrders(ctx, limit, offset, filters, sort.CurrentField, sort.IsAscending)
	latency := time.Since(start)

	var stale, failed bool
	e.update(func(s *State) {
		e.inflight--
		s.Loading = e.inflight > 0

		if seq < e.appliedQuery {
			stale = true
			return
		}
		if err != nil {
			failed = true
			return
		}
		e.appliedQuery = seq
		e.applyPage(s, page, offset)
	})

	log := e.log.WithField("seq", seq).WithField("limit", limit).WithField("offset", offset)
	switch {
	case stale:
		recordQuery(queryOrders, resultStale, latency)
		log.WithError(err).Debug("discarding stale orders response")
		return nil
	case failed:
		recordQuery(queryOrders, resultFailure, latency)
		log.WithError(err).Error("failed to load orders")
		e.notify.Error(e.t.T(loadErrorMessage))
		return nil
	}
	recordQuery(queryOrders, resultSuccess, latency)
	if page != nil && len(page.IgnoredFilters) > 0 {
		log.WithField("filters", page.IgnoredFilters).Warn("filters ignored by the data service")
		e.notify.Error(e.t.T(ignoredFiltersMessage))
	}

	e.GetFilterCount(ctx)
	return nil
}

func (e *Explorer) applyPage(s *State, page *order.Page, offset int) {
	var resources []*order.Order
	if page != nil {
		resources = page.Resources
	}

	orders := make([]*order.Order, 0, len(resources))
	for _, o := range resources {
		if o == nil || o.ID.IsZero() {
			continue
		}
		o.DisableRowExpansion = len(o.ServiceRequests) == 0
		orders = append(orders, o)
	}

	s.Orders = orders
	s.OrdersList = cloneOrders(orders)
	s.Offset = offset
	s.SelectedItems = nil
	s.SelectedItemsCount = 0
	s.ToolbarConfig.FilterConfig.ResultsCount = s.FilterCount
}

// GetFilterCount runs the count-only query with the current filters and
// stores the filtered subcount.
func (e *Explorer) GetFilterCount(ctx context.Context) {
	e.mu.Lock()
	filters := e.orders.GetFilters()
	e.countSeq++
	seq := e.countSeq
	e.mu.Unlock()

	start := time.Now()
	count, err := e.orders.GetMinimal(ctx, filters)
	latency := time.Since(start)

	var (
		stale    bool
		snapshot State
	)
	e.mu.Lock()
	switch {
	case seq < e.appliedCount:
		stale = true
	case err == nil:
		e.appliedCount = seq
		e.state.FilterCount = count
		snapshot = e.state.Clone()
	}
	e.mu.Unlock()

	log := e.log.WithField("seq", seq)
	switch {
	case stale:
		recordQuery(queryCount, resultStale, latency)
		log.WithError(err).Debug("discarding stale count response")
	case err != nil:
		recordQuery(queryCount, resultFailure, latency)
		log.WithError(err).Error("failed to count orders")
		e.notify.Error(e.t.T(loadErrorMessage))
	default:
		recordQuery(queryCount, resultSuccess, latency)
		e.publish(snapshot)
	}
}
