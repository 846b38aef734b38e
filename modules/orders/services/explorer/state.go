package explorer

import (
	"slices"

	"github.com/tiendc/go-deepcopy"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/session"
)

// State is a snapshot of the explorer view. Snapshots are never modified
// after they are handed out; every mutation produces a new one.
type State struct {
	CurrentUser session.User `json:"currentUser"`
	Loading     bool         `json:"loading"`

	// Orders is the last successfully fetched page; OrdersList is the
	// working copy that is displayed and selected from.
	Orders     []*order.Order `json:"orders"`
	OrdersList []*order.Order `json:"ordersList"`

	Limit        int   `json:"limit"`
	Offset       int   `json:"offset"`
	LimitOptions []int `json:"limitOptions"`
	FilterCount  int64 `json:"filterCount"`

	SelectedItems      []*order.ServiceRequest `json:"selectedItemsList"`
	SelectedItemsCount int                     `json:"selectedItemsListCount"`

	ToolbarConfig      ToolbarConfig `json:"toolbarConfig"`
	ListConfig         ListConfig    `json:"listConfig"`
	ExpandedListConfig ListConfig    `json:"expandedListConfig"`
	// ActionConfig is nil when the user may not approve or deny requests.
	ActionConfig []ActionGroup `json:"actionConfig,omitempty"`
}

// Page is the 1-based page of the current offset.
func (s State) Page() int {
	if s.Limit <= 0 {
		return 1
	}
	return s.Offset/s.Limit + 1
}

// StateChanged is published on the event bus after every mutation.
type StateChanged struct {
	State State
}

// Clone copies s. Selected items in the copy point into the copied
// OrdersList when they belong to it.
func (s State) Clone() State {
	c := s
	c.Orders = cloneOrders(s.Orders)

	copies := make(map[*order.ServiceRequest]*order.ServiceRequest)
	if s.OrdersList != nil {
		c.OrdersList = make([]*order.Order, len(s.OrdersList))
		for i, o := range s.OrdersList {
			c.OrdersList[i] = o.Clone()
			if o == nil {
				continue
			}
			for j, sr := range o.ServiceRequests {
				copies[sr] = c.OrdersList[i].ServiceRequests[j]
			}
		}
	}

	if s.SelectedItems != nil {
		c.SelectedItems = make([]*order.ServiceRequest, len(s.SelectedItems))
		for i, sr := range s.SelectedItems {
			if cp, ok := copies[sr]; ok {
				c.SelectedItems[i] = cp
			} else {
				c.SelectedItems[i] = sr.Clone()
			}
		}
	}

	c.LimitOptions = slices.Clone(s.LimitOptions)
	c.ToolbarConfig = copyConfig(s.ToolbarConfig)
	if s.ActionConfig != nil {
		c.ActionConfig = copyConfig(s.ActionConfig)
	}
	return c
}

func cloneOrders(orders []*order.Order) []*order.Order {
	if orders == nil {
		return nil
	}
	out := make([]*order.Order, len(orders))
	for i, o := range orders {
		out[i] = o.Clone()
	}
	return out
}

func copyConfig[T any](src T) T {
	var dst T
	if err := deepcopy.Copy(&dst, &src); err != nil {
		return src
	}
	return dst
}
