package explorer

import (
	"github.com/go-faster/errors"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

// SelectionChange toggles every request of an order row and rebuilds the
// selection from the selected requests of all loaded orders.
func (e *Explorer) SelectionChange(orderID order.ID) error {
	var found bool
	e.update(func(s *State) {
		o := findOrder(s.OrdersList, orderID)
		if o == nil {
			return
		}
		found = true
		for _, sr := range o.ServiceRequests {
			if sr != nil {
				sr.Selected = !sr.Selected
			}
		}
		s.SelectedItems = collectSelected(s.OrdersList)
		s.SelectedItemsCount = len(s.SelectedItems)
	})
	if !found {
		return errors.Wrap(ErrUnknownOrder, orderID.String())
	}
	return nil
}

// ExtendedSelectionChange adds a request to the selection, or removes it
// when it is already there. The request's selected flag is left alone.
func (e *Explorer) ExtendedSelectionChange(requestID order.ID) error {
	return e.toggleRequest(requestID, false)
}

// SelectItem flips a request's selected flag and toggles its membership
// in the selection.
func (e *Explorer) SelectItem(requestID order.ID) error {
	return e.toggleRequest(requestID, true)
}

func (e *Explorer) toggleRequest(requestID order.ID, flip bool) error {
	var found bool
	e.update(func(s *State) {
		sr := findRequest(s.OrdersList, requestID)
		if sr == nil {
			return
		}
		found = true
		if flip {
			sr.Selected = !sr.Selected
		}
		if i := indexOf(s.SelectedItems, sr); i >= 0 {
			s.SelectedItems = append(s.SelectedItems[:i:i], s.SelectedItems[i+1:]...)
		} else {
			s.SelectedItems = append(s.SelectedItems, sr)
		}
		s.SelectedItemsCount = len(s.SelectedItems)
	})
	if !found {
		return errors.Wrap(ErrUnknownRequest, requestID.String())
	}
	return nil
}

func findOrder(orders []*order.Order, id order.ID) *order.Order {
	for _, o := range orders {
		if o != nil && o.ID == id {
			return o
		}
	}
	return nil
}

func findRequest(orders []*order.Order, id order.ID) *order.ServiceRequest {
	for _, o := range orders {
		if o == nil {
			continue
		}
		if sr := o.FindRequest(id); sr != nil {
			return sr
		}
	}
	return nil
}

func collectSelected(orders []*order.Order) []*order.ServiceRequest {
	var selected []*order.ServiceRequest
	for _, o := range orders {
		if o == nil {
			continue
		}
		for _, sr := range o.ServiceRequests {
			if sr != nil && sr.Selected {
				selected = append(selected, sr)
			}
		}
	}
	return selected
}

func indexOf(items []*order.ServiceRequest, sr *order.ServiceRequest) int {
	for i, item := range items {
		if item == sr {
			return i
		}
	}
	return -1
}
