package explorer

import (
	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/permissions"
	"github.com/iota-uz/order-explorer/pkg/modal"
)

// ProcessRequestsModal is the dialog that approves or denies requests.
const ProcessRequestsModal = "processRequestsModal"

// Resolve keys passed to the dialog.
const (
	ResolveRequests  = "requests"
	ResolveModalType = "modalType"
)

type ModalType string

const (
	ModalApprove ModalType = "approve"
	ModalDeny    ModalType = "deny"
	ModalInvalid ModalType = "invalid"
)

// ApproveRequests opens the processing dialog for the selected requests.
func (e *Explorer) ApproveRequests() uuid.UUID {
	return e.openProcessModal(ModalApprove)
}

// DenyRequests opens the processing dialog for the selected requests.
func (e *Explorer) DenyRequests() uuid.UUID {
	return e.openProcessModal(ModalDeny)
}

// RunAction dispatches an action by its action name.
func (e *Explorer) RunAction(actionName string) (uuid.UUID, error) {
	switch actionName {
	case ActionApprove:
		return e.ApproveRequests(), nil
	case ActionDeny:
		return e.DenyRequests(), nil
	}
	return uuid.Nil, errors.Wrap(ErrUnknownAction, actionName)
}

func (e *Explorer) openProcessModal(requested ModalType) uuid.UUID {
	return e.modals.Open(modal.Options{
		Component: ProcessRequestsModal,
		Resolve: map[string]modal.Resolver{
			ResolveRequests: func() any {
				return e.selectedItems()
			},
			ResolveModalType: func() any {
				return ModalTypeFor(e.selectedItems(), requested)
			},
		},
	})
}

func (e *Explorer) selectedItems() []*order.ServiceRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]*order.ServiceRequest, len(e.state.SelectedItems))
	for i, sr := range e.state.SelectedItems {
		items[i] = sr.Clone()
	}
	return items
}

// ModalTypeFor forces the invalid dialog when any request was already
// approved or denied.
func ModalTypeFor(items []*order.ServiceRequest, requested ModalType) ModalType {
	for _, sr := range items {
		if sr != nil && sr.ApprovalState.IsTerminal() {
			return ModalInvalid
		}
	}
	return requested
}

// ExpandRow toggles an order row open or closed. Rows without requests
// cannot be expanded and are left as they are.
func (e *Explorer) ExpandRow(orderID order.ID) error {
	var found bool
	e.update(func(s *State) {
		o := findOrder(s.OrdersList, orderID)
		if o == nil {
			return
		}
		found = true
		if !o.DisableRowExpansion {
			o.IsExpanded = !o.IsExpanded
		}
	})
	if !found {
		return errors.Wrap(ErrUnknownOrder, orderID.String())
	}
	return nil
}

// CheckApproval reports whether the user may select and process requests.
func (e *Explorer) CheckApproval() bool {
	for _, capability := range permissions.BulkActionCapabilities {
		if e.rbac.Has(capability) {
			return true
		}
	}
	return false
}
