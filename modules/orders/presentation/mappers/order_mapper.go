package mappers

import (
	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/intl"
)

var approvalStateTitles = map[order.ApprovalState]string{
	order.ApprovalPending:  "Pending Approval",
	order.ApprovalApproved: "Approved",
	order.ApprovalDenied:   "Denied",
}

func ServiceRequestToRow(sr *order.ServiceRequest, dates intl.DateFormatter, t intl.Translator) *viewmodels.ServiceRequestRow {
	state := string(sr.ApprovalState)
	if title, ok := approvalStateTitles[sr.ApprovalState]; ok {
		state = t.T(title)
	}
	row := &viewmodels.ServiceRequestRow{
		ID:            sr.ID.String(),
		Description:   sr.Description,
		ApprovalState: state,
		RequestState:  sr.RequestState,
		Selected:      sr.Selected,
	}
	if sr.CreatedOn != nil {
		row.CreatedOn = dates.FormatDate(*sr.CreatedOn)
	}
	return row
}

func OrderToRow(o *order.Order, dates intl.DateFormatter, t intl.Translator) *viewmodels.OrderRow {
	row := &viewmodels.OrderRow{
		ID:                o.ID.String(),
		Name:              o.Name,
		State:             o.State,
		RequestCount:      len(o.ServiceRequests),
		IsExpanded:        o.IsExpanded,
		ExpansionDisabled: o.DisableRowExpansion,
		Requests:          make([]*viewmodels.ServiceRequestRow, 0, len(o.ServiceRequests)),
	}
	if o.HasOrderDate() {
		row.OrderDate = dates.FormatDate(o.OrderDate())
	}
	for _, sr := range o.ServiceRequests {
		if sr != nil {
			row.Requests = append(row.Requests, ServiceRequestToRow(sr, dates, t))
		}
	}
	return row
}

func StateToOrdersPage(s explorer.State, dates intl.DateFormatter, t intl.Translator) *viewmodels.OrdersPageProps {
	props := &viewmodels.OrdersPageProps{
		Orders:        make([]*viewmodels.OrderRow, 0, len(s.OrdersList)),
		Page:          s.Page(),
		Limit:         s.Limit,
		FilterCount:   s.FilterCount,
		ResultsCount:  s.ToolbarConfig.FilterConfig.ResultsCount,
		Loading:       s.Loading,
		SelectedCount: s.SelectedItemsCount,
		CanApprove:    s.ListConfig.ShowSelectBox,
		SortField:     s.ToolbarConfig.SortConfig.CurrentField.ID,
		SortAscending: s.ToolbarConfig.SortConfig.IsAscending,
	}
	for _, o := range s.OrdersList {
		props.Orders = append(props.Orders, OrderToRow(o, dates, t))
	}
	return props
}
