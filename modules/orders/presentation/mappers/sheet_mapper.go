package mappers

import (
	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
	"github.com/iota-uz/order-explorer/pkg/excel"
	"github.com/iota-uz/order-explorer/pkg/intl"
)

// OrdersPageToSheet flattens a page into one row per service request.
// Orders without requests still get a row with empty request cells.
func OrdersPageToSheet(props *viewmodels.OrdersPageProps, t intl.Translator) excel.Sheet {
	sheet := excel.Sheet{
		Name: t.T("Orders"),
		Headers: []string{
			t.T("Order ID"),
			t.T("Name"),
			t.T("Order Date"),
			t.T("Request ID"),
			t.T("Description"),
			t.T("Approval State"),
			t.T("Request State"),
		},
	}
	for _, o := range props.Orders {
		if len(o.Requests) == 0 {
			sheet.Rows = append(sheet.Rows, []any{o.ID, o.Name, o.OrderDate, "", "", "", ""})
			continue
		}
		for _, sr := range o.Requests {
			sheet.Rows = append(sheet.Rows, []any{
				o.ID, o.Name, o.OrderDate, sr.ID, sr.Description, sr.ApprovalState, sr.RequestState,
			})
		}
	}
	return sheet
}
