package explorer

import (
	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/listview"
)

// Sort and filter field ids understood by the order data service.
const (
	FieldName     = "name"
	FieldID       = "id"
	FieldPlacedAt = "placed_at"
)

// Action names used by the lifecycle action group.
const (
	ActionLifecycle = "lifecycle"
	ActionApprove   = "approve"
	ActionDeny      = "deny"
)

type SortConfig struct {
	Fields       []listview.SortField `json:"fields"`
	CurrentField listview.SortField   `json:"currentField"`
	IsAscending  bool                 `json:"isAscending"`
}

type FilterConfig struct {
	Fields         []listview.FilterField `json:"fields"`
	ResultsCount   int64                  `json:"resultsCount"`
	AppliedFilters []order.Filter         `json:"appliedFilters"`
}

type ActionsConfig struct {
	ActionsInclude bool `json:"actionsInclude"`
}

type ToolbarConfig struct {
	SortConfig    SortConfig    `json:"sortConfig"`
	FilterConfig  FilterConfig  `json:"filterConfig"`
	ActionsConfig ActionsConfig `json:"actionsConfig"`
}

// ListConfig configures either the order rows or the nested request rows.
type ListConfig struct {
	ShowSelectBox      bool   `json:"showSelectBox"`
	UseExpandingRows   bool   `json:"useExpandingRows"`
	SelectionMatchProp string `json:"selectionMatchProp"`
}

type ActionItem struct {
	Icon       string `json:"icon"`
	Name       string `json:"name"`
	ActionName string `json:"actionName"`
	Title      string `json:"title"`
	IsDisabled bool   `json:"isDisabled"`
}

type ActionGroup struct {
	Title      string       `json:"title"`
	ActionName string       `json:"actionName"`
	Name       string       `json:"name"`
	Icon       string       `json:"icon"`
	Actions    []ActionItem `json:"actions"`
	IsDisabled bool         `json:"isDisabled"`
}

func orderFilterFields(t intl.Translator) []listview.FilterField {
	return []listview.FilterField{
		listview.CreateFilterField(FieldName, t.T("Name"), t.T("Filter by Name"), listview.FilterText),
		listview.CreateFilterField(FieldID, t.T("Order ID"), t.T("Filter by ID"), listview.FilterText),
		listview.CreateFilterField(FieldPlacedAt, t.T("Order Date"), t.T("Filter by Order Date"), listview.FilterText),
	}
}

func orderSortFields(t intl.Translator) []listview.SortField {
	return []listview.SortField{
		listview.CreateSortField(FieldName, t.T("Name"), listview.SortAlpha),
		listview.CreateSortField(FieldID, t.T("Order ID"), listview.SortNumeric),
		listview.CreateSortField(FieldPlacedAt, t.T("Order Date"), listview.SortNumeric),
	}
}

func lifecycleActions(t intl.Translator) []ActionGroup {
	return []ActionGroup{
		{
			Title:      t.T("Lifecycle"),
			ActionName: ActionLifecycle,
			Name:       t.T("Lifecycle"),
			Icon:       "fa fa-recycle",
			Actions: []ActionItem{
				{Icon: "fa fa-check", Name: t.T("Approve"), ActionName: ActionApprove, Title: t.T("Approve")},
				{Icon: "fa fa-ban", Name: t.T("Deny"), ActionName: ActionDeny, Title: t.T("Deny")},
			},
		},
	}
}

func listConfig(canApprove bool) ListConfig {
	return ListConfig{
		ShowSelectBox:      canApprove,
		UseExpandingRows:   true,
		SelectionMatchProp: FieldID,
	}
}

func expandedListConfig(canApprove bool) ListConfig {
	return ListConfig{
		ShowSelectBox:      canApprove,
		SelectionMatchProp: FieldID,
	}
}

// bindSortField maps a persisted sort field onto the localized descriptor
// with the same id. Unknown ids are kept as they are.
func bindSortField(fields []listview.SortField, current order.SortField) listview.SortField {
	for _, f := range fields {
		if f.ID == current.ID {
			return f
		}
	}
	return listview.SortField{
		ID:       current.ID,
		Title:    current.Title,
		SortType: listview.SortType(current.SortType),
	}
}

func findSortField(fields []listview.SortField, id string) (listview.SortField, bool) {
	for _, f := range fields {
		if f.ID == id {
			return f, true
		}
	}
	return listview.SortField{}, false
}

func toOrderSortField(f listview.SortField) order.SortField {
	return order.SortField{ID: f.ID, Title: f.Title, SortType: string(f.SortType)}
}

// SortFieldFor returns the sort descriptor for a field id in the form the
// shared orders state stores it.
func SortFieldFor(id string) (order.SortField, bool) {
	f, ok := findSortField(orderSortFields(intl.Identity{}), id)
	if !ok {
		return order.SortField{}, false
	}
	return toOrderSortField(f), true
}
