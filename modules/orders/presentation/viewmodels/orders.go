package viewmodels

type ServiceRequestRow struct {
	ID            string `json:"id"`
	Description   string `json:"description"`
	ApprovalState string `json:"approvalState"`
	RequestState  string `json:"requestState"`
	CreatedOn     string `json:"createdOn"`
	Selected      bool   `json:"selected"`
}

type OrderRow struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	State             string               `json:"state"`
	OrderDate         string               `json:"orderDate"`
	RequestCount      int                  `json:"requestCount"`
	IsExpanded        bool                 `json:"isExpanded"`
	ExpansionDisabled bool                 `json:"expansionDisabled"`
	Requests          []*ServiceRequestRow `json:"requests"`
}

type OrdersPageProps struct {
	Orders        []*OrderRow `json:"orders"`
	Page          int         `json:"page"`
	Limit         int         `json:"limit"`
	FilterCount   int64       `json:"filterCount"`
	ResultsCount  int64       `json:"resultsCount"`
	Loading       bool        `json:"loading"`
	SelectedCount int         `json:"selectedCount"`
	CanApprove    bool        `json:"canApprove"`
	SortField     string      `json:"sortField"`
	SortAscending bool        `json:"sortAscending"`
}
