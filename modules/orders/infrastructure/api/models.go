package api

import (
	"encoding/json"
	"time"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
)

type serviceRequestModel struct {
	ID            order.ID   `json:"id"`
	Href          string     `json:"href,omitempty"`
	Description   string     `json:"description"`
	ApprovalState string     `json:"approval_state"`
	RequestState  string     `json:"request_state"`
	CreatedOn     *time.Time `json:"created_on,omitempty"`
}

type serviceOrderModel struct {
	ID              order.ID               `json:"id"`
	Href            string                 `json:"href,omitempty"`
	Name            string                 `json:"name"`
	State           string                 `json:"state"`
	PlacedAt        *time.Time             `json:"placed_at,omitempty"`
	UpdatedAt       *time.Time             `json:"updated_at,omitempty"`
	ServiceRequests *[]serviceRequestModel `json:"service_requests,omitempty"`
}

type collectionModel struct {
	Name     string `json:"name"`
	Count    int64  `json:"count"`
	Subcount int64  `json:"subcount"`
	// Resources are decoded one by one so a single bad record does not
	// fail the page.
	Resources []json.RawMessage `json:"resources"`
}

type actionResourceModel struct {
	ID     order.ID `json:"id"`
	Reason string   `json:"reason,omitempty"`
}

type actionRequestModel struct {
	Action    order.Action          `json:"action"`
	Resources []actionResourceModel `json:"resources"`
}

type actionResultModel struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Href    string `json:"href,omitempty"`
}

type actionResponseModel struct {
	Results []actionResultModel `json:"results"`
}

type errorModel struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
		Klass   string `json:"klass"`
	} `json:"error"`
}
