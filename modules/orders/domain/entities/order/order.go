package order

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidPage = errors.New("invalid page request")
)

// ApprovalState is the lifecycle state of a service request.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending_approval"
	ApprovalApproved ApprovalState = "approved"
	ApprovalDenied   ApprovalState = "denied"
)

// IsTerminal reports whether a request was already approved or denied.
func (s ApprovalState) IsTerminal() bool {
	return s == ApprovalApproved || s == ApprovalDenied
}

// ID is a remote identifier. The API serialises ids as strings but older
// collections still return numbers, so both are accepted.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports a missing identifier.
func (id ID) IsZero() bool {
	return strings.TrimSpace(string(id)) == ""
}

// Int64 parses a numeric identifier.
func (id ID) Int64() (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(string(id)), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type ServiceRequest struct {
	ID            ID            `json:"id"`
	Description   string        `json:"description"`
	ApprovalState ApprovalState `json:"approval_state"`
	RequestState  string        `json:"request_state"`
	CreatedOn     *time.Time    `json:"created_on,omitempty"`
	Selected      bool          `json:"-"`
}

func (sr *ServiceRequest) Clone() *ServiceRequest {
	if sr == nil {
		return nil
	}
	c := *sr
	c.CreatedOn = cloneTime(sr.CreatedOn)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

type Order struct {
	ID              ID                `json:"id"`
	Name            string            `json:"name"`
	State           string            `json:"state"`
	PlacedAt        *time.Time        `json:"placed_at,omitempty"`
	UpdatedAt       *time.Time        `json:"updated_at,omitempty"`
	ServiceRequests []*ServiceRequest `json:"service_requests,omitempty"`

	IsExpanded          bool `json:"-"`
	DisableRowExpansion bool `json:"-"`
}

// OrderDate is placed_at, falling back to updated_at. The zero time is
// returned when neither is set.
func (o *Order) OrderDate() time.Time {
	if o.PlacedAt != nil {
		return *o.PlacedAt
	}
	if o.UpdatedAt != nil {
		return *o.UpdatedAt
	}
	return time.Time{}
}

// HasOrderDate reports whether either timestamp is present.
func (o *Order) HasOrderDate() bool {
	return o.PlacedAt != nil || o.UpdatedAt != nil
}

// Clone returns a copy that shares nothing with o.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.PlacedAt = cloneTime(o.PlacedAt)
	c.UpdatedAt = cloneTime(o.UpdatedAt)
	if o.ServiceRequests != nil {
		c.ServiceRequests = make([]*ServiceRequest, len(o.ServiceRequests))
		for i, sr := range o.ServiceRequests {
			c.ServiceRequests[i] = sr.Clone()
		}
	}
	return &c
}

// FindRequest returns the nested request with the given id.
func (o *Order) FindRequest(id ID) *ServiceRequest {
	for _, sr := range o.ServiceRequests {
		if sr != nil && sr.ID == id {
			return sr
		}
	}
	return nil
}

type Filter struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type SortField struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SortType string `json:"sortType"`
}

type Sort struct {
	CurrentField SortField `json:"currentField"`
	IsAscending  bool      `json:"isAscending"`
}

type FindParams struct {
	Limit     int
	Offset    int
	Filters   []Filter
	SortField SortField
	Ascending bool
}

type Page struct {
	Resources []*Order
	Count     int64
	Subcount  int64
	// IgnoredFilters were not applied by the data service.
	IgnoredFilters []Filter
}

type Action string

const (
	ActionApprove Action = "approve"
	ActionDeny    Action = "deny"
)

// Repository is the remote order data service.
type Repository interface {
	List(ctx context.Context, params *FindParams) (*Page, error)
	// Count runs the minimal query and returns the filtered subcount.
	Count(ctx context.Context, filters []Filter) (int64, error)
	Process(ctx context.Context, action Action, requests []ID, reason string) error
}
