package mappers

import (
	"encoding/json"
	"testing"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
)

func TestPageChanges_AppliesToPrevious(t *testing.T) {
	prev := &viewmodels.OrdersPageProps{
		Page:        1,
		Limit:       20,
		FilterCount: 2,
		Orders: []*viewmodels.OrderRow{
			{ID: "1", Name: "web", Requests: []*viewmodels.ServiceRequestRow{{ID: "21", ApprovalState: "Pending Approval"}}},
			{ID: "2", Name: "db", Requests: []*viewmodels.ServiceRequestRow{}},
		},
	}
	next := &viewmodels.OrdersPageProps{
		Page:        1,
		Limit:       20,
		FilterCount: 1,
		Orders: []*viewmodels.OrderRow{
			{ID: "1", Name: "web", Requests: []*viewmodels.ServiceRequestRow{{ID: "21", ApprovalState: "Approved"}}},
		},
	}

	patch, err := PageChanges(prev, next)
	require.NoError(t, err)
	require.NotEmpty(t, patch)

	raw, err := json.Marshal(patch)
	require.NoError(t, err)
	decoded, err := jsonpatch.DecodePatch(raw)
	require.NoError(t, err)

	prevJSON, err := json.Marshal(prev)
	require.NoError(t, err)
	nextJSON, err := json.Marshal(next)
	require.NoError(t, err)
	applied, err := decoded.Apply(prevJSON)
	require.NoError(t, err)
	require.JSONEq(t, string(nextJSON), string(applied))
}

func TestPageChanges_Identical(t *testing.T) {
	page := &viewmodels.OrdersPageProps{Page: 2, Orders: []*viewmodels.OrderRow{{ID: "1"}}}
	patch, err := PageChanges(page, page)
	require.NoError(t, err)
	require.Empty(t, patch)
}
