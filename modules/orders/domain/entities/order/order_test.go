package order

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want ID
	}{
		{name: "string", raw: `{"id":"10000000000042"}`, want: "10000000000042"},
		{name: "number", raw: `{"id":1042}`, want: "1042"},
		{name: "null", raw: `{"id":null}`, want: ""},
		{name: "absent", raw: `{}`, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var o Order
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &o))
			require.Equal(t, tc.want, o.ID)
			require.Equal(t, tc.want == "", o.ID.IsZero())
		})
	}
}

func TestID_Int64(t *testing.T) {
	n, ok := ID("1042").Int64()
	require.True(t, ok)
	require.Equal(t, int64(1042), n)

	_, ok = ID("abc").Int64()
	require.False(t, ok)
}

func TestApprovalState_IsTerminal(t *testing.T) {
	require.True(t, ApprovalApproved.IsTerminal())
	require.True(t, ApprovalDenied.IsTerminal())
	require.False(t, ApprovalPending.IsTerminal())
	require.False(t, ApprovalState("").IsTerminal())
}

func TestOrder_OrderDateFallsBackToUpdatedAt(t *testing.T) {
	placed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	o := &Order{UpdatedAt: &updated}
	require.Equal(t, updated, o.OrderDate())
	require.True(t, o.HasOrderDate())

	o.PlacedAt = &placed
	require.Equal(t, placed, o.OrderDate())

	empty := &Order{}
	require.True(t, empty.OrderDate().IsZero())
	require.False(t, empty.HasOrderDate())
}

func TestOrder_FindRequest(t *testing.T) {
	o := &Order{ServiceRequests: []*ServiceRequest{{ID: "1"}, nil, {ID: "2"}}}
	require.Equal(t, ID("2"), o.FindRequest("2").ID)
	require.Nil(t, o.FindRequest("3"))
}

func TestOrder_Clone(t *testing.T) {
	placed := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	o := &Order{
		ID:              "1",
		Name:            "vm",
		PlacedAt:        &placed,
		ServiceRequests: []*ServiceRequest{{ID: "10", Selected: true}},
		IsExpanded:      true,
	}

	c := o.Clone()
	require.Equal(t, o, c)

	c.ServiceRequests[0].Selected = false
	*c.PlacedAt = placed.AddDate(1, 0, 0)
	require.True(t, o.ServiceRequests[0].Selected)
	require.Equal(t, placed, *o.PlacedAt)

	require.Nil(t, (*Order)(nil).Clone())
	require.Nil(t, (&Order{ID: "2"}).Clone().ServiceRequests)
}
