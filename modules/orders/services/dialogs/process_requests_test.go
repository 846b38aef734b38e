package dialogs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/eventbus"
	"github.com/iota-uz/order-explorer/pkg/modal"
)

type fakeProcessor struct {
	action   order.Action
	requests []order.ID
	reason   string
	err      error
	calls    int
}

func (p *fakeProcessor) Process(_ context.Context, action order.Action, requests []order.ID, reason string) error {
	p.calls++
	p.action, p.requests, p.reason = action, requests, reason
	return p.err
}

type sink struct {
	errors, successes []string
}

func (s *sink) Error(m string)   { s.errors = append(s.errors, m) }
func (s *sink) Success(m string) { s.successes = append(s.successes, m) }

func open(host *modal.Host, modalType explorer.ModalType, requests ...*order.ServiceRequest) uuid.UUID {
	return host.Open(modal.Options{
		Component: explorer.ProcessRequestsModal,
		Resolve: map[string]modal.Resolver{
			explorer.ResolveRequests:  func() any { return requests },
			explorer.ResolveModalType: func() any { return modalType },
		},
	})
}

func setup() (*ProcessRequests, *fakeProcessor, *sink, *modal.Host) {
	p := &fakeProcessor{}
	s := &sink{}
	d := NewProcessRequests(p, s, nil, nil)
	host := modal.NewHost(eventbus.NewEventPublisher(nil), nil)
	d.Register(host)
	return d, p, s, host
}

func TestSubmit_Approve(t *testing.T) {
	d, p, s, host := setup()
	refreshed := 0
	d.OnProcessed = func(context.Context) { refreshed++ }

	id := open(host, explorer.ModalApprove, &order.ServiceRequest{ID: "11"}, &order.ServiceRequest{ID: "21"})
	res, err := d.Submit(context.Background(), "looks fine")
	require.NoError(t, err)

	require.Equal(t, id, res.ID)
	require.Equal(t, order.ActionApprove, res.Action)
	require.Equal(t, []order.ID{"11", "21"}, p.requests)
	require.Equal(t, "looks fine", p.reason)
	require.Equal(t, []string{"Requests processed."}, s.successes)
	require.Equal(t, 1, refreshed)

	_, err = d.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrNotOpen)
}

func TestSubmit_InvalidIsRefused(t *testing.T) {
	d, p, s, host := setup()
	open(host, explorer.ModalInvalid, &order.ServiceRequest{ID: "12", ApprovalState: order.ApprovalApproved})

	res, err := d.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidSelection)
	require.Equal(t, explorer.ModalInvalid, res.Type)
	require.Zero(t, p.calls)
	require.Len(t, s.errors, 1)
}

func TestSubmit_TerminalRequestsRefusedDespiteApproveType(t *testing.T) {
	d, p, s, host := setup()
	open(host, explorer.ModalApprove,
		&order.ServiceRequest{ID: "11", ApprovalState: order.ApprovalPending},
		&order.ServiceRequest{ID: "12", ApprovalState: order.ApprovalDenied},
	)

	res, err := d.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrInvalidSelection)
	require.Equal(t, explorer.ModalInvalid, res.Type)
	require.Equal(t, []order.ID{"11", "12"}, res.Requests)
	require.Zero(t, p.calls)
	require.Len(t, s.errors, 1)
}

func TestSubmit_DenyFailure(t *testing.T) {
	d, p, s, host := setup()
	p.err = errors.New("boom")
	open(host, explorer.ModalDeny, &order.ServiceRequest{ID: "11"})

	_, err := d.Submit(context.Background(), "no budget")
	require.Error(t, err)
	require.Equal(t, order.ActionDeny, p.action)
	require.Equal(t, []string{"There was an error processing requests."}, s.errors)
	require.Empty(t, s.successes)
}

func TestSubmit_NothingSelected(t *testing.T) {
	d, p, _, host := setup()
	open(host, explorer.ModalApprove)

	_, err := d.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrNothingSelected)
	require.Zero(t, p.calls)
}

func TestCancel(t *testing.T) {
	d, _, _, host := setup()
	open(host, explorer.ModalApprove, &order.ServiceRequest{ID: "1"})
	d.Cancel()
	_, err := d.Submit(context.Background(), "")
	require.ErrorIs(t, err, ErrNotOpen)
}
