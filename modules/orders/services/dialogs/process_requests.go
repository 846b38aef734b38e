package dialogs

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/modules/orders/domain/entities/order"
	"github.com/iota-uz/order-explorer/modules/orders/services/explorer"
	"github.com/iota-uz/order-explorer/pkg/intl"
	"github.com/iota-uz/order-explorer/pkg/modal"
	"github.com/iota-uz/order-explorer/pkg/notifications"
)

var (
	ErrNotOpen          = errors.New("process requests dialog is not open")
	ErrInvalidSelection = errors.New("selected requests were already approved or denied")
	ErrNothingSelected  = errors.New("no service requests selected")
)

// Processor performs the approve/deny transition.
type Processor interface {
	Process(ctx context.Context, action order.Action, requests []order.ID, reason string) error
}

// Result describes a submitted dialog.
type Result struct {
	ID       uuid.UUID          `json:"id"`
	Action   order.Action       `json:"action"`
	Requests []order.ID         `json:"requests"`
	Type     explorer.ModalType `json:"modalType"`
}

// ProcessRequests is the approve/deny dialog. Open records the dialog
// options; Submit evaluates them and runs the transition.
type ProcessRequests struct {
	processor Processor
	notify    notifications.Sink
	t         intl.Translator
	log       *logrus.Entry
	// OnProcessed runs after a successful transition, typically to reload
	// the order list.
	OnProcessed func(ctx context.Context)

	mu   sync.Mutex
	id   uuid.UUID
	opts *modal.Options
}

func NewProcessRequests(processor Processor, notify notifications.Sink, t intl.Translator, log *logrus.Logger) *ProcessRequests {
	if t == nil {
		t = intl.Identity{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ProcessRequests{
		processor: processor,
		notify:    notify,
		t:         t,
		log:       log.WithField("component", "process-requests-dialog"),
	}
}

// Register makes the dialog available under explorer.ProcessRequestsModal.
func (d *ProcessRequests) Register(host *modal.Host) {
	host.Register(explorer.ProcessRequestsModal, d.Open)
}

func (d *ProcessRequests) Open(id uuid.UUID, opts modal.Options) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.id = id
	d.opts = &opts
}

// Submit confirms the open dialog. An invalid dialog is rejected without
// calling the processor.
func (d *ProcessRequests) Submit(ctx context.Context, reason string) (*Result, error) {
	d.mu.Lock()
	opts, id := d.opts, d.id
	d.opts = nil
	d.mu.Unlock()
	if opts == nil {
		return nil, ErrNotOpen
	}

	requests, _ := opts.Value(explorer.ResolveRequests).([]*order.ServiceRequest)
	modalType, _ := opts.Value(explorer.ResolveModalType).(explorer.ModalType)
	// the selection may have changed between the two resolvers
	modalType = explorer.ModalTypeFor(requests, modalType)

	result := &Result{ID: id, Type: modalType}
	for _, sr := range requests {
		result.Requests = append(result.Requests, sr.ID)
	}

	log := d.log.WithFields(logrus.Fields{"dialog": id, "modal-type": modalType})
	switch modalType {
	case explorer.ModalApprove:
		result.Action = order.ActionApprove
	case explorer.ModalDeny:
		result.Action = order.ActionDeny
	default:
		log.Warn("refusing to process an invalid selection")
		d.notify.Error(d.t.T("Selected requests were already approved or denied."))
		return result, ErrInvalidSelection
	}
	if len(result.Requests) == 0 {
		return result, ErrNothingSelected
	}

	if err := d.processor.Process(ctx, result.Action, result.Requests, reason); err != nil {
		log.WithError(err).Error("failed to process service requests")
		d.notify.Error(d.t.T("There was an error processing requests."))
		return result, errors.Wrap(err, "process requests")
	}
	d.notify.Success(d.t.T("Requests processed."))
	if d.OnProcessed != nil {
		d.OnProcessed(ctx)
	}
	return result, nil
}

// Cancel closes the dialog without processing.
func (d *ProcessRequests) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts = nil
}
