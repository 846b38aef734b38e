package mappers

import (
	"github.com/wI2L/jsondiff"

	"github.com/iota-uz/order-explorer/modules/orders/presentation/viewmodels"
)

// PageChanges returns the RFC 6902 patch that turns prev into next. The
// patch is empty when the pages render identically.
func PageChanges(prev, next *viewmodels.OrdersPageProps) (jsondiff.Patch, error) {
	return jsondiff.Compare(prev, next)
}
