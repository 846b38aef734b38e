package permissions

// Capabilities that allow bulk approving or denying service requests.
const (
	ApprovalCapability = "miq_request_approval"
	AdminCapability    = "miq_request_admin"
)

// BulkActionCapabilities lists every capability that unlocks the bulk
// approve/deny actions. Holding any one of them is enough.
var BulkActionCapabilities = []string{ApprovalCapability, AdminCapability}
