package authz

import (
	"strings"
	"sync"
)

// ViewState exposes authorization information to presentation layers.
type ViewState struct {
	Subject      string          `json:"subject"`
	Domain       string          `json:"domain"`
	Capabilities map[string]bool `json:"capabilities"`
	mu           sync.RWMutex
}

// NewViewState builds a ViewState for a subject/domain pair.
func NewViewState(subject, domain string) *ViewState {
	return &ViewState{
		Subject:      subject,
		Domain:       domain,
		Capabilities: map[string]bool{},
	}
}

// SetCapability stores a boolean flag (e.g. "miq_request_admin") for later use.
func (v *ViewState) SetCapability(name string, allowed bool) {
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Capabilities[normalizeCapabilityKey(name)] = allowed
}

// Capability reports whether a capability was previously recorded as allowed.
func (v *ViewState) Capability(name string) bool {
	allowed, ok := v.CapabilityValue(name)
	return ok && allowed
}

// CapabilityValue returns the stored capability flag and whether it exists.
func (v *ViewState) CapabilityValue(name string) (bool, bool) {
	if v == nil {
		return false, false
	}
	v.mu.RLock()
	defer v.mu.RUnlock()
	allowed, ok := v.Capabilities[normalizeCapabilityKey(name)]
	return allowed, ok
}

func normalizeCapabilityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
