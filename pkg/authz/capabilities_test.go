package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapabilityChecker_Enforce(t *testing.T) {
	svc := newTestService(t, ModeEnforce)

	admin := svc.ForUser("admin")
	require.True(t, admin.Has("miq_request_admin"))
	require.True(t, admin.Has("miq_request_approval"))

	approver := svc.ForUser("approver")
	require.True(t, approver.Has("miq_request_approval"))
	require.False(t, approver.Has("miq_request_admin"))

	viewer := svc.ForUser("viewer")
	require.False(t, viewer.Has("miq_request_approval"))
	require.False(t, viewer.Has("miq_request_admin"))
}

func TestCapabilityChecker_RecordsViewState(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	checker := svc.ForUser("approver")
	checker.Has("MIQ_REQUEST_APPROVAL")
	checker.Has("miq_request_admin")

	state := checker.ViewState()
	require.Equal(t, "user:approver", state.Subject)
	require.True(t, state.Capability("miq_request_approval"))

	allowed, ok := state.CapabilityValue("miq_request_admin")
	require.True(t, ok)
	require.False(t, allowed)
}

func TestCapabilityChecker_ModeOverrides(t *testing.T) {
	require.True(t, newTestService(t, ModeDisabled).ForUser("viewer").Has("miq_request_admin"))
	require.True(t, newTestService(t, ModeShadow).ForUser("viewer").Has("miq_request_admin"))
}

func TestDecision(t *testing.T) {
	require.Equal(t, "allowed", decision(ModeEnforce, true))
	require.Equal(t, "allowed", decision(ModeShadow, true))
	require.Equal(t, "denied", decision(ModeEnforce, false))
	require.Equal(t, "shadow_denied", decision(ModeShadow, false))
}
