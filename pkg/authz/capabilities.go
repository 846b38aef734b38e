package authz

import (
	"context"
	"time"
)

// CapabilityChecker answers "does the current user hold capability X" for a
// single subject. Every answer is recorded on the attached ViewState.
type CapabilityChecker struct {
	svc     *Service
	subject string
	domain  string
	state   *ViewState
}

// ForUser returns a checker bound to the given user id in the global domain.
func (s *Service) ForUser(userID string) *CapabilityChecker {
	subject := SubjectForUser(userID)
	return &CapabilityChecker{
		svc:     s,
		subject: subject,
		domain:  GlobalDomain,
		state:   NewViewState(subject, GlobalDomain),
	}
}

// ViewState exposes the capabilities evaluated so far.
func (c *CapabilityChecker) ViewState() *ViewState {
	return c.state
}

func (c *CapabilityChecker) Has(capability string) bool {
	return c.HasContext(context.Background(), capability)
}

// HasContext evaluates the capability. Enforcement errors deny.
func (c *CapabilityChecker) HasContext(ctx context.Context, capability string) bool {
	if allowed, ok := c.state.CapabilityValue(capability); ok {
		return allowed
	}

	req := NewRequest(c.subject, c.domain, capability, CapabilityAction)
	mode := c.svc.ModeFor(req.Object)
	start := time.Now()

	granted := true
	if mode != ModeDisabled {
		ok, err := c.svc.Check(ctx, req)
		if err != nil {
			c.svc.logger.WithContext(ctx).WithError(err).WithField("capability", capability).Error("capability check failed")
		}
		granted = ok && err == nil
	}
	allowed := granted
	if !granted && mode == ModeShadow {
		c.svc.logger.WithContext(ctx).WithField("capability", capability).Warn("authz shadow deny")
		allowed = true
	}

	recordCapabilityCheck(req.Object, mode, granted, time.Since(start))
	c.state.SetCapability(capability, allowed)
	return allowed
}
