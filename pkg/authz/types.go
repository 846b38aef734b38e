package authz

import (
	"strings"
)

const (
	GlobalDomain          = "global"
	subjectUserPrefix     = "user"
	subjectSeparator      = ":"
	defaultActionWildcard = "*"

	// CapabilityAction is the action evaluated for product capabilities.
	CapabilityAction = "access"
)

// Request encapsulates all parameters required to evaluate a Casbin rule.
type Request struct {
	Subject string
	Domain  string
	Object  string
	Action  string
}

// NewRequest constructs a Request, defaulting the domain to GlobalDomain.
func NewRequest(subject, domain, object, action string) Request {
	if strings.TrimSpace(domain) == "" {
		domain = GlobalDomain
	}
	return Request{
		Subject: subject,
		Domain:  strings.ToLower(strings.TrimSpace(domain)),
		Object:  strings.ToLower(strings.TrimSpace(object)),
		Action:  NormalizeAction(action),
	}
}

// SubjectForUser builds a subject identifier in the form user:{userID}.
func SubjectForUser(userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		userID = "anonymous"
	}
	return subjectUserPrefix + subjectSeparator + userID
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return defaultActionWildcard
	}
	return action
}
