package session

// User describes the signed-in user.
type User struct {
	UserID string `json:"userid"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
}

type Session interface {
	CurrentUser() User
}

// Static is a session with a fixed user, used by the CLI and tests.
type Static struct {
	User User
}

func (s Static) CurrentUser() User {
	return s.User
}
