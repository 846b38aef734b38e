package httpapi

import (
	"encoding/json"
	"net/http"
)

const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternal       = "INTERNAL_SERVER_ERROR"
)

// ErrorEnvelope is the JSON body of every error response.
type ErrorEnvelope struct {
	Message string            `json:"message"`
	Code    string            `json:"code"`
	Meta    map[string]string `json:"meta,omitempty"`
}

func NewError(code, message string) *ErrorEnvelope {
	return &ErrorEnvelope{Code: code, Message: message}
}

// WithMeta adds a detail; empty values are skipped.
func (e *ErrorEnvelope) WithMeta(key, value string) *ErrorEnvelope {
	if value == "" {
		return e
	}
	if e.Meta == nil {
		e.Meta = map[string]string{}
	}
	e.Meta[key] = value
	return e
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	if w == nil {
		return nil
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, env *ErrorEnvelope) error {
	return WriteJSON(w, status, env)
}
