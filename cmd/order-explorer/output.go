package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/iota-uz/order-explorer/pkg/notifications"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// notificationPrinter writes notifications to stderr and remembers the
// errors so the command can fail after the explorer swallowed them.
type notificationPrinter struct {
	w      io.Writer
	mu     sync.Mutex
	errors []string
}

func (p *notificationPrinter) handle(n *notifications.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.w, "%s: %s\n", n.Level, n.Message)
	if n.Level == notifications.LevelError {
		p.errors = append(p.errors, n.Message)
	}
}

func (p *notificationPrinter) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errors) == 0 {
		return nil
	}
	return withCode(exitRemote, fmt.Errorf("%s", p.errors[0]))
}
