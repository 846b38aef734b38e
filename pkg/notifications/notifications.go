package notifications

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iota-uz/order-explorer/pkg/eventbus"
)

type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// Notification is published on the event bus for every message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Sink receives user-visible notifications. Calls are fire-and-forget.
type Sink interface {
	Error(message string)
	Success(message string)
}

type busSink struct {
	bus eventbus.EventBus
	log *logrus.Entry
	now func() time.Time
}

// NewBusSink publishes notifications on bus and logs them.
func NewBusSink(bus eventbus.EventBus, log *logrus.Logger) Sink {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &busSink{
		bus: bus,
		log: log.WithField("component", "notifications"),
		now: time.Now,
	}
}

func (s *busSink) Error(message string) {
	s.log.Warn(message)
	s.publish(LevelError, message)
}

func (s *busSink) Success(message string) {
	s.log.Info(message)
	s.publish(LevelSuccess, message)
}

func (s *busSink) publish(level Level, message string) {
	s.bus.Publish(&Notification{Level: level, Message: message, At: s.now()})
}
