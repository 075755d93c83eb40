package infrastructure

import (
	"quina/domain/events"

	log "github.com/sirupsen/logrus"
)

// NoopEventPublisher drops every event. Used when NATS is not configured.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a publisher that only logs at debug level
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

func (p *NoopEventPublisher) Publish(event events.Event) error {
	log.WithField("eventType", event.Type()).Debug("Event publishing disabled, dropping event")
	return nil
}
