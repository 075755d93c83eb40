package infrastructure

import (
	"fmt"

	"quina/domain/events"
)

// NATS subjects for domain events
const (
	SubjectDrawSynced    = "quina.draws.synced"
	SubjectSyncCompleted = "quina.sync.completed"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeDrawSynced:
		return SubjectDrawSynced
	case events.EventTypeSyncCompleted:
		return SubjectSyncCompleted
	default:
		return fmt.Sprintf("quina.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{"quina.>"}
}
