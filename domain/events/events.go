package events

import "time"

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeDrawSynced    EventType = "draw_synced"
	EventTypeSyncCompleted EventType = "sync_completed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// DrawSyncedEvent represents a draw stored by a sync run
type DrawSyncedEvent struct {
	SequenceNumber int        `json:"sequence_number"`
	DrawnNumbers   []int      `json:"drawn_numbers"`
	DrawDate       *time.Time `json:"draw_date,omitempty"`
}

func (e DrawSyncedEvent) Type() EventType {
	return EventTypeDrawSynced
}

// SyncCompletedEvent represents the end of a sync run
type SyncCompletedEvent struct {
	RunID          string `json:"run_id"`
	Processed      int    `json:"processed"`
	Inserted       int    `json:"inserted"`
	Errors         int    `json:"errors"`
	LatestSequence int    `json:"latest_sequence"`
}

func (e SyncCompletedEvent) Type() EventType {
	return EventTypeSyncCompleted
}
