package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventRunStart    EventType = "run_start"
	EventNodeVisit   EventType = "node_visit"
	EventRunComplete EventType = "run_complete"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// RunEvent marks the start or completion of a run.
type RunEvent struct {
	EventBase
	QuestionnaireID string `json:"questionnaire_id"`
	Steps           int    `json:"steps"`
}

// VisitEvent marks a node being appended to a run's history.
type VisitEvent struct {
	EventBase
	QuestionnaireID string `json:"questionnaire_id"`
	NodeID          string `json:"node_id"`
	NodeKind        string `json:"node_kind"`
	Answer          string `json:"answer,omitempty"` // answer that led here; empty for the entry visit
}

// LifecycleHooks defines callbacks for engine observability. All hooks
// are optional and must not block: they run inline with the mutation.
type LifecycleHooks struct {
	OnRunStart    func(context.Context, *RunEvent)
	OnNodeVisit   func(context.Context, *VisitEvent)
	OnRunComplete func(context.Context, *RunEvent)
}
