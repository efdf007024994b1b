package domain

import "time"

// ChangeOperation describes a recorded activity operation for a project.
type ChangeOperation string

// ChangeOperation values used by the activity ledger.
const (
	ChangeOperationCreate ChangeOperation = "created"
	ChangeOperationMove   ChangeOperation = "moved"
)

// ChangeEvent represents a single activity-log entry for a project.
type ChangeEvent struct {
	ID         int64           `json:"id"`
	ProjectID  string          `json:"project_id"`
	Operation  ChangeOperation `json:"operation"`
	Title      string          `json:"title"`
	FromStatus Status          `json:"from_status,omitempty"`
	ToStatus   Status          `json:"to_status"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Summary renders a one-line description of the event.
func (e ChangeEvent) Summary() string {
	switch e.Operation {
	case ChangeOperationCreate:
		return "created " + e.Title
	case ChangeOperationMove:
		return "moved " + e.Title + " from " + string(e.FromStatus) + " to " + string(e.ToStatus)
	default:
		return string(e.Operation) + " " + e.Title
	}
}
