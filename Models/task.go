package Models

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	StatusAssigned   TaskStatus = "Assigned"
	StatusInProgress TaskStatus = "In Progress"
	StatusInReview   TaskStatus = "In Review"
	StatusCompleted  TaskStatus = "Completed"
)

type HealthStatus string

const (
	HealthOnTrack        HealthStatus = "On Track"
	HealthAtRisk         HealthStatus = "At Risk"
	HealthDelayed        HealthStatus = "Delayed"
	HealthReviewRequired HealthStatus = "Review Required"
)

type TaskCategory string

const (
	CategoryGeneral   TaskCategory = "General"
	CategoryDemo      TaskCategory = "Demo"
	CategoryElement   TaskCategory = "Element"
	CategoryMigration TaskCategory = "Migration"
)

// EODUpdate is one end-of-day report submitted by an assignee. Once
// appended to a task's update list it is never mutated or removed.
type EODUpdate struct {
	Date                   time.Time  `json:"date"`
	Progress               int        `json:"progress" validate:"min=0,max=100"`
	Status                 TaskStatus `json:"status"`
	WorkCompleted          string     `json:"workCompleted"`
	PendingItems           string     `json:"pendingItems"`
	Blockers               string     `json:"blockers,omitempty"`
	ExpectedCompletionDate string     `json:"expectedCompletionDate"`
}

// HasBlockers reports whether the update carries a non-empty blocker note.
func (u EODUpdate) HasBlockers() bool {
	return strings.TrimSpace(u.Blockers) != ""
}

// Task is the aggregate root: a task plus its ordered update history and
// lead feedback. StartDate and TargetDate are stored as YYYY-MM-DD strings
// to match the wire format the web clients exchange.
type Task struct {
	ID           string       `json:"id"`
	Title        string       `json:"title" validate:"required"`
	Project      string       `json:"project"`
	Sprint       string       `json:"sprint,omitempty"`
	Category     TaskCategory `json:"category,omitempty"`
	Assignee     string       `json:"assignee" validate:"required"`
	StartDate    string       `json:"startDate"`
	TargetDate   string       `json:"targetDate" validate:"required"`
	Updates      []EODUpdate  `json:"updates"`
	LeadComments []string     `json:"leadComments,omitempty"`
	HealthStatus HealthStatus `json:"healthStatus,omitempty"`
	UpdatedAt    int64        `json:"updatedAt,omitempty"`
}

// LatestUpdate returns the most recent EOD report, or nil if the task has
// never been reported on.
func (t *Task) LatestUpdate() *EODUpdate {
	if len(t.Updates) == 0 {
		return nil
	}
	return &t.Updates[len(t.Updates)-1]
}

// CurrentStatus is the status of the latest update, or Assigned for a task
// with no reports yet.
func (t *Task) CurrentStatus() TaskStatus {
	if latest := t.LatestUpdate(); latest != nil {
		return latest.Status
	}
	return StatusAssigned
}

// CurrentProgress is the progress of the latest update, or 0.
func (t *Task) CurrentProgress() int {
	if latest := t.LatestUpdate(); latest != nil {
		return latest.Progress
	}
	return 0
}

// IsCompleted reports whether the latest update marked the task Completed.
func (t *Task) IsCompleted() bool {
	return t.CurrentStatus() == StatusCompleted
}

// Touch stamps the last-write time used by sync bookkeeping, in Unix
// milliseconds as the web clients expect.
func (t *Task) Touch(now time.Time) {
	t.UpdatedAt = now.UnixMilli()
}

// Document is the full workspace state exchanged with the remote store.
type Document struct {
	Tasks       []Task   `json:"tasks"`
	TeamMembers []string `json:"teamMembers"`
}

const dayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD date string, tolerating a full RFC3339
// timestamp from older clients.
func ParseDay(s string) (time.Time, error) {
	if t, err := time.Parse(dayLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
