package Status

import (
	"fmt"
	"time"

	"Workspace/Models"
)

// ScheduleFlag is the derived, non-persisted schedule health shown on
// dashboards. It is distinct from the lead-set HealthStatus and must be
// recomputed on every read since the clock advances without mutations.
type ScheduleFlag string

const (
	FlagCompleted ScheduleFlag = "Completed"
	FlagBlocked   ScheduleFlag = "Delayed (Blocked)"
	FlagDelayed   ScheduleFlag = "Delayed"
	FlagAtRisk    ScheduleFlag = "At Risk"
	FlagOnTrack   ScheduleFlag = "On Track"
)

// ComputeScheduleFlag derives the schedule flag for a task at a given time.
//
// Priority order: Completed tasks are always green; an explicitly reported
// blocker overrides the progress comparison; then progress more than 20
// points behind plan is Delayed, more than 5 behind is At Risk, anything
// else On Track. Thresholds are strict comparisons: exactly 5 or exactly 20
// points behind still counts as the better bucket.
func ComputeScheduleFlag(task Models.Task, now time.Time) ScheduleFlag {
	latest := task.LatestUpdate()

	if latest != nil && latest.Status == Models.StatusCompleted {
		return FlagCompleted
	}

	if latest != nil && latest.HasBlockers() {
		return FlagBlocked
	}

	planned := PlannedProgress(task, now)
	actual := 0.0
	if latest != nil {
		actual = float64(latest.Progress)
	}

	switch {
	case actual < planned-20:
		return FlagDelayed
	case actual < planned-5:
		return FlagAtRisk
	default:
		return FlagOnTrack
	}
}

// PlannedProgress is the completion percentage (0-100) the task should have
// reached by now if work advanced linearly from startDate to targetDate.
// A task whose target is not after its start is treated as fully due the
// moment its start date passes.
func PlannedProgress(task Models.Task, now time.Time) float64 {
	start, err := Models.ParseDay(task.StartDate)
	if err != nil {
		return 0
	}
	target, err := Models.ParseDay(task.TargetDate)
	if err != nil {
		return 0
	}

	if !target.After(start) {
		if now.Before(start) {
			return 0
		}
		return 100
	}

	elapsed := now.Sub(start).Seconds()
	total := target.Sub(start).Seconds()
	fraction := elapsed / total
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	return fraction * 100
}

// TimeStatus classifies a task for archive/completed views: delivered tasks
// as on-time or late, undelivered tasks by days remaining or overdue.
type TimeStatus struct {
	Delivered bool   `json:"delivered"`
	OnTime    bool   `json:"onTime"`
	Days      int    `json:"days"`
	Label     string `json:"label"`
}

// DeliveryStatus computes the time-status of a task. Delivery is judged by
// the date of the update that first set status to Completed, compared to
// the target date with both normalized to whole days.
func DeliveryStatus(task Models.Task, now time.Time) TimeStatus {
	target, err := Models.ParseDay(task.TargetDate)
	if err != nil {
		return TimeStatus{Label: "Unknown target date"}
	}
	targetDay := truncateToDay(target)

	if completedAt, ok := completionDate(task); ok {
		completedDay := truncateToDay(completedAt)
		late := int(completedDay.Sub(targetDay).Hours() / 24)
		if late > 0 {
			return TimeStatus{Delivered: true, Days: late, Label: fmt.Sprintf("Delivered %d day(s) late", late)}
		}
		return TimeStatus{Delivered: true, OnTime: true, Days: -late, Label: "Delivered on time"}
	}

	remaining := int(targetDay.Sub(truncateToDay(now)).Hours() / 24)
	if remaining < 0 {
		return TimeStatus{Days: -remaining, Label: fmt.Sprintf("Overdue by %d day(s)", -remaining)}
	}
	return TimeStatus{Days: remaining, Label: fmt.Sprintf("Due in %d day(s)", remaining)}
}

// completionDate is the timestamp of the first update that marked the task
// Completed.
func completionDate(task Models.Task) (time.Time, bool) {
	for _, u := range task.Updates {
		if u.Status == Models.StatusCompleted {
			return u.Date, true
		}
	}
	return time.Time{}, false
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
