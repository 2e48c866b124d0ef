package Status

import (
	"testing"
	"time"

	"Workspace/Models"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func tenDayTask(updates ...Models.EODUpdate) Models.Task {
	return Models.Task{
		ID:         "t1",
		Title:      "Ten day task",
		Assignee:   "Akhilesh",
		StartDate:  "2024-01-01",
		TargetDate: "2024-01-11",
		Updates:    updates,
	}
}

func TestScheduleFlagDelayed(t *testing.T) {
	// 50% elapsed, progress 20, gap 30 > 20
	task := tenDayTask(Models.EODUpdate{Progress: 20, Status: Models.StatusInProgress})
	now := mustParse(t, "2024-01-06")

	if planned := PlannedProgress(task, now); planned != 50 {
		t.Errorf("Expected planned progress 50, got %v", planned)
	}
	if flag := ComputeScheduleFlag(task, now); flag != FlagDelayed {
		t.Errorf("Expected Delayed, got %s", flag)
	}
}

func TestScheduleFlagOnTrackWithinFivePoints(t *testing.T) {
	// 50% elapsed, progress 48, gap 2 < 5
	task := tenDayTask(Models.EODUpdate{Progress: 48, Status: Models.StatusInProgress})
	now := mustParse(t, "2024-01-06")

	if flag := ComputeScheduleFlag(task, now); flag != FlagOnTrack {
		t.Errorf("Expected On Track, got %s", flag)
	}
}

func TestScheduleFlagAtRisk(t *testing.T) {
	// gap of 10: between 5 and 20
	task := tenDayTask(Models.EODUpdate{Progress: 40, Status: Models.StatusInProgress})
	now := mustParse(t, "2024-01-06")

	if flag := ComputeScheduleFlag(task, now); flag != FlagAtRisk {
		t.Errorf("Expected At Risk, got %s", flag)
	}
}

func TestScheduleFlagThresholdsAreStrict(t *testing.T) {
	now := mustParse(t, "2024-01-06")

	// Exactly 5 behind counts as the better bucket.
	task := tenDayTask(Models.EODUpdate{Progress: 45, Status: Models.StatusInProgress})
	if flag := ComputeScheduleFlag(task, now); flag != FlagOnTrack {
		t.Errorf("Expected On Track at exactly 5 behind, got %s", flag)
	}

	// Exactly 20 behind is At Risk, not Delayed.
	task = tenDayTask(Models.EODUpdate{Progress: 30, Status: Models.StatusInProgress})
	if flag := ComputeScheduleFlag(task, now); flag != FlagAtRisk {
		t.Errorf("Expected At Risk at exactly 20 behind, got %s", flag)
	}
}

func TestScheduleFlagCompletedBeatsEverything(t *testing.T) {
	// Far past target and nominally way behind, but Completed is terminal.
	task := tenDayTask(Models.EODUpdate{Progress: 100, Status: Models.StatusCompleted})
	now := mustParse(t, "2025-06-01")

	if flag := ComputeScheduleFlag(task, now); flag != FlagCompleted {
		t.Errorf("Expected Completed, got %s", flag)
	}
}

func TestScheduleFlagBlockerOverride(t *testing.T) {
	// Progress is on plan, but a reported blocker forces the blocked flag.
	task := tenDayTask(Models.EODUpdate{
		Progress: 50,
		Status:   Models.StatusInProgress,
		Blockers: "Waiting on API keys",
	})
	now := mustParse(t, "2024-01-06")

	if flag := ComputeScheduleFlag(task, now); flag != FlagBlocked {
		t.Errorf("Expected Delayed (Blocked), got %s", flag)
	}

	// Whitespace-only blockers do not count.
	task.Updates[0].Blockers = "   "
	if flag := ComputeScheduleFlag(task, now); flag != FlagOnTrack {
		t.Errorf("Expected On Track for blank blockers, got %s", flag)
	}
}

func TestScheduleFlagNoUpdates(t *testing.T) {
	task := tenDayTask()
	now := mustParse(t, "2024-01-06")

	// actual = 0, planned = 50, gap 50 > 20
	if flag := ComputeScheduleFlag(task, now); flag != FlagDelayed {
		t.Errorf("Expected Delayed for silent task at midpoint, got %s", flag)
	}

	// Before the start date nothing is expected yet.
	if flag := ComputeScheduleFlag(task, mustParse(t, "2023-12-30")); flag != FlagOnTrack {
		t.Errorf("Expected On Track before start, got %s", flag)
	}
}

func TestPlannedProgressDegenerateSpan(t *testing.T) {
	task := Models.Task{StartDate: "2024-01-05", TargetDate: "2024-01-05"}

	if planned := PlannedProgress(task, mustParse(t, "2024-01-05")); planned != 100 {
		t.Errorf("Expected 100 once start passed on zero-span task, got %v", planned)
	}
	if planned := PlannedProgress(task, mustParse(t, "2024-01-01")); planned != 0 {
		t.Errorf("Expected 0 before start on zero-span task, got %v", planned)
	}
}

func TestPlannedProgressClamps(t *testing.T) {
	task := tenDayTask()

	if planned := PlannedProgress(task, mustParse(t, "2024-03-01")); planned != 100 {
		t.Errorf("Expected clamp to 100 after target, got %v", planned)
	}
	if planned := PlannedProgress(task, mustParse(t, "2023-12-01")); planned != 0 {
		t.Errorf("Expected clamp to 0 before start, got %v", planned)
	}
}

func TestDeliveryStatusOnTime(t *testing.T) {
	task := tenDayTask(
		Models.EODUpdate{Date: mustParse(t, "2024-01-08"), Progress: 60, Status: Models.StatusInProgress},
		Models.EODUpdate{Date: mustParse(t, "2024-01-10").Add(23 * time.Hour), Progress: 100, Status: Models.StatusCompleted},
	)

	ts := DeliveryStatus(task, mustParse(t, "2024-02-01"))
	if !ts.Delivered || !ts.OnTime {
		t.Errorf("Expected on-time delivery, got %+v", ts)
	}
}

func TestDeliveryStatusLate(t *testing.T) {
	task := tenDayTask(
		Models.EODUpdate{Date: mustParse(t, "2024-01-14"), Progress: 100, Status: Models.StatusCompleted},
	)

	ts := DeliveryStatus(task, mustParse(t, "2024-02-01"))
	if !ts.Delivered || ts.OnTime {
		t.Errorf("Expected late delivery, got %+v", ts)
	}
	if ts.Days != 3 {
		t.Errorf("Expected 3 days late, got %d", ts.Days)
	}
}

func TestDeliveryStatusUsesFirstCompletion(t *testing.T) {
	// The first update that set Completed decides the delivery date, even
	// if later updates exist.
	task := tenDayTask(
		Models.EODUpdate{Date: mustParse(t, "2024-01-10"), Progress: 100, Status: Models.StatusCompleted},
		Models.EODUpdate{Date: mustParse(t, "2024-01-20"), Progress: 100, Status: Models.StatusCompleted},
	)

	ts := DeliveryStatus(task, mustParse(t, "2024-02-01"))
	if !ts.OnTime {
		t.Errorf("Expected on-time based on first completion, got %+v", ts)
	}
}

func TestDeliveryStatusUndelivered(t *testing.T) {
	task := tenDayTask(Models.EODUpdate{Progress: 40, Status: Models.StatusInProgress})

	ts := DeliveryStatus(task, mustParse(t, "2024-01-08"))
	if ts.Delivered {
		t.Errorf("Expected undelivered, got %+v", ts)
	}
	if ts.Days != 3 {
		t.Errorf("Expected 3 days remaining, got %d", ts.Days)
	}

	ts = DeliveryStatus(task, mustParse(t, "2024-01-15"))
	if ts.Delivered || ts.Days != 4 {
		t.Errorf("Expected 4 days overdue, got %+v", ts)
	}
}
