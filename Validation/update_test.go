package Validation

import (
	"errors"
	"testing"

	"Workspace/Models"
)

func taskWithProgress(progress int) Models.Task {
	return Models.Task{
		ID:         "t1",
		Title:      "Task",
		Assignee:   "Chandu",
		TargetDate: "2024-01-11",
		Updates: []Models.EODUpdate{
			{Progress: progress, Status: Models.StatusInProgress},
		},
	}
}

func TestValidateRejectsProgressRegression(t *testing.T) {
	rules := UpdateRules{}
	task := taskWithProgress(60)

	err := rules.Validate(task, Models.EODUpdate{Progress: 40, Status: Models.StatusInProgress})
	if !errors.Is(err, ErrProgressRegression) {
		t.Errorf("Expected ErrProgressRegression, got %v", err)
	}
}

func TestValidateAllowsEqualProgress(t *testing.T) {
	rules := UpdateRules{}
	task := taskWithProgress(60)

	if err := rules.Validate(task, Models.EODUpdate{Progress: 60, Status: Models.StatusInReview}); err != nil {
		t.Errorf("Equal progress must be accepted, got %v", err)
	}
}

func TestValidateRejectsIncompleteCompletion(t *testing.T) {
	rules := UpdateRules{}
	task := taskWithProgress(60)

	err := rules.Validate(task, Models.EODUpdate{Progress: 90, Status: Models.StatusCompleted})
	if !errors.Is(err, ErrIncompleteCompletion) {
		t.Errorf("Expected ErrIncompleteCompletion, got %v", err)
	}

	if err := rules.Validate(task, Models.EODUpdate{Progress: 100, Status: Models.StatusCompleted}); err != nil {
		t.Errorf("Completion at 100%% must be accepted, got %v", err)
	}
}

func TestValidateFirstUpdateBaselineIsZero(t *testing.T) {
	rules := UpdateRules{}
	task := Models.Task{ID: "t1", Title: "Fresh", Assignee: "Sharanya", TargetDate: "2024-01-11"}

	if err := rules.Validate(task, Models.EODUpdate{Progress: 0, Status: Models.StatusInProgress}); err != nil {
		t.Errorf("First update at 0%% must be accepted, got %v", err)
	}
}

func TestBlockerDisclosureIsOptionalPolicy(t *testing.T) {
	task := taskWithProgress(10)
	candidate := Models.EODUpdate{Progress: 20, Status: Models.StatusInProgress}

	// Off by default.
	if err := (UpdateRules{}).Validate(task, candidate); err != nil {
		t.Errorf("Blocker rule must be off by default, got %v", err)
	}

	// Enabled: behind tasks with no blockers are rejected.
	rules := UpdateRules{RequireBlockerDisclosure: true}
	err := rules.Validate(task, candidate)
	if !errors.Is(err, ErrMissingBlockerDisclosure) {
		t.Errorf("Expected ErrMissingBlockerDisclosure, got %v", err)
	}

	// Disclosing a blocker satisfies the rule.
	candidate.Blockers = "Waiting on design review"
	if err := rules.Validate(task, candidate); err != nil {
		t.Errorf("Disclosed blocker must pass, got %v", err)
	}

	// At or above 50%% the rule does not apply.
	candidate = Models.EODUpdate{Progress: 50, Status: Models.StatusInProgress}
	if err := rules.Validate(taskWithProgress(40), candidate); err != nil {
		t.Errorf("Rule must not apply at 50%%, got %v", err)
	}
}

func TestValidateTaskDefinition(t *testing.T) {
	ok := Models.Task{Title: "T", Assignee: "Chandu", TargetDate: "2024-01-11"}
	if err := ValidateTaskDefinition(ok); err != nil {
		t.Errorf("Complete definition must pass, got %v", err)
	}

	for _, broken := range []Models.Task{
		{Assignee: "Chandu", TargetDate: "2024-01-11"},
		{Title: "T", TargetDate: "2024-01-11"},
		{Title: "T", Assignee: "Chandu"},
	} {
		err := ValidateTaskDefinition(broken)
		if !errors.Is(err, ErrIncompleteTaskDefinition) {
			t.Errorf("Expected ErrIncompleteTaskDefinition for %+v, got %v", broken, err)
		}
	}
}

func TestValidateUpdateShapeBounds(t *testing.T) {
	if err := ValidateUpdateShape(Models.EODUpdate{Progress: 101}); err == nil {
		t.Error("Expected progress above 100 to be rejected")
	}
	if err := ValidateUpdateShape(Models.EODUpdate{Progress: -1}); err == nil {
		t.Error("Expected negative progress to be rejected")
	}
	if err := ValidateUpdateShape(Models.EODUpdate{Progress: 100}); err != nil {
		t.Errorf("Expected progress 100 to pass, got %v", err)
	}
}
