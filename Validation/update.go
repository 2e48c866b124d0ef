package Validation

import (
	"errors"

	"Workspace/Models"
)

// Rejection reasons for EOD update submissions. These are recoverable
// business errors: the store stays unchanged and the message is surfaced to
// the submitter.
var (
	ErrProgressRegression       = errors.New("progress cannot decrease across updates")
	ErrIncompleteCompletion     = errors.New("status cannot be Completed while progress is below 100%")
	ErrMissingBlockerDisclosure = errors.New("blockers or dependencies must be reported for tasks under 50% progress")
)

// UpdateRules configures the update gate. RequireBlockerDisclosure is a
// team policy, not a universal rule: some workflows force an explicit
// blocker note on significantly behind tasks, others do not.
type UpdateRules struct {
	RequireBlockerDisclosure bool
}

// Validate gates a candidate EOD update against a task's history. It is the
// single source of truth for update legality: every submission path, local
// or over the network, must pass through here before the update is
// appended.
func (r UpdateRules) Validate(task Models.Task, candidate Models.EODUpdate) error {
	if candidate.Progress < task.CurrentProgress() {
		return ErrProgressRegression
	}

	if candidate.Status == Models.StatusCompleted && candidate.Progress != 100 {
		return ErrIncompleteCompletion
	}

	if r.RequireBlockerDisclosure &&
		candidate.Progress < 50 && !candidate.HasBlockers() {
		return ErrMissingBlockerDisclosure
	}

	return nil
}
