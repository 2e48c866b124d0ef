package Store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/exp/rand"

	"Workspace/Models"
	"Workspace/Validation"
)

// Rejection reasons for workspace mutations beyond the update validator's.
var (
	ErrLeadRequired    = errors.New("this action requires lead privilege")
	ErrTaskNotFound    = errors.New("task not found")
	ErrDuplicateMember = errors.New("a team member with this name already exists")
	ErrMemberNotFound  = errors.New("team member not found")
	ErrEmptyMemberName = errors.New("member name cannot be empty")
)

// Workspace is the authoritative in-memory state for one session: the task
// list plus the team roster. It is the only component that mutates task
// records; every mutation runs through the validators, and every successful
// mutation hands a snapshot to the mutation hook so the sync client can
// push it.
type Workspace struct {
	mu      sync.RWMutex
	tasks   []Models.Task
	members []string
	rules   Validation.UpdateRules

	onMutate func(Models.Document)
	rng      *rand.Rand
	now      func() time.Time
}

func NewWorkspace(rules Validation.UpdateRules) *Workspace {
	return &Workspace{
		rules: rules,
		rng:   rand.New(rand.NewSource(uint64(time.Now().UnixNano()))),
		now:   time.Now,
	}
}

// SetMutationHook registers the callback invoked with a full snapshot after
// every successful mutation. The hook runs outside the store's lock.
func (w *Workspace) SetMutationHook(fn func(Models.Document)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onMutate = fn
}

// SetClock overrides the time source. Tests only.
func (w *Workspace) SetClock(now func() time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.now = now
}

// Snapshot returns a deep copy of the current state, safe to serialize
// while mutations continue.
func (w *Workspace) Snapshot() Models.Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

// Replace swaps in remote state wholesale. The remote document is
// authoritative on read, so no validation runs and the mutation hook does
// not fire (a fetch must never trigger a push).
func (w *Workspace) Replace(doc Models.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks = copyTasks(doc.Tasks)
	w.members = append([]string(nil), doc.TeamMembers...)
}

// AddTask inserts a task with a freshly generated id. Only required-field
// presence is checked; anything else about the definition is the lead's
// business.
func (w *Workspace) AddTask(task Models.Task) (Models.Task, error) {
	if err := Validation.ValidateTaskDefinition(task); err != nil {
		return Models.Task{}, err
	}

	w.mu.Lock()
	task.ID = w.generateID()
	if task.Updates == nil {
		task.Updates = []Models.EODUpdate{}
	}
	task.Touch(w.now())
	w.tasks = append(w.tasks, task)
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return task, nil
}

// DeleteTask removes a task entirely. Irreversible: there is no tombstone.
func (w *Workspace) DeleteTask(id string, lead bool) error {
	if !lead {
		return ErrLeadRequired
	}

	w.mu.Lock()
	idx := w.indexLocked(id)
	if idx < 0 {
		w.mu.Unlock()
		return ErrTaskNotFound
	}
	w.tasks = append(w.tasks[:idx], w.tasks[idx+1:]...)
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// AppendUpdate routes a candidate EOD report through the update validator
// and appends it on success. On rejection the store is unchanged and the
// reason is returned to the caller.
func (w *Workspace) AppendUpdate(taskID string, update Models.EODUpdate) error {
	if err := Validation.ValidateUpdateShape(update); err != nil {
		return err
	}

	w.mu.Lock()
	idx := w.indexLocked(taskID)
	if idx < 0 {
		w.mu.Unlock()
		return ErrTaskNotFound
	}
	if err := w.rules.Validate(w.tasks[idx], update); err != nil {
		w.mu.Unlock()
		return err
	}
	if update.Date.IsZero() {
		update.Date = w.now()
	}
	w.tasks[idx].Updates = append(w.tasks[idx].Updates, update)
	w.tasks[idx].Touch(w.now())
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// AppendComment appends lead feedback to a task. Content is free text; no
// validation beyond the privilege check.
func (w *Workspace) AppendComment(taskID, text string, lead bool) error {
	if !lead {
		return ErrLeadRequired
	}

	w.mu.Lock()
	idx := w.indexLocked(taskID)
	if idx < 0 {
		w.mu.Unlock()
		return ErrTaskNotFound
	}
	w.tasks[idx].LeadComments = append(w.tasks[idx].LeadComments, text)
	w.tasks[idx].Touch(w.now())
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// SetHealth overwrites the lead-declared health status of a task.
func (w *Workspace) SetHealth(taskID string, health Models.HealthStatus, lead bool) error {
	if !lead {
		return ErrLeadRequired
	}

	w.mu.Lock()
	idx := w.indexLocked(taskID)
	if idx < 0 {
		w.mu.Unlock()
		return ErrTaskNotFound
	}
	w.tasks[idx].HealthStatus = health
	w.tasks[idx].Touch(w.now())
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// AddMember adds a name to the roster. Names are unique.
func (w *Workspace) AddMember(name string, lead bool) error {
	if !lead {
		return ErrLeadRequired
	}
	if name == "" {
		return ErrEmptyMemberName
	}

	w.mu.Lock()
	for _, m := range w.members {
		if m == name {
			w.mu.Unlock()
			return ErrDuplicateMember
		}
	}
	w.members = append(w.members, name)
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// RemoveMember removes a name from the roster. Destructive and not
// reversible; confirmation semantics belong to the caller, which can use
// HasOpenTasks to warn about in-flight work first.
func (w *Workspace) RemoveMember(name string, lead bool) error {
	if !lead {
		return ErrLeadRequired
	}

	w.mu.Lock()
	idx := -1
	for i, m := range w.members {
		if m == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		w.mu.Unlock()
		return ErrMemberNotFound
	}
	w.members = append(w.members[:idx], w.members[idx+1:]...)
	snapshot := w.snapshotLocked()
	hook := w.onMutate
	w.mu.Unlock()

	w.fire(hook, snapshot)
	return nil
}

// HasOpenTasks reports whether a member is assigned any task that is not
// yet completed.
func (w *Workspace) HasOpenTasks(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for i := range w.tasks {
		if w.tasks[i].Assignee == name && !w.tasks[i].IsCompleted() {
			return true
		}
	}
	return false
}

// Task returns a copy of the task with the given id.
func (w *Workspace) Task(id string) (Models.Task, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	idx := w.indexLocked(id)
	if idx < 0 {
		return Models.Task{}, false
	}
	return copyTask(w.tasks[idx]), true
}

func (w *Workspace) snapshotLocked() Models.Document {
	doc := Models.Document{
		Tasks:       copyTasks(w.tasks),
		TeamMembers: append([]string{}, w.members...),
	}
	if doc.Tasks == nil {
		doc.Tasks = []Models.Task{}
	}
	return doc
}

func (w *Workspace) indexLocked(id string) int {
	for i := range w.tasks {
		if w.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (w *Workspace) generateID() string {
	return fmt.Sprintf("task-%d-%06x", w.now().UnixMilli(), w.rng.Uint32()&0xffffff)
}

func (w *Workspace) fire(hook func(Models.Document), snapshot Models.Document) {
	if hook != nil {
		hook(snapshot)
	}
}

func copyTasks(tasks []Models.Task) []Models.Task {
	if tasks == nil {
		return []Models.Task{}
	}
	out := make([]Models.Task, len(tasks))
	for i := range tasks {
		out[i] = copyTask(tasks[i])
	}
	return out
}

func copyTask(t Models.Task) Models.Task {
	t.Updates = append([]Models.EODUpdate{}, t.Updates...)
	if t.LeadComments != nil {
		t.LeadComments = append([]string{}, t.LeadComments...)
	}
	return t
}
