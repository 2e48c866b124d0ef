package Controllers

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"

	"Workspace/Config"
	"Workspace/Models"
	"Workspace/Notifications"
	"Workspace/Status"
	"Workspace/Store"
	"Workspace/Validation"
	"Workspace/middleware"
)

// TaskController is the REST mutation surface. Each operation hydrates the
// stored document into a workspace store, applies the mutation there (so
// the validator gates every submission, in-process or over the wire), and
// persists the resulting snapshot.
type TaskController struct {
	DB     *gorm.DB
	Config Config.Config
	Rules  Validation.UpdateRules
}

func NewTaskController(db *gorm.DB, cfg Config.Config) *TaskController {
	return &TaskController{
		DB:     db,
		Config: cfg,
		Rules:  Validation.UpdateRules{RequireBlockerDisclosure: cfg.RequireBlockers},
	}
}

// hydrate loads the stored document into a fresh workspace store.
func (t *TaskController) hydrate() (*Store.Workspace, error) {
	doc, err := Models.FetchDocument(t.DB)
	if err != nil {
		return nil, err
	}
	ws := Store.NewWorkspace(t.Rules)
	ws.Replace(doc)
	return ws, nil
}

// persist writes the store's snapshot back as the new document.
func (t *TaskController) persist(ws *Store.Workspace) error {
	_, err := Models.OverwriteDocument(t.DB, ws.Snapshot())
	return err
}

func isLead(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == middleware.RoleLead
}

// statusForError maps the mutation error taxonomy onto HTTP statuses.
// Validation rejections are client errors, never fatal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, Store.ErrTaskNotFound), errors.Is(err, Store.ErrMemberNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, Store.ErrLeadRequired):
		return fiber.StatusForbidden
	case errors.Is(err, Store.ErrDuplicateMember),
		errors.Is(err, Store.ErrEmptyMemberName),
		errors.Is(err, Validation.ErrIncompleteTaskDefinition),
		errors.Is(err, Validation.ErrInvalidUpdateShape):
		return fiber.StatusBadRequest
	case errors.Is(err, Validation.ErrProgressRegression),
		errors.Is(err, Validation.ErrIncompleteCompletion),
		errors.Is(err, Validation.ErrMissingBlockerDisclosure):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		log.Println("Workspace error:", err)
		return c.Status(status).JSON(fiber.Map{"error": "Internal error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// CreateTask assigns a new task. Lead only.
func (t *TaskController) CreateTask(c *fiber.Ctx) error {
	var input Models.Task
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}

	task, err := ws.AddTask(input)
	if err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	Notifications.NotifyAssignment(t.DB, task)

	return c.Status(fiber.StatusCreated).JSON(task)
}

// DeleteTask removes a task entirely. Lead only; irreversible.
func (t *TaskController) DeleteTask(c *fiber.Ctx) error {
	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	if err := ws.DeleteTask(c.Params("id"), isLead(c)); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Task deleted"})
}

// AppendUpdate submits an EOD report for a task. Any logged-in session may
// submit; the update validator is the gate.
func (t *TaskController) AppendUpdate(c *fiber.Ctx) error {
	var update Models.EODUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	if err := ws.AppendUpdate(c.Params("id"), update); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	task, _ := ws.Task(c.Params("id"))
	return c.JSON(task)
}

type commentRequest struct {
	Text string `json:"text"`
}

// AppendComment posts lead feedback on a task. Lead only.
func (t *TaskController) AppendComment(c *fiber.Ctx) error {
	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	if err := ws.AppendComment(c.Params("id"), req.Text, isLead(c)); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	task, _ := ws.Task(c.Params("id"))
	return c.JSON(task)
}

type healthRequest struct {
	Health Models.HealthStatus `json:"healthStatus"`
}

// SetHealth overwrites the lead-declared health status. Lead only.
func (t *TaskController) SetHealth(c *fiber.Ctx) error {
	var req healthRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	if err := ws.SetHealth(c.Params("id"), req.Health, isLead(c)); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	task, _ := ws.Task(c.Params("id"))
	return c.JSON(task)
}

type memberRequest struct {
	Name string `json:"name"`
}

// AddMember adds a name to the roster. Lead only; duplicates rejected.
func (t *TaskController) AddMember(c *fiber.Ctx) error {
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	if err := ws.AddMember(req.Name, isLead(c)); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"teamMembers": ws.Snapshot().TeamMembers})
}

// RemoveMember removes a name from the roster. Lead only. The response
// notes whether the member still had open tasks so clients can warn.
func (t *TaskController) RemoveMember(c *fiber.Ctx) error {
	name := c.Params("name")

	ws, err := t.hydrate()
	if err != nil {
		return fail(c, err)
	}
	hadOpenTasks := ws.HasOpenTasks(name)
	if err := ws.RemoveMember(name, isLead(c)); err != nil {
		return fail(c, err)
	}
	if err := t.persist(ws); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"teamMembers":  ws.Snapshot().TeamMembers,
		"hadOpenTasks": hadOpenTasks,
	})
}

type dashboardEntry struct {
	Models.Task
	ScheduleFlag Status.ScheduleFlag `json:"scheduleFlag"`
}

// Dashboard returns active tasks with their derived schedule flags. The
// flag is computed per request against the current clock, never stored.
func (t *TaskController) Dashboard(c *fiber.Ctx) error {
	doc, err := Models.FetchDocument(t.DB)
	if err != nil {
		return fail(c, err)
	}

	now := time.Now()
	entries := []dashboardEntry{}
	for _, task := range doc.Tasks {
		if task.IsCompleted() {
			continue
		}
		entries = append(entries, dashboardEntry{
			Task:         task,
			ScheduleFlag: Status.ComputeScheduleFlag(task, now),
		})
	}

	return c.JSON(entries)
}

type archiveEntry struct {
	Models.Task
	TimeStatus Status.TimeStatus `json:"timeStatus"`
}

// Archive returns completed tasks, most recently delivered first, each with
// its on-time/late classification.
func (t *TaskController) Archive(c *fiber.Ctx) error {
	doc, err := Models.FetchDocument(t.DB)
	if err != nil {
		return fail(c, err)
	}

	now := time.Now()
	entries := []archiveEntry{}
	for _, task := range doc.Tasks {
		if !task.IsCompleted() {
			continue
		}
		entries = append(entries, archiveEntry{
			Task:       task,
			TimeStatus: Status.DeliveryStatus(task, now),
		})
	}

	slices.SortFunc(entries, func(a, b archiveEntry) int {
		switch {
		case a.UpdatedAt > b.UpdatedAt:
			return -1
		case a.UpdatedAt < b.UpdatedAt:
			return 1
		default:
			return 0
		}
	})

	return c.JSON(entries)
}
