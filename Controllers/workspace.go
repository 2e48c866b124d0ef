package Controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Workspace/Config"
	"Workspace/Models"
)

// WorkspaceController exposes the single-document fetch and overwrite
// operations the sync clients poll against.
type WorkspaceController struct {
	DB     *gorm.DB
	Config Config.Config
}

func NewWorkspaceController(db *gorm.DB, cfg Config.Config) *WorkspaceController {
	return &WorkspaceController{DB: db, Config: cfg}
}

// GetData returns the full workspace document, initializing and persisting
// the default document (empty tasks, starter roster) on first-ever access.
func (w *WorkspaceController) GetData(c *fiber.Ctx) error {
	row, err := Models.FetchRow(w.DB)
	if err != nil {
		log.Println("Fetch error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve data from database",
		})
	}

	doc, err := row.Decode()
	if err != nil {
		log.Println("Fetch error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve data from database",
		})
	}

	return c.JSON(fiber.Map{
		"id":          Models.MainStorageID,
		"tasks":       doc.Tasks,
		"teamMembers": doc.TeamMembers,
		"lastUpdated": row.LastUpdated,
	})
}

type syncRequest struct {
	Tasks       []Models.Task `json:"tasks"`
	TeamMembers []string      `json:"teamMembers"`
	Passcode    string        `json:"passcode"`
}

// SyncState overwrites the entire workspace document. Exactly two passcode
// literals are accepted; any other value is a 403. The document is replaced
// wholesale (no merging) and the server stamps lastUpdated. A malformed
// body is rejected before anything is written, never partially applied.
func (w *WorkspaceController) SyncState(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Malformed sync payload",
		})
	}

	if req.Passcode != w.Config.LeadPasscode && req.Passcode != w.Config.MemberPasscode {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Access Denied: Invalid Passcode",
		})
	}

	lastUpdated, err := Models.OverwriteDocument(w.DB, Models.Document{
		Tasks:       req.Tasks,
		TeamMembers: req.TeamMembers,
	})
	if err != nil {
		log.Println("Sync error:", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to synchronize state",
		})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"message":     "State synchronized",
		"lastUpdated": lastUpdated,
	})
}
