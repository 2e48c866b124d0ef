package Controllers

import (
	"github.com/gofiber/fiber/v2"

	"Workspace/Config"
	"Workspace/middleware"
)

// AuthController maps the two shared passcodes to roles and manages the
// session cookie.
type AuthController struct {
	Config Config.Config
}

func NewAuthController(cfg Config.Config) *AuthController {
	return &AuthController{Config: cfg}
}

type loginRequest struct {
	Passcode string `json:"passcode"`
}

// Login exchanges a passcode for a role session. The lead passcode grants
// the private role, the member passcode the public role; anything else is
// rejected.
func (a *AuthController) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	var role string
	switch req.Passcode {
	case a.Config.LeadPasscode:
		role = middleware.RoleLead
	case a.Config.MemberPasscode:
		role = middleware.RoleMember
	default:
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Invalid Passcode"})
	}

	if err := middleware.IssueSession(c, role); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session"})
	}

	return c.JSON(fiber.Map{"role": role})
}

// Logout clears the session cookie.
func (a *AuthController) Logout(c *fiber.Ctx) error {
	middleware.ClearSession(c)
	return c.JSON(fiber.Map{"message": "Logged out"})
}
