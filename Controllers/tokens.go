package Controllers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"Workspace/Models"
)

// TokenController registers FCM device tokens per team member.
type TokenController struct {
	DB *gorm.DB
}

func NewTokenController(db *gorm.DB) *TokenController {
	return &TokenController{DB: db}
}

// RegisterToken stores or refreshes the device token for a member.
func (t *TokenController) RegisterToken(c *fiber.Ctx) error {
	var req Models.RegisterTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Member == "" || req.Value == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Member and token value are required"})
	}

	var token Models.MemberToken
	err := t.DB.Where("member = ?", req.Member).
		FirstOrCreate(&token, Models.MemberToken{Member: req.Member, Value: req.Value}).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register token"})
	}

	if token.Value != req.Value {
		token.Value = req.Value
		if err := t.DB.Save(&token).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update token"})
		}
	}

	return c.JSON(fiber.Map{"message": "Token registered", "member": token.Member})
}
