package identity

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes user verification endpoints. Users may verify their own
// contact channels; admins may verify anyone's.
type Handler struct {
	service *Service
}

// NewHandler constructs an identity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// VerifyEmail marks the target user's email address as confirmed.
func (h *Handler) VerifyEmail(c *fiber.Ctx) error {
	userID, err := targetUser(c)
	if err != nil {
		return err
	}
	if err := h.service.VerifyEmail(c.UserContext(), userID); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Email verified successfully",
	})
}

// VerifyPhone marks the target user's phone number as confirmed.
func (h *Handler) VerifyPhone(c *fiber.Ctx) error {
	userID, err := targetUser(c)
	if err != nil {
		return err
	}
	if err := h.service.VerifyPhone(c.UserContext(), userID); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Phone verified successfully",
	})
}

// targetUser resolves the :userId path parameter and enforces the
// self-or-admin guard.
func targetUser(c *fiber.Ctx) (string, error) {
	target := c.Params("userId")
	uid, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("user_role").(string)
	if target != uid && role != RoleAdmin {
		return "", fiber.NewError(http.StatusForbidden, "cannot verify another user")
	}
	return target, nil
}
