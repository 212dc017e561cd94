// Package admin exposes the user management console endpoints. Every route
// here sits behind the ADMIN role guard.
package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/identity"
)

// Handler serves the admin console API.
type Handler struct {
	users *identity.Service
	repo  identity.Repository
}

// NewHandler constructs an admin handler.
func NewHandler(users *identity.Service, repo identity.Repository) *Handler {
	return &Handler{users: users, repo: repo}
}

type userPayload struct {
	ID            string `json:"id"`
	FullName      string `json:"fullName"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	IDNumber      string `json:"idNumber"`
	Role          string `json:"role"`
	Status        string `json:"status"`
	EmailVerified bool   `json:"emailVerified"`
	PhoneVerified bool   `json:"phoneVerified"`
	CreatedAt     string `json:"createdAt"`
}

func toPayload(u identity.User) userPayload {
	return userPayload{
		ID:            u.ID,
		FullName:      u.FullName,
		Email:         u.Email,
		Phone:         u.Phone,
		IDNumber:      u.IDNumber,
		Role:          u.Role,
		Status:        u.Status(),
		EmailVerified: u.EmailVerified,
		PhoneVerified: u.PhoneVerified,
		CreatedAt:     u.CreatedAt.Format(time.RFC3339),
	}
}

// ListUsers returns a page of users matching the search and status filters.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	page, err := h.repo.List(c.UserContext(), identity.Query{
		Search: strings.TrimSpace(c.Query("search")),
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Page:   c.QueryInt("page"),
		Size:   c.QueryInt("size"),
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	items := make([]userPayload, 0, len(page.Items))
	for _, u := range page.Items {
		items = append(items, toPayload(u))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":       true,
		"users":         items,
		"totalPages":    page.TotalPages,
		"totalElements": page.TotalElements,
	})
}

type createUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IDNumber string `json:"idNumber"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// CreateUser registers a user on behalf of an administrator, optionally with
// the ADMIN role.
func (h *Handler) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	user, err := h.users.Register(c.UserContext(), identity.Credentials{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		IDNumber: req.IDNumber,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, identity.ErrEmailTaken) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if strings.EqualFold(req.Role, identity.RoleAdmin) {
		user.Role = identity.RoleAdmin
		if err := h.repo.Update(c.UserContext(), user); err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User created successfully",
		"user":    toPayload(user),
	})
}

type updateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Role     string `json:"role"`
}

// UpdateUser edits a user's profile fields and role.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	ctx := c.UserContext()
	user, err := h.repo.FindByID(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	if email := strings.ToLower(strings.TrimSpace(req.Email)); email != "" {
		user.Email = email
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		user.Phone = phone
	}
	switch strings.ToUpper(strings.TrimSpace(req.Role)) {
	case identity.RoleAdmin:
		user.Role = identity.RoleAdmin
	case identity.RoleUser:
		user.Role = identity.RoleUser
	}
	user.UpdatedAt = time.Now().UTC()

	if err := h.repo.Update(ctx, user); err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User updated successfully",
		"user":    toPayload(user),
	})
}

// DeleteUser removes a user account.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	if err := h.repo.Delete(c.UserContext(), c.Params("id")); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}

// ActivateUser re-enables a suspended account.
func (h *Handler) ActivateUser(c *fiber.Ctx) error {
	return h.setActive(c, true, "User activated successfully")
}

// SuspendUser disables an account. Suspended users cannot authenticate.
func (h *Handler) SuspendUser(c *fiber.Ctx) error {
	return h.setActive(c, false, "User suspended successfully")
}

func (h *Handler) setActive(c *fiber.Ctx, active bool, message string) error {
	if err := h.repo.SetActive(c.UserContext(), c.Params("id"), active); err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, "User not found")
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
	})
}

// Stats summarizes the user base for the dashboard.
func (h *Handler) Stats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.UserContext())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
