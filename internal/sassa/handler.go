package sassa

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes SASSA account and balance endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a SASSA account handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type linkRequest struct {
	SassaNumber string `json:"sassaNumber"`
	GrantType   string `json:"grantType"`
}

type accountResponse struct {
	SassaAccountID string `json:"sassaAccountId"`
	SassaNumber    string `json:"sassaNumber"`
	GrantType      string `json:"grantType"`
	Status         string `json:"status"`
	LinkedAt       string `json:"linkedAt"`
}

func toAccountResponse(a Account) accountResponse {
	return accountResponse{
		SassaAccountID: a.ID,
		SassaNumber:    a.SassaNumber,
		GrantType:      a.GrantType,
		Status:         a.Status,
		LinkedAt:       a.LinkedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Link connects the authenticated user to a SASSA grant account.
func (h *Handler) Link(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req linkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	account, err := h.service.Link(c.UserContext(), LinkInput{
		UserID:      uid,
		SassaNumber: req.SassaNumber,
		GrantType:   req.GrantType,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyLinked) {
			return fiber.NewError(http.StatusConflict, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "SASSA account linked successfully",
		"account": toAccountResponse(account),
	})
}

// Active returns the user's active SASSA account, 404 when none is linked.
func (h *Handler) Active(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	account, err := h.service.Active(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "No active SASSA account found")
	}
	return c.Status(http.StatusOK).JSON(toAccountResponse(account))
}

// UserBalance serves the authoritative balance snapshot for the current user.
// A missing account yields success=false with a safe zero balance.
func (h *Handler) UserBalance(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	details, err := h.service.Details(c.UserContext(), uid)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "No balance information found",
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":         true,
		"balance":         details.Available,
		"pendingBalance":  details.Pending,
		"totalReceived":   details.TotalReceived,
		"totalWithdrawn":  details.TotalWithdrawn,
		"nextPaymentDate": details.NextPaymentDate,
	})
}

// PaymentSchedule serves upcoming grant payment dates for the user's active
// account.
func (h *Handler) PaymentSchedule(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	schedule, err := h.service.ScheduleInfo(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "No active SASSA account found")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":  true,
		"schedule": schedule,
	})
}

// RunDueDisbursements pays all accounts whose payment date has arrived. It
// backs the admin-triggered payment run.
func (h *Handler) RunDueDisbursements(c *fiber.Ctx) error {
	paid, err := h.service.DisburseDue(c.UserContext())
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"success":   false,
			"disbursed": paid,
			"error":     err.Error(),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":   true,
		"disbursed": paid,
	})
}

// AccountBalance serves the balance for a specific SASSA account ID.
func (h *Handler) AccountBalance(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	accountID := c.Params("sassaAccountId")
	balance, err := h.service.BalanceByAccount(c.UserContext(), uid, accountID)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, ErrNotFound) {
			status = http.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Balance retrieved successfully",
		"data":    balance,
	})
}

// Unlink disconnects a SASSA account from the user.
func (h *Handler) Unlink(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	accountID := c.Params("sassaAccountId")
	if err := h.service.Unlink(c.UserContext(), uid, accountID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "SASSA account successfully unlinked",
	})
}
