package withdraw

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

// Handler exposes withdrawal endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a withdrawal handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Withdraw processes a bank withdrawal for the authenticated user.
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Withdraw(c.UserContext(), Input{
		UserID:            uid,
		Amount:            req.Amount,
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountHolderName: req.AccountHolderName,
	})
	if err != nil {
		var vErr validation.Error
		switch {
		case errors.Is(err, ledger.ErrDuplicateReference):
			// The ledger already holds this withdrawal. Replay its outcome.
			return c.Status(http.StatusOK).JSON(Response{
				Success:             true,
				Message:             "Withdrawal completed successfully",
				TransactionID:       result.TransactionID,
				ReferenceNumber:     result.ReferenceNumber,
				Amount:              result.Amount,
				RemainingBalance:    result.RemainingBalance,
				MaskedAccountNumber: result.MaskedAccountNumber,
				BankName:            result.BankName,
				Timestamp:           result.CompletedAt,
			})
		case errors.As(err, &vErr):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   vErr.Error(),
			})
		case errors.Is(err, ledger.ErrInsufficientBalance):
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "Insufficient balance",
			})
		case errors.Is(err, sassa.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "No active SASSA account found")
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	return c.Status(http.StatusOK).JSON(Response{
		Success:             true,
		Message:             "Withdrawal completed successfully",
		TransactionID:       result.TransactionID,
		ReferenceNumber:     result.ReferenceNumber,
		Amount:              result.Amount,
		RemainingBalance:    result.RemainingBalance,
		MaskedAccountNumber: result.MaskedAccountNumber,
		BankName:            result.BankName,
		Timestamp:           result.CompletedAt,
	})
}

// History lists the user's recent withdrawals.
func (h *Handler) History(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	items, err := h.service.History(c.UserContext(), uid, c.QueryInt("limit"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []HistoryItem{}
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"transactions": items,
	})
}

// Banks lists the supported destination banks.
func (h *Handler) Banks(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"banks":   Banks,
	})
}
