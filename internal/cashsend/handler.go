package cashsend

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

// Handler exposes cash send endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a cash send handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send issues a cash send voucher for the authenticated user.
func (h *Handler) Send(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Send(c.UserContext(), Input{
		UserID:         uid,
		Amount:         req.Amount,
		RecipientPhone: req.RecipientPhone,
		RecipientName:  req.RecipientName,
	})
	if err != nil {
		var vErr validation.Error
		switch {
		case errors.Is(err, ledger.ErrDuplicateReference):
			// The ledger already holds this send. Replay its outcome; the
			// voucher details were delivered on the first attempt.
			return c.Status(http.StatusOK).JSON(Response{
				Success:          true,
				Message:          "Cash sent successfully",
				TransactionID:    result.TransactionID,
				ReferenceNumber:  result.ReferenceNumber,
				Amount:           result.Amount,
				Fee:              result.Fee,
				TotalCost:        result.TotalCost,
				RemainingBalance: result.RemainingBalance,
				RecipientPhone:   result.RecipientPhone,
				RecipientName:    result.RecipientName,
				Timestamp:        result.CompletedAt,
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
		Success:          true,
		Message:          "Cash sent successfully",
		TransactionID:    result.TransactionID,
		ReferenceNumber:  result.ReferenceNumber,
		Amount:           result.Amount,
		Fee:              result.Fee,
		TotalCost:        result.TotalCost,
		RemainingBalance: result.RemainingBalance,
		VoucherCode:      result.VoucherCode,
		CollectionPin:    result.CollectionPin,
		RecipientPhone:   result.RecipientPhone,
		RecipientName:    result.RecipientName,
		ExpiresAt:        result.ExpiresAt,
		Timestamp:        result.CompletedAt,
	})
}

// History lists the user's recent cash sends.
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

// CalculateCost returns the fee breakdown for a prospective amount.
func (h *Handler) CalculateCost(c *fiber.Ctx) error {
	amount, err := money.Parse(c.Query("amount"))
	if err != nil || amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "Please enter a valid amount")
	}
	return c.Status(http.StatusOK).JSON(CostResponse{
		Success:   true,
		Amount:    amount,
		Fee:       Fee,
		TotalCost: TotalCost(amount),
	})
}
