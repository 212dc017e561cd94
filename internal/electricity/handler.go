package electricity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/ledger"
	"github.com/relief-hub/relief_hub/internal/money"
	"github.com/relief-hub/relief_hub/internal/sassa"
	"github.com/relief-hub/relief_hub/internal/validation"
)

// Handler exposes electricity purchase endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an electricity handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Purchase buys a prepaid token for the authenticated user.
func (h *Handler) Purchase(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var req Request
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Purchase(c.UserContext(), Input{
		UserID:       uid,
		Amount:       req.Amount,
		MeterNumber:  req.MeterNumber,
		Municipality: req.Municipality,
	})
	if err != nil {
		var vErr validation.Error
		switch {
		case errors.Is(err, ledger.ErrDuplicateReference):
			// The token was issued on the original attempt. Replay the
			// posting without it rather than debiting the grant twice.
			return c.Status(http.StatusOK).JSON(Response{
				Success:          true,
				Message:          "Electricity purchased successfully",
				TransactionID:    result.TransactionID,
				ReferenceNumber:  result.ReferenceNumber,
				Amount:           result.Amount,
				Units:            result.Units,
				RemainingBalance: result.RemainingBalance,
				MeterNumber:      result.MeterNumber,
				Municipality:     result.Municipality,
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
		Message:          "Electricity purchased successfully",
		TransactionID:    result.TransactionID,
		ReferenceNumber:  result.ReferenceNumber,
		Amount:           result.Amount,
		Units:            result.Units,
		RemainingBalance: result.RemainingBalance,
		Token:            result.Token,
		MeterNumber:      result.MeterNumber,
		Municipality:     result.Municipality,
		ExpiresAt:        result.ExpiresAt,
		Timestamp:        result.CompletedAt,
	})
}

// History lists the user's recent purchases.
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

// CalculateUnits estimates the kWh a prospective amount buys.
func (h *Handler) CalculateUnits(c *fiber.Ctx) error {
	amount, err := money.Parse(c.Query("amount"))
	if err != nil || amount <= 0 {
		return fiber.NewError(http.StatusBadRequest, "Please enter a valid amount")
	}
	return c.Status(http.StatusOK).JSON(UnitsResponse{
		Success: true,
		Amount:  amount,
		Rate:    Rate,
		Units:   UnitsFor(amount),
	})
}

// MunicipalityList returns the supported distributors.
func (h *Handler) MunicipalityList(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":        true,
		"municipalities": Municipalities,
	})
}
