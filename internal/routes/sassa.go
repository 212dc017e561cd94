package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/sassa"
)

// RegisterSassaRoutes wires grant account and balance endpoints.
func RegisterSassaRoutes(r fiber.Router, h *sassa.Handler) {
	r.Get("/user/balance", h.UserBalance)

	group := r.Group("/sassa-accounts")
	group.Post("/link", h.Link)
	group.Get("/active", h.Active)
	group.Get("/payment-schedule", h.PaymentSchedule)
	group.Get("/:sassaAccountId/balance", h.AccountBalance)
	group.Delete("/:sassaAccountId/unlink", h.Unlink)
}
