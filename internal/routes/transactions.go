package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/cashsend"
	"github.com/relief-hub/relief_hub/internal/electricity"
	"github.com/relief-hub/relief_hub/internal/withdraw"
)

// RegisterTransactionRoutes wires the three spend flows.
func RegisterTransactionRoutes(r fiber.Router, w *withdraw.Handler, cs *cashsend.Handler, el *electricity.Handler) {
	r.Post("/withdraw", w.Withdraw)
	r.Get("/withdraw/history", w.History)
	r.Get("/withdraw/banks", w.Banks)

	csGroup := r.Group("/cash-send")
	csGroup.Post("/send", cs.Send)
	csGroup.Get("/history", cs.History)
	csGroup.Get("/calculate-cost", cs.CalculateCost)

	elGroup := r.Group("/electricity")
	elGroup.Post("/purchase", el.Purchase)
	elGroup.Get("/history", el.History)
	elGroup.Get("/calculate-units", el.CalculateUnits)
	elGroup.Get("/municipalities", el.MunicipalityList)
}
