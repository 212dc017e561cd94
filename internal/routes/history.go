package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/history"
)

// RegisterHistoryRoutes wires the combined payment history and its file
// exports.
func RegisterHistoryRoutes(r fiber.Router, h *history.Handler) {
	group := r.Group("/payment-history")
	group.Get("/", h.History)
	group.Post("/search", h.Search)
	group.Get("/download/csv", h.DownloadCSV)
	group.Get("/download/statement", h.DownloadStatement)
}
