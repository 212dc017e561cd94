package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/relief-hub/relief_hub/internal/admin"
	"github.com/relief-hub/relief_hub/internal/sassa"
)

// RegisterAdminRoutes wires the user management console and grant payment
// runs. The create and delete paths keep their historical shapes for
// existing console clients.
func RegisterAdminRoutes(r fiber.Router, h *admin.Handler, sh *sassa.Handler) {
	r.Get("/admin/users", h.ListUsers)
	r.Get("/admin/users/stats", h.Stats)
	r.Post("/add/users", h.CreateUser)
	r.Put("/admin/users/:id", h.UpdateUser)
	r.Post("/admin/users/:id/activate", h.ActivateUser)
	r.Post("/admin/users/:id/suspend", h.SuspendUser)
	r.Delete("/admin/delete/:id", h.DeleteUser)
	r.Post("/admin/grants/run-payments", sh.RunDueDisbursements)
}
