package history

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the combined payment history endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a payment history handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// History serves one page of combined history using query parameter filters.
// Unparseable filter values are ignored rather than rejected.
func (h *Handler) History(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)

	filter := Filter{
		Type:          c.Query("transactionType"),
		Status:        c.Query("status"),
		Page:          c.QueryInt("page"),
		Size:          c.QueryInt("size", 20),
		SortDirection: c.Query("sortDirection", "DESC"),
	}
	if from, ok := parseDate(c.Query("fromDate")); ok {
		filter.From = &from
	}
	if to, ok := parseDate(c.Query("toDate")); ok {
		filter.To = &to
	}

	return h.respond(c, uid, filter)
}

// Search serves one page of combined history using a JSON filter body.
func (h *Handler) Search(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	var filter Filter
	if err := c.BodyParser(&filter); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return h.respond(c, uid, filter)
}

func (h *Handler) respond(c *fiber.Ctx, userID string, filter Filter) error {
	page, err := h.service.History(c.UserContext(), userID, filter)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(page)
}

// DownloadCSV streams the user's full history as a CSV attachment.
func (h *Handler) DownloadCSV(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	data, err := h.service.ExportCSV(c.UserContext(), uid, time.Now().UTC())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=payment_history.csv`)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Status(http.StatusOK).Send(data)
}

// DownloadStatement streams the user's full history as a plain text
// statement attachment.
func (h *Handler) DownloadStatement(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	data, err := h.service.ExportStatement(c.UserContext(), uid, time.Now().UTC())
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	c.Set(fiber.HeaderContentDisposition, `attachment; filename=payment_history.txt`)
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(http.StatusOK).Send(data)
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
