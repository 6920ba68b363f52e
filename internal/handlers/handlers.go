package handlers

import (
	"log/slog"
	"time"

	"pizza-builder-backend/internal/store"

	"github.com/gofiber/fiber/v2"
)

// Health reports whether the API and its database answer.
func Health(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := st.Ping(c.UserContext()); err != nil {
			slog.Error("health check failed", "error", err)
			return fail(c, fiber.StatusServiceUnavailable, "Database unavailable")
		}
		return respond(c, fiber.StatusOK, "API Ready", fiber.Map{"status": "Running"})
	}
}

// GetSalesReport summarises orders between ?start_date and ?end_date
// (YYYY-MM-DD, both inclusive and optional).
func GetSalesReport(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startDateStr := c.Query("start_date")
		endDateStr := c.Query("end_date")

		var startDate, endDate time.Time
		var err error

		if startDateStr != "" {
			startDate, err = time.Parse("2006-01-02", startDateStr)
			if err != nil {
				return fail(c, fiber.StatusBadRequest, "Invalid start_date format. Use YYYY-MM-DD")
			}
		}

		if endDateStr != "" {
			endDate, err = time.Parse("2006-01-02", endDateStr)
			if err != nil {
				return fail(c, fiber.StatusBadRequest, "Invalid end_date format. Use YYYY-MM-DD")
			}
			endDate = endDate.Add(24*time.Hour - time.Nanosecond)
		}

		if !startDate.IsZero() && !endDate.IsZero() && endDate.Before(startDate) {
			return fail(c, fiber.StatusBadRequest, "end_date must not be before start_date")
		}

		report, err := st.SalesReport(c.UserContext(), startDate, endDate)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Sales report generated", report)
	}
}
