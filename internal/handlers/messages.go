package handlers

import (
	"log/slog"

	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/notify"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type MessageRequest struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateMessage stores a contact form submission and forwards it to the
// shop inbox. A failed notification does not fail the request.
func CreateMessage(st *store.Store, gate *validation.Gate, mailer notify.Mailer, inbox string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req MessageRequest
		if err := gate.Decode(validation.SchemaMessage, payload, &req); err != nil {
			return err
		}

		msg := models.Message{Email: req.Email, Subject: req.Subject, Message: req.Message}
		if err := st.CreateMessage(c.UserContext(), &msg); err != nil {
			return err
		}

		if mailer != nil && inbox != "" {
			err := mailer.Send(c.UserContext(), notify.Mail{
				To:      inbox,
				Subject: "New contact message: " + msg.Subject,
				Body:    "From " + msg.Email + ":\n" + msg.Message,
			})
			if err != nil {
				slog.Warn("contact notification not sent", "message", msg.ID, "error", err)
			}
		}

		return respond(c, fiber.StatusCreated, "Message sent successfully", msg)
	}
}

// GetMessages lists messages newest first; ?unread=true hides read ones.
func GetMessages(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := st.ListMessages(c.UserContext(), c.QueryBool("unread", false))
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Messages retrieved", list)
	}
}

func ToggleMessageRead(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		msg, err := st.ToggleMessageRead(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Message updated", msg)
	}
}
