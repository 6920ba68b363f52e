package handlers

import (
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/notify"
	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// OrderRequest is an order payload after the gate.
type OrderRequest struct {
	OrderDetails []models.OrderItem `json:"orderDetails"`
	Address      models.Address     `json:"address"`
	Phone        string             `json:"phone"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	OrderTotal   *float64           `json:"orderTotal"`
}

type StatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,orderstatus"`
}

// TrackingResponse is what an anonymous customer sees of an order.
type TrackingResponse struct {
	OrderNumber int64              `json:"orderNumber"`
	Status      models.OrderStatus `json:"status"`
	OrderTotal  float64            `json:"orderTotal"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// CreateOrder validates the checkout, lets the composer price and number it,
// then sends a confirmation when the customer left an email.
func CreateOrder(gate *validation.Gate, composer *orders.Composer, mailer notify.Mailer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req OrderRequest
		if err := gate.Decode(validation.SchemaOrder, payload, &req); err != nil {
			return err
		}

		order, err := composer.Compose(c.UserContext(), orders.Draft{
			Items: req.OrderDetails,
			Customer: orders.Customer{
				FirstName: req.FirstName,
				LastName:  req.LastName,
				Phone:     req.Phone,
				Email:     req.Email,
			},
			Address:       req.Address,
			DeclaredTotal: req.OrderTotal,
		})
		if err != nil {
			return err
		}

		slog.Info("order placed", "orderNumber", order.OrderNumber, "total", order.OrderTotal)
		if order.Email != "" && mailer != nil {
			err := mailer.Send(c.UserContext(), notify.Mail{
				To:      order.Email,
				Subject: fmt.Sprintf("Order #%d received", order.OrderNumber),
				Body:    fmt.Sprintf("Thanks %s, your order of $%.2f is being prepared.", order.FirstName, order.OrderTotal),
			})
			if err != nil {
				slog.Warn("order confirmation not sent", "orderNumber", order.OrderNumber, "error", err)
			}
		}

		return respond(c, fiber.StatusCreated, "Order placed successfully", order)
	}
}

// TrackOrder looks an order up by its public number.
func TrackOrder(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		number, err := strconv.ParseInt(c.Params("orderNumber"), 10, 64)
		if err != nil || number <= 0 {
			return fail(c, fiber.StatusBadRequest, "Invalid order number")
		}

		order, err := st.GetOrderByNumber(c.UserContext(), number)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Order retrieved", TrackingResponse{
			OrderNumber: order.OrderNumber,
			Status:      order.Status,
			OrderTotal:  order.OrderTotal,
			CreatedAt:   order.CreatedAt,
		})
	}
}

// GetOrders lists active orders, or archived ones with ?archived=true.
// ?limit and ?offset page through the result.
func GetOrders(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := store.OrderFilter{
			Archived: c.QueryBool("archived", false),
			Limit:    c.QueryInt("limit", 0),
			Offset:   c.QueryInt("offset", 0),
		}
		if filter.Limit < 0 || filter.Offset < 0 {
			return fail(c, fiber.StatusBadRequest, "limit and offset must not be negative")
		}

		list, total, err := st.ListOrders(c.UserContext(), filter)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Orders retrieved", fiber.Map{
			"orders": list,
			"total":  total,
		})
	}
}

func GetOrder(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		order, err := st.GetOrder(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Order retrieved", fiber.Map{
			"order":           order,
			"allowedStatuses": orders.Next(order.Status),
		})
	}
}

// UpdateOrderStatus moves an order through its workflow.
func UpdateOrderStatus(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}

		var req StatusRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := gate.Struct(req); err != nil {
			return err
		}

		order, err := orders.ChangeStatus(c.UserContext(), st, id, req.Status)
		if err != nil {
			return err
		}
		slog.Info("order status changed", "orderNumber", order.OrderNumber, "status", order.Status)
		return respond(c, fiber.StatusOK, "Order status updated", order)
	}
}
