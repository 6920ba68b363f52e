// Package orders turns a validated checkout into a stored order: it is the one
// place order totals are recomputed, and it owns order numbering and the
// status workflow.
package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/google/uuid"
)

// ErrOrderNumberExhausted means every generated order number collided.
var ErrOrderNumberExhausted = errors.New("could not allocate a unique order number")

type Inserter interface {
	InsertOrder(ctx context.Context, order *models.Order) error
}

// BuilderPrices resolves stored pizzas referenced by order lines.
type BuilderPrices interface {
	BuildersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Builder, error)
}

type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

// Draft is an order payload that passed the gate.
type Draft struct {
	Items         []models.OrderItem
	Customer      Customer
	Address       models.Address
	DeclaredTotal *float64
}

type Composer struct {
	Store    Inserter
	Builders BuilderPrices
	// Attempts bounds order number generation; 2 means one retry.
	Attempts   int
	NextNumber func() (int64, error)
}

func NewComposer(st Inserter, builders BuilderPrices, attempts int) *Composer {
	return &Composer{Store: st, Builders: builders, Attempts: attempts, NextNumber: NewOrderNumber}
}

// Compose prices the draft, checks the declared total and inserts the order.
// Nothing is stored when the total does not match.
func (c *Composer) Compose(ctx context.Context, d Draft) (*models.Order, error) {
	if len(d.Items) == 0 {
		errs := &validation.Errors{}
		errs.Add("orderDetails", "Order must contain at least one item")
		return nil, errs
	}

	items := make([]models.OrderItem, len(d.Items))
	copy(items, d.Items)
	if err := c.refresh(ctx, items); err != nil {
		return nil, err
	}
	for i := range items {
		items[i].ID = uuid.Nil
		items[i].Position = i
		items[i].PizzaPrice = pricing.Round2(items[i].PizzaPrice)
	}

	total := pricing.LineTotal(items)
	if err := pricing.VerifyPrice("orderTotal", d.DeclaredTotal, total); err != nil {
		return nil, err
	}

	order := &models.Order{
		OrderDetails: items,
		Address:      d.Address,
		Phone:        d.Customer.Phone,
		FirstName:    d.Customer.FirstName,
		LastName:     d.Customer.LastName,
		Email:        d.Customer.Email,
		OrderTotal:   total,
		Status:       models.StatusProcessing,
		IsArchived:   false,
	}
	if err := c.insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func (c *Composer) insert(ctx context.Context, order *models.Order) error {
	attempts := c.Attempts
	if attempts < 1 {
		attempts = 2
	}
	next := c.NextNumber
	if next == nil {
		next = NewOrderNumber
	}

	for i := 0; i < attempts; i++ {
		n, err := next()
		if err != nil {
			return err
		}
		order.OrderNumber = n

		err = c.Store.InsertOrder(ctx, order)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return err
		}
		slog.Warn("order number collision, regenerating", "orderNumber", n, "attempt", i+1)
	}
	return fmt.Errorf("%w after %d attempts", ErrOrderNumberExhausted, attempts)
}

// refresh replaces prices of lines that reference a stored pizza with the
// stored price, so the declared total is checked against server data.
func (c *Composer) refresh(ctx context.Context, items []models.OrderItem) error {
	var ids []uuid.UUID
	for _, it := range items {
		if it.BuilderID != nil {
			ids = append(ids, *it.BuilderID)
		}
	}
	if len(ids) == 0 || c.Builders == nil {
		return nil
	}

	builders, err := c.Builders.BuildersByID(ctx, ids)
	if err != nil {
		return fmt.Errorf("load builders: %w", err)
	}

	errs := &validation.Errors{}
	for i := range items {
		if items[i].BuilderID == nil {
			continue
		}
		b, ok := builders[*items[i].BuilderID]
		if !ok {
			errs.Add(fmt.Sprintf("orderDetails[%d].builderId", i), "Pizza not found")
			continue
		}
		items[i].PizzaPrice = b.PizzaPrice
		items[i].PizzaName = b.PizzaName
	}
	return errs.Err()
}
