package orders

import (
	"context"
	"errors"
	"fmt"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
)

var ErrInvalidTransition = errors.New("invalid status transition")

var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.StatusProcessing: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {models.StatusDelivered, models.StatusArchived},
	models.StatusDelivered:  {models.StatusArchived},
	models.StatusCancelled:  {models.StatusArchived},
}

// Next lists the statuses reachable from current in one step.
func Next(current models.OrderStatus) []models.OrderStatus {
	return append([]models.OrderStatus(nil), transitions[current]...)
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func Transition(from, to models.OrderStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// StatusStore is the persistence needed to move an order along.
type StatusStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error
}

// ChangeStatus applies an admin-triggered transition and returns the updated
// order. The write is conditional on the status read, so a concurrent change
// surfaces as the store's conflict error.
func ChangeStatus(ctx context.Context, st StatusStore, id uuid.UUID, to models.OrderStatus) (*models.Order, error) {
	order, err := st.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Transition(order.Status, to); err != nil {
		return nil, err
	}
	if err := st.UpdateOrderStatus(ctx, id, order.Status, to); err != nil {
		return nil, err
	}
	order.Status = to
	order.IsArchived = to == models.StatusArchived
	return order, nil
}
