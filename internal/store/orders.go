package store

import (
	"context"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InsertOrder stores the order with its line items in one transaction.
// A clash on order_number comes back as ErrDuplicate.
func (s *Store) InsertOrder(ctx context.Context, order *models.Order) error {
	return translate(s.db(ctx).Create(order).Error)
}

type OrderFilter struct {
	Archived bool
	Limit    int
	Offset   int
}

// ListOrders returns active orders, or the archive when f.Archived is set,
// newest first, together with the total count for pagination.
func (s *Store) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	scope := func() *gorm.DB {
		return s.db(ctx).Model(&models.Order{}).Where("is_archived = ?", f.Archived)
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, translate(err)
	}

	q := scope()
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	var orders []models.Order
	err := q.Preload("OrderDetails", orderItemsByPosition).Order("created_at desc").Find(&orders).Error
	if err != nil {
		return nil, 0, translate(err)
	}
	return orders, total, nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var o models.Order
	if err := s.db(ctx).Preload("OrderDetails", orderItemsByPosition).First(&o, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

func (s *Store) GetOrderByNumber(ctx context.Context, number int64) (*models.Order, error) {
	var o models.Order
	err := s.db(ctx).Preload("OrderDetails", orderItemsByPosition).First(&o, "order_number = ?", number).Error
	if err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// UpdateOrderStatus moves an order from one status to the next. The update is
// conditional on the current status so two admins cannot both apply a
// transition from the same starting point; the loser gets ErrConflict.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to models.OrderStatus) error {
	res := s.db(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":      to,
			"is_archived": to == models.StatusArchived,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

func orderItemsByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
