package store

import (
	"context"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func (s *Store) CreateMessage(ctx context.Context, m *models.Message) error {
	return translate(s.db(ctx).Create(m).Error)
}

func (s *Store) ListMessages(ctx context.Context, unreadOnly bool) ([]models.Message, error) {
	q := s.db(ctx).Order("date desc")
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Message
	if err := q.Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// ToggleMessageRead flips is_read in place and returns the updated message.
func (s *Store) ToggleMessageRead(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var m models.Message
	err := s.db(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Message{}).Where("id = ?", id).Update("is_read", gorm.Expr("NOT is_read"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.First(&m, "id = ?", id).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &m, nil
}
