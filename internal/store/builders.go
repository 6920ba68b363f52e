package store

import (
	"context"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreateBuilder(ctx context.Context, b *models.Builder) error {
	return translate(s.db(ctx).Create(b).Error)
}

// ListTemplates returns the admin-made pizzas offered on the storefront.
func (s *Store) ListTemplates(ctx context.Context) ([]models.Builder, error) {
	var out []models.Builder
	if err := s.db(ctx).Where("is_template = ?", true).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func (s *Store) GetBuilder(ctx context.Context, id uuid.UUID) (*models.Builder, error) {
	var b models.Builder
	if err := s.db(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

// BuildersByID satisfies orders.BuilderPrices.
func (s *Store) BuildersByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Builder, error) {
	out := make(map[uuid.UUID]models.Builder, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var list []models.Builder
	if err := s.db(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, translate(err)
	}
	for _, b := range list {
		out[b.ID] = b
	}
	return out, nil
}

func (s *Store) SetBuilderImage(ctx context.Context, id uuid.UUID, img *models.ImageMeta) error {
	res := s.db(ctx).Model(&models.Builder{ID: id}).Select("image").Updates(&models.Builder{Image: img})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteBuilder(ctx context.Context, id uuid.UUID) error {
	res := s.db(ctx).Delete(&models.Builder{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
