package store

import (
	"context"

	"pizza-builder-backend/internal/models"

	"github.com/google/uuid"
)

func (s *Store) CreateIngredient(ctx context.Context, item *models.Ingredient) error {
	return translate(s.db(ctx).Create(item).Error)
}

// ListIngredients returns the catalog, optionally limited to one item type.
func (s *Store) ListIngredients(ctx context.Context, itemType models.ItemType) ([]models.Ingredient, error) {
	q := s.db(ctx).Order("item_type, name")
	if itemType != "" {
		q = q.Where("item_type = ?", itemType)
	}
	var items []models.Ingredient
	if err := q.Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	return items, nil
}

func (s *Store) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var item models.Ingredient
	if err := s.db(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// IngredientsByID loads the given ids; missing ids are simply absent from the map.
func (s *Store) IngredientsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Ingredient, error) {
	out := make(map[uuid.UUID]models.Ingredient, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []models.Ingredient
	if err := s.db(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, translate(err)
	}
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}

func (s *Store) UpdateIngredient(ctx context.Context, item *models.Ingredient) error {
	res := s.db(ctx).Model(&models.Ingredient{}).Where("id = ?", item.ID).Updates(map[string]any{
		"name":        item.Name,
		"description": item.Description,
		"item_type":   item.ItemType,
		"price":       item.Price,
	})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteIngredient(ctx context.Context, id uuid.UUID) error {
	res := s.db(ctx).Delete(&models.Ingredient{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
