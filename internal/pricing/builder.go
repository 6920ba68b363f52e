package pricing

import (
	"context"
	"fmt"

	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/validation"

	"github.com/google/uuid"
)

// Catalog looks up ingredients by id.
type Catalog interface {
	IngredientsByID(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Ingredient, error)
}

// BuildRequest is a pizzaBuilder payload after it passed the gate.
type BuildRequest struct {
	PizzaName     string             `json:"pizzaName"`
	Base          []models.Selection `json:"base"`
	Sauce         *models.Selection  `json:"sauce"`
	MeatTopping   []models.Selection `json:"meatTopping"`
	VeggieTopping []models.Selection `json:"veggieTopping"`
	PizzaPrice    *float64           `json:"pizzaPrice"`
	IsTemplate    bool               `json:"isTemplate"`
}

type Service struct {
	Catalog Catalog
}

func NewService(catalog Catalog) *Service {
	return &Service{Catalog: catalog}
}

// Build resolves catalog references, prices the pizza and checks the price
// the client declared. The returned builder is not persisted.
func (s *Service) Build(ctx context.Context, req BuildRequest) (*models.Builder, error) {
	b := &models.Builder{
		PizzaName:     req.PizzaName,
		Base:          cloneSelections(req.Base),
		MeatTopping:   cloneSelections(req.MeatTopping),
		VeggieTopping: cloneSelections(req.VeggieTopping),
		IsTemplate:    req.IsTemplate,
	}
	if req.Sauce != nil {
		sauce := *req.Sauce
		b.Sauce = &sauce
	}

	if err := s.resolve(ctx, b); err != nil {
		return nil, err
	}

	b.PizzaPrice = BuildPrice(b.Base, b.Sauce, b.MeatTopping, b.VeggieTopping)
	if err := VerifyPrice("pizzaPrice", req.PizzaPrice, b.PizzaPrice); err != nil {
		return nil, err
	}
	return b, nil
}

type group struct {
	field    string
	itemType models.ItemType
	items    []models.Selection
	topping  bool
}

func (s *Service) resolve(ctx context.Context, b *models.Builder) error {
	groups := []group{
		{field: "base", itemType: models.ItemTypeBase, items: b.Base},
		{field: "meatTopping", itemType: models.ItemTypeMeat, items: b.MeatTopping, topping: true},
		{field: "veggieTopping", itemType: models.ItemTypeVeggie, items: b.VeggieTopping, topping: true},
	}
	if b.Sauce != nil {
		groups = append(groups, group{field: "sauce", itemType: models.ItemTypeSauce, items: []models.Selection{*b.Sauce}})
	}

	var ids []uuid.UUID
	for _, g := range groups {
		for _, sel := range g.items {
			if sel.IngredientID != nil {
				ids = append(ids, *sel.IngredientID)
			}
		}
	}

	var catalog map[uuid.UUID]models.Ingredient
	if len(ids) > 0 && s.Catalog != nil {
		var err error
		catalog, err = s.Catalog.IngredientsByID(ctx, ids)
		if err != nil {
			return fmt.Errorf("load ingredients: %w", err)
		}
	}

	errs := &validation.Errors{}
	for _, g := range groups {
		for i := range g.items {
			sel := &g.items[i]
			path := g.field
			if g.field != "sauce" {
				path = fmt.Sprintf("%s[%d]", g.field, i)
			}

			if sel.IngredientID != nil {
				item, ok := catalog[*sel.IngredientID]
				if !ok {
					errs.Add(path+".id", "Ingredient not found")
					continue
				}
				sel.Name = item.Name
				sel.ItemType = item.ItemType
				sel.Price = item.Price
			} else if sel.Name == "" {
				errs.Add(path+".name", "Name is required when no ingredient id is given")
				continue
			}

			if sel.ItemType == "" {
				sel.ItemType = g.itemType
			}
			if sel.ItemType != g.itemType {
				errs.Add(path+".itemType", fmt.Sprintf("Item type must be %s", g.itemType))
			}
			if g.topping && sel.Amount < 1 {
				sel.Amount = 1
			}
			if !g.topping {
				sel.Amount = 0
			}
		}
	}
	if g := groups[len(groups)-1]; g.field == "sauce" {
		b.Sauce = &g.items[0]
	}
	return errs.Err()
}

func cloneSelections(in []models.Selection) []models.Selection {
	if in == nil {
		return []models.Selection{}
	}
	out := make([]models.Selection, len(in))
	copy(out, in)
	return out
}
