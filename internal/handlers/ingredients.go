package handlers

import (
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// IngredientRequest is an ingredient payload after the gate.
type IngredientRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ItemType    models.ItemType `json:"itemType"`
	Price       float64         `json:"price"`
}

func (r IngredientRequest) model() models.Ingredient {
	return models.Ingredient{
		Name:        r.Name,
		Description: r.Description,
		ItemType:    r.ItemType,
		Price:       r.Price,
	}
}

// GetIngredients lists the catalog; ?type= narrows it to one item type.
func GetIngredients(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		itemType := models.ItemType(c.Query("type"))
		if itemType != "" && !validItemType(itemType) {
			return fail(c, fiber.StatusBadRequest, "Item type must be one of: Base, Sauce, Meat Topping, Veggie Topping")
		}

		items, err := st.ListIngredients(c.UserContext(), itemType)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Ingredients retrieved", items)
	}
}

func GetIngredient(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		item, err := st.GetIngredient(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Ingredient retrieved", item)
	}
}

// CreateIngredient handles creating a new catalog item
func CreateIngredient(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req IngredientRequest
		if err := gate.Decode(validation.SchemaIngredient, payload, &req); err != nil {
			return err
		}

		item := req.model()
		if err := st.CreateIngredient(c.UserContext(), &item); err != nil {
			return err
		}
		return respond(c, fiber.StatusCreated, "Ingredient created successfully", item)
	}
}

// UpdateIngredient replaces a catalog item. Builders and orders keep the
// values they were created with.
func UpdateIngredient(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req IngredientRequest
		if err := gate.Decode(validation.SchemaIngredient, payload, &req); err != nil {
			return err
		}

		item := req.model()
		item.ID = id
		if err := st.UpdateIngredient(c.UserContext(), &item); err != nil {
			return err
		}

		updated, err := st.GetIngredient(c.UserContext(), id)
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Ingredient updated successfully", updated)
	}
}

// DeleteIngredient handles deleting a catalog item
func DeleteIngredient(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		if err := st.DeleteIngredient(c.UserContext(), id); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Ingredient deleted successfully", nil)
	}
}

func validItemType(t models.ItemType) bool {
	for _, it := range models.ItemTypes {
		if it == t {
			return true
		}
	}
	return false
}
