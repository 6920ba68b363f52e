// Package seed fills a database with sample data for local development.
// Nothing in the API imports it.
package seed

import (
	"fmt"
	"time"

	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/pricing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
)

// Generator produces sample records. Implementations decide what the data
// looks like; the Seeder only stores it.
type Generator interface {
	Ingredients() []models.Ingredient
	Builders(catalog []models.Ingredient, n int) []models.Builder
	Orders(builders []models.Builder, n int) ([]models.Order, error)
	Messages(n int) []models.Message
}

var catalogNames = map[models.ItemType][]string{
	models.ItemTypeBase:   {"Thin Crust", "Hand Tossed", "Deep Dish", "Gluten Free"},
	models.ItemTypeSauce:  {"Tomato", "Pesto", "BBQ", "Garlic Cream"},
	models.ItemTypeMeat:   {"Pepperoni", "Ham", "Italian Sausage", "Bacon", "Grilled Chicken"},
	models.ItemTypeVeggie: {"Mushroom", "Red Onion", "Green Pepper", "Black Olive", "Spinach", "Jalapeno"},
}

// FakeGenerator builds data with gofakeit. A fixed seed gives a repeatable
// data set; seed 0 is random.
type FakeGenerator struct {
	f          *gofakeit.Faker
	nextNumber func() (int64, error)
}

// numberTries bounds how often a colliding order number is redrawn.
const numberTries = 10

func NewFakeGenerator(seed uint64) *FakeGenerator {
	return &FakeGenerator{f: gofakeit.New(seed), nextNumber: orders.NewOrderNumber}
}

func (g *FakeGenerator) Ingredients() []models.Ingredient {
	var out []models.Ingredient
	for _, t := range models.ItemTypes {
		for _, name := range catalogNames[t] {
			out = append(out, models.Ingredient{
				ID:          uuid.New(),
				Name:        name,
				Description: g.f.Sentence(6),
				ItemType:    t,
				Price:       pricing.Round2(g.f.Price(0.5, 4)),
			})
		}
	}
	return out
}

func (g *FakeGenerator) Builders(catalog []models.Ingredient, n int) []models.Builder {
	byType := make(map[models.ItemType][]models.Ingredient)
	for _, it := range catalog {
		byType[it.ItemType] = append(byType[it.ItemType], it)
	}

	out := make([]models.Builder, 0, n)
	for i := 0; i < n; i++ {
		b := models.Builder{
			ID:            uuid.New(),
			PizzaName:     g.f.Adjective() + " " + g.f.Noun() + " Pizza",
			Base:          g.pick(byType[models.ItemTypeBase], 1, false),
			MeatTopping:   g.pick(byType[models.ItemTypeMeat], g.f.IntRange(0, 3), true),
			VeggieTopping: g.pick(byType[models.ItemTypeVeggie], g.f.IntRange(0, 3), true),
			IsTemplate:    g.f.Bool(),
		}
		if sauces := g.pick(byType[models.ItemTypeSauce], 1, false); len(sauces) == 1 {
			b.Sauce = &sauces[0]
		}
		b.PizzaPrice = pricing.BuildPrice(b.Base, b.Sauce, b.MeatTopping, b.VeggieTopping)
		out = append(out, b)
	}
	return out
}

// pick copies up to n distinct catalog entries as selections.
func (g *FakeGenerator) pick(items []models.Ingredient, n int, topping bool) []models.Selection {
	out := []models.Selection{}
	if len(items) == 0 {
		return out
	}
	perm := make([]int, len(items))
	for i := range perm {
		perm[i] = i
	}
	g.f.ShuffleInts(perm)
	for _, idx := range perm[:min(n, len(perm))] {
		it := items[idx]
		id := it.ID
		sel := models.Selection{IngredientID: &id, Name: it.Name, ItemType: it.ItemType, Price: it.Price}
		if topping {
			sel.Amount = g.f.IntRange(1, 3)
		}
		out = append(out, sel)
	}
	return out
}

func (g *FakeGenerator) Orders(builders []models.Builder, n int) ([]models.Order, error) {
	out := make([]models.Order, 0, n)
	used := make(map[int64]bool, n)
	end := time.Now()
	start := end.AddDate(0, -3, 0)

	for i := 0; i < n; i++ {
		lines := g.f.IntRange(1, 3)
		items := make([]models.OrderItem, 0, lines)
		for j := 0; j < lines; j++ {
			item := models.OrderItem{Position: j, Quantity: g.f.IntRange(1, 4)}
			if len(builders) > 0 {
				b := builders[g.f.IntRange(0, len(builders)-1)]
				id := b.ID
				item.BuilderID = &id
				item.PizzaName = b.PizzaName
				item.PizzaPrice = b.PizzaPrice
			} else {
				item.PizzaName = g.f.Noun() + " Pizza"
				item.PizzaPrice = pricing.Round2(g.f.Price(8, 25))
			}
			items = append(items, item)
		}

		number, err := g.uniqueNumber(used)
		if err != nil {
			return nil, err
		}

		status := models.OrderStatuses[g.f.IntRange(0, len(models.OrderStatuses)-1)]
		created := g.f.DateRange(start, end)
		out = append(out, models.Order{
			ID:           uuid.New(),
			OrderNumber:  number,
			OrderDetails: items,
			Address: models.Address{
				Street: g.f.Street(),
				City:   g.f.City(),
				State:  g.f.State(),
				Zip:    g.f.Zip(),
			},
			Phone:      g.f.Phone(),
			FirstName:  g.f.FirstName(),
			LastName:   g.f.LastName(),
			Email:      g.f.Email(),
			OrderTotal: pricing.LineTotal(items),
			Status:     status,
			IsArchived: status == models.StatusArchived,
			CreatedAt:  created,
			UpdatedAt:  created,
		})
	}
	return out, nil
}

func (g *FakeGenerator) uniqueNumber(used map[int64]bool) (int64, error) {
	for i := 0; i < numberTries; i++ {
		number, err := g.nextNumber()
		if err != nil {
			return 0, fmt.Errorf("order number: %w", err)
		}
		if number != 0 && !used[number] {
			used[number] = true
			return number, nil
		}
	}
	return 0, fmt.Errorf("order number: %w", orders.ErrOrderNumberExhausted)
}

func (g *FakeGenerator) Messages(n int) []models.Message {
	out := make([]models.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.Message{
			ID:      uuid.New(),
			Email:   g.f.Email(),
			Subject: g.f.Sentence(4),
			Message: g.f.Sentence(20),
			Date:    g.f.Date(),
			IsRead:  g.f.Bool(),
		})
	}
	return out
}
