package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/store"
)

type Counts struct {
	Builders int
	Orders   int
	Messages int
}

type Summary struct {
	Ingredients int
	Builders    int
	Orders      int
	Messages    int
}

type Seeder struct {
	Store *store.Store
	Gen   Generator
}

// Run empties the sample collections and refills them. Users are left alone.
func (s *Seeder) Run(ctx context.Context, c Counts) (*Summary, error) {
	for _, model := range []any{&models.OrderItem{}, &models.Order{}, &models.Builder{}, &models.Ingredient{}, &models.Message{}} {
		n, err := s.Store.DeleteMany(ctx, model)
		if err != nil {
			return nil, fmt.Errorf("clear %T: %w", model, err)
		}
		slog.Info("cleared collection", "model", fmt.Sprintf("%T", model), "deleted", n)
	}

	sum := &Summary{}

	ingredients := s.Gen.Ingredients()
	if len(ingredients) > 0 {
		if err := s.Store.InsertMany(ctx, &ingredients); err != nil {
			return nil, fmt.Errorf("insert ingredients: %w", err)
		}
	}
	sum.Ingredients = len(ingredients)

	builders := s.Gen.Builders(ingredients, c.Builders)
	if len(builders) > 0 {
		if err := s.Store.InsertMany(ctx, &builders); err != nil {
			return nil, fmt.Errorf("insert builders: %w", err)
		}
	}
	sum.Builders = len(builders)

	orderList, err := s.Gen.Orders(builders, c.Orders)
	if err != nil {
		return nil, fmt.Errorf("generate orders: %w", err)
	}
	if len(orderList) > 0 {
		if err := s.Store.InsertMany(ctx, &orderList); err != nil {
			return nil, fmt.Errorf("insert orders: %w", err)
		}
	}
	sum.Orders = len(orderList)

	messages := s.Gen.Messages(c.Messages)
	if len(messages) > 0 {
		if err := s.Store.InsertMany(ctx, &messages); err != nil {
			return nil, fmt.Errorf("insert messages: %w", err)
		}
	}
	sum.Messages = len(messages)

	slog.Info("seed complete",
		"ingredients", sum.Ingredients,
		"builders", sum.Builders,
		"orders", sum.Orders,
		"messages", sum.Messages)
	return sum, nil
}

// EnsureAdmin creates an admin account unless the email is already taken.
// It reports whether a new account was created.
func EnsureAdmin(ctx context.Context, st *store.Store, email, password string) (bool, error) {
	hash, err := middleware.HashPassword(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	err = st.CreateUser(ctx, &models.User{
		Email:     email,
		Password:  hash,
		FirstName: "Admin",
		LastName:  "User",
		Role:      models.RoleAdmin,
		Status:    models.UserActive,
	})
	if errors.Is(err, store.ErrDuplicate) {
		slog.Info("admin already exists", "email", email)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	slog.Info("admin created", "email", email)
	return true, nil
}
