package handlers

import (
	"errors"
	"log/slog"

	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// RegisterRequest is a user payload after the gate.
type RegisterRequest struct {
	Email     string            `json:"email"`
	Password  string            `json:"password"`
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Status    models.UserStatus `json:"status"`
}

// UpdateUserRequest defines the structure for updating a user
type UpdateUserRequest struct {
	Email     string            `json:"email" validate:"omitempty,email"`
	Password  string            `json:"password" validate:"omitempty,min=6,max=128"` // Password is optional
	FirstName string            `json:"firstName" validate:"omitempty,max=50"`
	LastName  string            `json:"lastName" validate:"omitempty,max=50"`
	Role      models.Role       `json:"role" validate:"omitempty,oneof=admin customer"`
	Status    models.UserStatus `json:"status" validate:"omitempty,oneof=active disabled"`
}

// RegisterCustomer handles public sign-up; the role is always customer.
func RegisterCustomer(st *store.Store, gate *validation.Gate) fiber.Handler {
	return createUser(st, gate, models.RoleCustomer)
}

// CreateAdmin creates an administrator account (admin only).
func CreateAdmin(st *store.Store, gate *validation.Gate) fiber.Handler {
	return createUser(st, gate, models.RoleAdmin)
}

func createUser(st *store.Store, gate *validation.Gate, role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := parseBody(c)
		if err != nil {
			return err
		}
		var req RegisterRequest
		if err := gate.Decode(validation.SchemaUser, payload, &req); err != nil {
			return err
		}

		hashedPassword, err := middleware.HashPassword(req.Password)
		if err != nil {
			slog.Error("Error hashing password", "error", err)
			return fail(c, fiber.StatusInternalServerError, "Error processing request")
		}

		user := models.User{
			Email:     req.Email,
			Password:  hashedPassword,
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Role:      role,
			Status:    models.UserActive,
		}
		if role == models.RoleAdmin && req.Status != "" {
			user.Status = req.Status
		}

		if err := st.CreateUser(c.UserContext(), &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fail(c, fiber.StatusConflict, "Email is already registered")
			}
			return err
		}

		return respond(c, fiber.StatusCreated, "User registered successfully", user)
	}
}

// GetUsers handles fetching all users
func GetUsers(st *store.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := st.ListUsers(c.UserContext())
		if err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "Users retrieved", users)
	}
}

// UpdateUser handles updating a user's details
func UpdateUser(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}

		var req UpdateUserRequest
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
		if err := gate.Struct(req); err != nil {
			return err
		}

		user, err := st.GetUser(c.UserContext(), id)
		if err != nil {
			return err
		}

		roleBefore, statusBefore := user.Role, user.Status
		if req.Email != "" {
			user.Email = req.Email
		}
		if req.FirstName != "" {
			user.FirstName = req.FirstName
		}
		if req.LastName != "" {
			user.LastName = req.LastName
		}
		if req.Role != "" {
			user.Role = req.Role
		}
		if req.Status != "" {
			user.Status = req.Status
		}

		// If a new password is provided, hash and update it
		if req.Password != "" {
			hashedPassword, err := middleware.HashPassword(req.Password)
			if err != nil {
				slog.Error("Error hashing password", "error", err)
				return fail(c, fiber.StatusInternalServerError, "Error processing password")
			}
			user.Password = hashedPassword
		}

		if err := st.SaveUser(c.UserContext(), user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return fail(c, fiber.StatusConflict, "Email is already registered")
			}
			return err
		}

		// issued tokens carry the old role, so any access change signs the user out
		if user.Role != roleBefore || user.Status != statusBefore || req.Password != "" {
			revoked, err := st.RemoveTokens(c.UserContext(), user.ID)
			if err != nil {
				return err
			}
			slog.Info("user tokens revoked", "user", user.ID, "tokens", revoked)
		}

		return respond(c, fiber.StatusOK, "User updated successfully", user)
	}
}

// DeleteUser handles deleting a user and every token issued to them
func DeleteUser(st *store.Store, gate *validation.Gate) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c, gate)
		if err != nil {
			return err
		}
		if err := st.DeleteUser(c.UserContext(), id); err != nil {
			return err
		}
		return respond(c, fiber.StatusOK, "User deleted successfully", nil)
	}
}
