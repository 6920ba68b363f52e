package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"
)

type AuthHandler struct {
	Store *store.Store
	Auth  *middleware.Auth
	Gate  *validation.Gate
}

func NewAuthHandler(st *store.Store, auth *middleware.Auth, gate *validation.Gate) *AuthHandler {
	return &AuthHandler{Store: st, Auth: auth, Gate: gate}
}

// Login checks the credentials, issues a token and records it on the user.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	payload, err := parseBody(c)
	if err != nil {
		return err
	}
	var req models.LoginRequest
	if err := h.Gate.Decode(validation.SchemaLogin, payload, &req); err != nil {
		return err
	}

	user, err := h.Store.GetUserByEmail(c.UserContext(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = middleware.CheckPassword(req.Password, "")
			return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	if err := middleware.CheckPassword(req.Password, user.Password); err != nil {
		slog.Info("login rejected", "email", user.Email)
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if user.Status != models.UserActive {
		return fail(c, fiber.StatusForbidden, "Account is disabled")
	}

	token, expiresAt, err := h.Auth.GenerateJWT(user.ID, user.Role)
	if err != nil {
		return err
	}
	if err := h.Store.AddToken(c.UserContext(), user.ID, token, expiresAt); err != nil {
		return err
	}

	return respond(c, fiber.StatusOK, "Login successful", models.LoginResponse{
		Token: token,
		Role:  user.Role,
	})
}

// Logout revokes the token used for this request.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID, _, err := middleware.GetUserFromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if err := h.Store.RemoveToken(c.UserContext(), userID, middleware.TokenFromContext(c)); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Logged out", nil)
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, _, err := middleware.GetUserFromContext(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.Store.GetUser(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, "Profile retrieved", user)
}
