package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pizza-builder-backend/internal/models"
)

const (
	localUserID = "userID"
	localRole   = "userRole"
	localToken  = "token"
)

type Claims struct {
	UserID uuid.UUID   `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenStore tells whether an issued token is still listed for its user.
type TokenStore interface {
	HasToken(ctx context.Context, userID uuid.UUID, token string) (bool, error)
}

type Auth struct {
	Secret []byte
	TTL    time.Duration
	Tokens TokenStore
	// APIKey grants admin access through the X-API-Key header. Empty disables it.
	APIKey string
}

func NewAuth(secret []byte, ttl time.Duration, tokens TokenStore, apiKey string) *Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Auth{Secret: secret, TTL: ttl, Tokens: tokens, APIKey: apiKey}
}

// HashPassword hashes the password using bcrypt
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedPassword), nil
}

// dummyHash is compared against when there is no stored hash, so an unknown
// account costs the same bcrypt work as a wrong password.
var dummyHash = sync.OnceValue(func() []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return hash
})

// CheckPassword checks if the provided password is correct. An empty
// hashedPassword never matches.
func CheckPassword(password, hashedPassword string) error {
	if hashedPassword == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return bcrypt.ErrMismatchedHashAndPassword
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// GenerateJWT signs a token for the user. Every token carries its own id so
// two logins in the same second still produce distinct tokens.
func (a *Auth) GenerateJWT(userID uuid.UUID, role models.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(a.TTL)
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (a *Auth) parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// authenticate validates the bearer token and stores the caller in Locals.
// It returns a non-empty message when the request must be rejected.
func (a *Auth) authenticate(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "Authorization header is missing"
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "Bearer token not found"
	}

	claims, err := a.parse(tokenString)
	if err != nil {
		return "Invalid or expired token"
	}

	if a.Tokens != nil {
		ok, err := a.Tokens.HasToken(c.UserContext(), claims.UserID, tokenString)
		if err != nil {
			slog.Error("token lookup failed", "error", err)
			return "Invalid or expired token"
		}
		if !ok {
			return "Token has been revoked"
		}
	}

	c.Locals(localUserID, claims.UserID)
	c.Locals(localRole, claims.Role)
	c.Locals(localToken, tokenString)
	return ""
}

// JWTProtected protects routes with JWT authentication
func (a *Auth) JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if msg := a.authenticate(c); msg != "" {
			return deny(c, fiber.StatusUnauthorized, msg)
		}
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is present and
// lets anonymous requests through unchanged.
func (a *Auth) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch {
		case c.Get("X-API-Key") != "":
			if a.validKey(c.Get("X-API-Key")) {
				c.Locals(localRole, models.RoleAdmin)
			}
		case c.Get("Authorization") != "":
			_ = a.authenticate(c)
		}
		return c.Next()
	}
}

// AdminOnly accepts the admin API key or a bearer token with the admin role.
func (a *Auth) AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key := c.Get("X-API-Key"); key != "" {
			if a.validKey(key) {
				c.Locals(localRole, models.RoleAdmin)
				return c.Next()
			}
			return deny(c, fiber.StatusUnauthorized, "Invalid API key")
		}
		if msg := a.authenticate(c); msg != "" {
			return deny(c, fiber.StatusUnauthorized, msg)
		}
		return RoleProtected(models.RoleAdmin)(c)
	}
}

func (a *Auth) validKey(key string) bool {
	return a.APIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(a.APIKey)) == 1
}

// RoleProtected checks if the user has the required role
func RoleProtected(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals(localRole).(models.Role)
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "Unauthorized")
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		return deny(c, fiber.StatusForbidden, "You don't have permission to access this resource")
	}
}

// GetUserFromContext gets the user ID and role from the JWT context
func GetUserFromContext(c *fiber.Ctx) (userID uuid.UUID, role models.Role, err error) {
	userID, ok := c.Locals(localUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, "", errors.New("user ID not found in context")
	}

	role, ok = c.Locals(localRole).(models.Role)
	if !ok {
		return uuid.Nil, "", errors.New("user role not found in context")
	}

	return userID, role, nil
}

// RoleFromContext returns the caller's role, or "" for anonymous requests.
func RoleFromContext(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(localRole).(models.Role)
	return role
}

func TokenFromContext(c *fiber.Ctx) string {
	token, _ := c.Locals(localToken).(string)
	return token
}

func deny(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
