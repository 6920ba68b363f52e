package handlers

import (
	"time"

	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/notify"
	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Deps is everything the routes need, built once in main.
type Deps struct {
	Store    *store.Store
	Gate     *validation.Gate
	Auth     *middleware.Auth
	Pricer   *pricing.Service
	Composer *orders.Composer
	Mailer   notify.Mailer

	UploadDir    string
	ContactInbox string
	// RateLimitMax caps public writes per IP per minute; 0 disables the limit.
	RateLimitMax int
	RequestLog   bool
}

// NewApp returns a Fiber app with the error handler, common middleware and
// every route registered.
func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "pizza-builder-backend",
		ErrorHandler: ErrorHandler,
	})
	app.Use(recover.New())
	if d.RequestLog {
		app.Use(logger.New())
	}
	app.Use(cors.New())

	app.Static("/uploads", d.UploadDir)
	Register(app, d)
	return app
}

func Register(app *fiber.App, d Deps) {
	authHandler := NewAuthHandler(d.Store, d.Auth, d.Gate)
	admin := d.Auth.AdminOnly()

	publicWrite := func(c *fiber.Ctx) error { return c.Next() }
	if d.RateLimitMax > 0 {
		publicWrite = limiter.New(limiter.Config{
			Max:        d.RateLimitMax,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				return fail(c, fiber.StatusTooManyRequests, "Too Many Requests. Please try again later.")
			},
		})
	}

	api := app.Group("/api/v1")

	// === PUBLIC ROUTES ===
	api.Get("/health", Health(d.Store))

	auth := api.Group("/auth")
	auth.Post("/login", publicWrite, authHandler.Login)
	auth.Post("/logout", d.Auth.JWTProtected(), authHandler.Logout)
	auth.Get("/me", d.Auth.JWTProtected(), authHandler.GetProfile)

	api.Post("/users", publicWrite, RegisterCustomer(d.Store, d.Gate))

	// Admin accounts
	admins := api.Group("/admins", admin)
	admins.Post("", CreateAdmin(d.Store, d.Gate))
	admins.Get("/users", GetUsers(d.Store))
	admins.Put("/users/:id", UpdateUser(d.Store, d.Gate))
	admins.Delete("/users/:id", DeleteUser(d.Store, d.Gate))

	// Catalog
	ingredients := api.Group("/ingredients")
	ingredients.Get("", GetIngredients(d.Store))
	ingredients.Get("/:id", GetIngredient(d.Store, d.Gate))
	ingredients.Post("", admin, CreateIngredient(d.Store, d.Gate))
	ingredients.Put("/:id", admin, UpdateIngredient(d.Store, d.Gate))
	ingredients.Delete("/:id", admin, DeleteIngredient(d.Store, d.Gate))

	// Pizzas
	builders := api.Group("/builders")
	builders.Get("", GetTemplates(d.Store))
	builders.Get("/:id", GetBuilder(d.Store, d.Gate))
	builders.Post("", publicWrite, d.Auth.OptionalAuth(), CreateBuilder(d.Store, d.Gate, d.Pricer))
	builders.Delete("/:id", admin, DeleteBuilder(d.Store, d.Gate, d.UploadDir))
	builders.Post("/:id/image", admin, UploadBuilderImage(d.Store, d.Gate, d.UploadDir))

	// Orders
	ordersGroup := api.Group("/orders")
	ordersGroup.Post("", publicWrite, CreateOrder(d.Gate, d.Composer, d.Mailer))
	ordersGroup.Get("/track/:orderNumber", TrackOrder(d.Store))
	ordersGroup.Get("", admin, GetOrders(d.Store))
	ordersGroup.Get("/:id", admin, GetOrder(d.Store, d.Gate))
	ordersGroup.Patch("/:id/status", admin, UpdateOrderStatus(d.Store, d.Gate))

	// Contact messages
	messages := api.Group("/messages")
	messages.Post("", publicWrite, CreateMessage(d.Store, d.Gate, d.Mailer, d.ContactInbox))
	messages.Get("", admin, GetMessages(d.Store))
	messages.Patch("/:id/read", admin, ToggleMessageRead(d.Store, d.Gate))

	// Reports
	api.Get("/reports/sales", admin, GetSalesReport(d.Store))
}
