package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pizza-builder-backend/internal/database"
	"pizza-builder-backend/internal/middleware"
	"pizza-builder-backend/internal/models"
	"pizza-builder-backend/internal/notify"
	"pizza-builder-backend/internal/orders"
	"pizza-builder-backend/internal/pricing"
	"pizza-builder-backend/internal/store"
	"pizza-builder-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testAPIKey = "test-admin-key"

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	store   *store.Store
	mailer  *notify.Recorder
	uploads string
}

func newTestEnv(t *testing.T, opts ...func(*Deps)) *testEnv {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	st := store.New(db)
	env := &testEnv{db: db, store: st, mailer: &notify.Recorder{}, uploads: t.TempDir()}
	deps := Deps{
		Store:        st,
		Gate:         validation.NewGate(validation.Options{MaxToppingAmount: 3}),
		Auth:         middleware.NewAuth([]byte("test-secret"), time.Hour, st, testAPIKey),
		Pricer:       pricing.NewService(st),
		Composer:     orders.NewComposer(st, st, 2),
		Mailer:       env.mailer,
		UploadDir:    env.uploads,
		ContactInbox: "inbox@pizza.test",
	}
	for _, opt := range opts {
		opt(&deps)
	}
	env.app = NewApp(deps)
	return env
}

// do sends body as JSON (or verbatim when it is a string) and decodes the
// response envelope. headers are key/value pairs.
func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	return e.send(t, req)
}

func (e *testEnv) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func admin() []string { return []string{"X-API-Key", testAPIKey} }

func bearer(token string) []string { return []string{"Authorization", "Bearer " + token} }

func data(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	d, ok := body["data"].(map[string]any)
	require.True(t, ok, "data is not an object: %v", body)
	return d
}

func list(t *testing.T, body map[string]any) []any {
	t.Helper()
	d, ok := body["data"].([]any)
	require.True(t, ok, "data is not a list: %v", body)
	return d
}

func errorFields(body map[string]any) []string {
	var fields []string
	errs, _ := body["errors"].([]any)
	for _, e := range errs {
		if m, ok := e.(map[string]any); ok {
			fields = append(fields, fmt.Sprint(m["field"]))
		}
	}
	return fields
}

func (e *testEnv) ingredient(t *testing.T, name string, itemType models.ItemType, price float64) string {
	t.Helper()
	item := models.Ingredient{Name: name, ItemType: itemType, Price: price}
	require.NoError(t, e.store.CreateIngredient(context.Background(), &item))
	return item.ID.String()
}

func (e *testEnv) builder(t *testing.T, name string, price float64) string {
	t.Helper()
	b := models.Builder{PizzaName: name, PizzaPrice: price, Base: []models.Selection{}}
	require.NoError(t, e.store.CreateBuilder(context.Background(), &b))
	return b.ID.String()
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Running", data(t, body)["status"])
}

func TestIngredients(t *testing.T) {
	env := newTestEnv(t)
	payload := map[string]any{"name": "Thin Crust", "itemType": "Base", "price": 5}

	status, _ := env.do(t, http.MethodPost, "/api/v1/ingredients", payload)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/ingredients", payload, "X-API-Key", "wrong")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.do(t, http.MethodPost, "/api/v1/ingredients", payload, admin()...)
	require.Equal(t, http.StatusCreated, status, body)
	id := data(t, body)["id"].(string)
	assert.Equal(t, "Thin Crust", data(t, body)["name"])

	status, body = env.do(t, http.MethodPost, "/api/v1/ingredients",
		map[string]any{"name": "Olives", "itemType": "Topping", "price": 1}, admin()...)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"itemType"}, errorFields(body))

	env.ingredient(t, "Tomato", models.ItemTypeSauce, 1.5)

	status, body = env.do(t, http.MethodGet, "/api/v1/ingredients?type=Base", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list(t, body), 1)

	status, body = env.do(t, http.MethodGet, "/api/v1/ingredients", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list(t, body), 2)

	status, _ = env.do(t, http.MethodGet, "/api/v1/ingredients?type=Bogus", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodPut, "/api/v1/ingredients/"+id,
		map[string]any{"name": "Thin Crust", "itemType": "Base", "price": 6.25}, admin()...)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, 6.25, data(t, body)["price"])

	status, body = env.do(t, http.MethodGet, "/api/v1/ingredients/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"id"}, errorFields(body))

	status, _ = env.do(t, http.MethodGet, "/api/v1/ingredients/9b2f7c1e-3a4d-4f5e-8a6b-7c8d9e0f1a2b", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/ingredients/"+id, nil, admin()...)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/v1/ingredients/"+id, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestInvalidBody(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/messages", "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])
}

func TestCreateBuilder(t *testing.T) {
	env := newTestEnv(t)
	base := env.ingredient(t, "Hand Tossed", models.ItemTypeBase, 5)
	sauce := env.ingredient(t, "Tomato", models.ItemTypeSauce, 1.5)
	meat := env.ingredient(t, "Pepperoni", models.ItemTypeMeat, 2)

	pizza := func(price float64) map[string]any {
		return map[string]any{
			"pizzaName":   "House Special",
			"base":        []any{map[string]any{"id": base}},
			"sauce":       []any{map[string]any{"id": sauce}},
			"meatTopping": []any{map[string]any{"id": meat, "amount": 2}},
			"pizzaPrice":  price,
		}
	}

	t.Run("priced from the catalog", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/api/v1/builders", pizza(10.5))
		require.Equal(t, http.StatusCreated, status, body)
		b := data(t, body)
		assert.Equal(t, 10.5, b["pizzaPrice"])
		assert.Equal(t, false, b["isTemplate"])
		assert.Equal(t, "Tomato", b["sauce"].(map[string]any)["name"])

		status, body = env.do(t, http.MethodGet, "/api/v1/builders/"+b["id"].(string), nil)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, "House Special", data(t, body)["pizzaName"])
	})

	t.Run("stale declared price", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/api/v1/builders", pizza(9))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"pizzaPrice"}, errorFields(body))
	})

	t.Run("unknown ingredient", func(t *testing.T) {
		p := pizza(10.5)
		p["base"] = []any{map[string]any{"id": "9b2f7c1e-3a4d-4f5e-8a6b-7c8d9e0f1a2b"}}
		status, body := env.do(t, http.MethodPost, "/api/v1/builders", p)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Contains(t, errorFields(body), "base[0].id")
	})

	t.Run("templates need an admin", func(t *testing.T) {
		p := pizza(10.5)
		p["isTemplate"] = true

		status, _ := env.do(t, http.MethodPost, "/api/v1/builders", p)
		assert.Equal(t, http.StatusForbidden, status)

		status, body := env.do(t, http.MethodPost, "/api/v1/builders", p, admin()...)
		require.Equal(t, http.StatusCreated, status, body)

		status, body = env.do(t, http.MethodGet, "/api/v1/builders", nil)
		require.Equal(t, http.StatusOK, status)
		templates := list(t, body)
		require.Len(t, templates, 1)
		assert.Equal(t, true, templates[0].(map[string]any)["isTemplate"])
	})
}

func pngUpload(t *testing.T, path, filename string, width, height int) *http.Request {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-API-Key", testAPIKey)
	return req
}

func TestUploadBuilderImage(t *testing.T) {
	env := newTestEnv(t)
	id := env.builder(t, "Plain", 8)
	path := "/api/v1/builders/" + id + "/image"

	upload := func(filename string) (int, map[string]any) {
		return env.send(t, pngUpload(t, path, filename, 1200, 300))
	}

	status, body := upload("pizza.png")
	require.Equal(t, http.StatusOK, status, body)
	meta := data(t, body)["image"].(map[string]any)
	first := meta["filename"].(string)
	assert.True(t, strings.HasSuffix(first, ".jpg"))
	assert.Equal(t, "image/jpeg", meta["mimetype"])

	f, err := os.Open(filepath.Join(env.uploads, first))
	require.NoError(t, err)
	cfg, err := jpeg.DecodeConfig(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)

	// replacing the image removes the previous file
	status, body = upload("pizza.PNG")
	require.Equal(t, http.StatusOK, status, body)
	second := data(t, body)["image"].(map[string]any)["filename"].(string)
	assert.NotEqual(t, first, second)
	assert.NoFileExists(t, filepath.Join(env.uploads, first))
	assert.FileExists(t, filepath.Join(env.uploads, second))

	status, _ = upload("pizza.gif")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, path, nil, admin()...)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/builders/"+id, nil, admin()...)
	assert.Equal(t, http.StatusOK, status)
	assert.NoFileExists(t, filepath.Join(env.uploads, second))
}

func orderPayload(builderID string, builderPrice, total float64) map[string]any {
	return map[string]any{
		"orderDetails": []any{
			map[string]any{"builderId": builderID, "pizzaName": "House", "pizzaPrice": builderPrice, "quantity": 2},
			map[string]any{"pizzaName": "Custom", "pizzaPrice": 7.5, "quantity": 1},
		},
		"address": map[string]any{
			"street": "12 Main Street",
			"city":   "Springfield",
			"state":  "IL",
			"zip":    "62704",
		},
		"phone":      "2175550199",
		"firstName":  "Ada",
		"lastName":   "Lovelace",
		"email":      "ada@example.com",
		"orderTotal": total,
	}
}

func TestOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	builderID := env.builder(t, "House Special", 12)

	status, body := env.do(t, http.MethodPost, "/api/v1/orders", orderPayload(builderID, 12, 31.5))
	require.Equal(t, http.StatusCreated, status, body)
	order := data(t, body)
	id := order["id"].(string)
	number := int64(order["orderNumber"].(float64))
	assert.Equal(t, "processing", order["status"])
	assert.Equal(t, 31.5, order["orderTotal"])
	lines := order["orderDetails"].([]any)
	require.Len(t, lines, 2)
	assert.Equal(t, "House Special", lines[0].(map[string]any)["pizzaName"])
	assert.Equal(t, "Custom", lines[1].(map[string]any)["pizzaName"])

	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ada@example.com", sent[0].To)
	assert.Contains(t, sent[0].Subject, fmt.Sprint(number))

	status, body = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/orders/track/%d", number), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "processing", data(t, body)["status"])
	assert.Equal(t, 31.5, data(t, body)["orderTotal"])

	status, _ = env.do(t, http.MethodGet, "/api/v1/orders/track/abc", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = env.do(t, http.MethodGet, "/api/v1/orders/track/999", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/orders/"+id, nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []any{"completed", "cancelled"}, data(t, body)["allowedStatuses"])

	statusPath := "/api/v1/orders/" + id + "/status"
	status, _ = env.do(t, http.MethodPatch, statusPath, map[string]any{"status": "delivered"}, admin()...)
	assert.Equal(t, http.StatusConflict, status)

	status, body = env.do(t, http.MethodPatch, statusPath, map[string]any{"status": "bogus"}, admin()...)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"status"}, errorFields(body))

	status, body = env.do(t, http.MethodPatch, statusPath, map[string]any{"status": "completed"}, admin()...)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "completed", data(t, body)["status"])

	status, _ = env.do(t, http.MethodPatch, statusPath, map[string]any{"status": "archived"}, admin()...)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/orders", nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, data(t, body)["total"])

	status, body = env.do(t, http.MethodGet, "/api/v1/orders?archived=true", nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, data(t, body)["total"])
}

func TestCreateOrder_Rejected(t *testing.T) {
	env := newTestEnv(t)
	builderID := env.builder(t, "House", 12)

	t.Run("declared total does not match", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/api/v1/orders", orderPayload(builderID, 12, 30))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"orderTotal"}, errorFields(body))
	})

	t.Run("cart holds a stale pizza price", func(t *testing.T) {
		status, body := env.do(t, http.MethodPost, "/api/v1/orders", orderPayload(builderID, 10, 27.5))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, []string{"orderTotal"}, errorFields(body))
	})

	t.Run("invalid fields", func(t *testing.T) {
		p := orderPayload(builderID, 12, 31.5)
		p["address"].(map[string]any)["zip"] = "12"
		p["phone"] = "call me"
		status, body := env.do(t, http.MethodPost, "/api/v1/orders", p)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.ElementsMatch(t, []string{"address.zip", "phone"}, errorFields(body))
	})

	assert.Empty(t, env.mailer.Sent())
	n, err := env.store.Count(context.Background(), &models.Order{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMessages(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/messages",
		map[string]any{"email": "not-an-email", "subject": "Hi", "message": "Hello"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"email"}, errorFields(body))

	status, body = env.do(t, http.MethodPost, "/api/v1/messages",
		map[string]any{"email": "grace@example.com", "subject": "Catering", "message": "Do you cater parties?"})
	require.Equal(t, http.StatusCreated, status, body)
	id := data(t, body)["id"].(string)

	sent := env.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "inbox@pizza.test", sent[0].To)
	assert.Contains(t, sent[0].Subject, "Catering")

	status, _ = env.do(t, http.MethodGet, "/api/v1/messages", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/messages?unread=true", nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list(t, body), 1)

	status, body = env.do(t, http.MethodPatch, "/api/v1/messages/"+id+"/read", nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, data(t, body)["isRead"])

	status, body = env.do(t, http.MethodGet, "/api/v1/messages?unread=true", nil, admin()...)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, list(t, body))
}

func login(t *testing.T, env *testEnv, email, password string) (int, string) {
	t.Helper()
	status, body := env.do(t, http.MethodPost, "/api/v1/auth/login",
		map[string]any{"email": email, "password": password})
	if status != http.StatusOK {
		return status, ""
	}
	return status, data(t, body)["token"].(string)
}

func TestUsersAndAuth(t *testing.T) {
	env := newTestEnv(t)
	customer := map[string]any{
		"email":     "ada@example.com",
		"password":  "secret123",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}

	status, body := env.do(t, http.MethodPost, "/api/v1/users", customer)
	require.Equal(t, http.StatusCreated, status, body)
	user := data(t, body)
	assert.Equal(t, "customer", user["role"])
	assert.NotContains(t, user, "password")

	dup := map[string]any{"email": "ADA@example.com", "password": "secret123", "firstName": "A", "lastName": "L"}
	status, body = env.do(t, http.MethodPost, "/api/v1/users", dup)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email is already registered", body["message"])

	status, _ = login(t, env, "ada@example.com", "wrong-password")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = login(t, env, "nobody@example.com", "secret123")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, token := login(t, env, "ada@example.com", "secret123")
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/auth/me", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ada@example.com", data(t, body)["email"])

	// customers cannot reach admin routes
	status, _ = env.do(t, http.MethodGet, "/api/v1/orders", nil, bearer(token)...)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodPost, "/api/v1/auth/logout", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/auth/me", nil, bearer(token)...)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body["message"])
}

func TestAdminAccounts(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/admins", map[string]any{
		"email":     "boss@example.com",
		"password":  "secret123",
		"firstName": "Pat",
		"lastName":  "Boss",
	}, admin()...)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "admin", data(t, body)["role"])

	status, token := login(t, env, "boss@example.com", "secret123")
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodPost, "/api/v1/users", map[string]any{
		"email":     "cook@example.com",
		"password":  "secret123",
		"firstName": "Sam",
		"lastName":  "Cook",
	})
	require.Equal(t, http.StatusCreated, status)
	cookID := data(t, body)["id"].(string)

	status, body = env.do(t, http.MethodGet, "/api/v1/admins/users", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, list(t, body), 2)

	status, body = env.do(t, http.MethodPut, "/api/v1/admins/users/"+cookID,
		map[string]any{"status": "paused"}, bearer(token)...)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, []string{"status"}, errorFields(body))

	status, body = env.do(t, http.MethodPut, "/api/v1/admins/users/"+cookID,
		map[string]any{"status": "disabled"}, bearer(token)...)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "disabled", data(t, body)["status"])

	status, _ = login(t, env, "cook@example.com", "secret123")
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = env.do(t, http.MethodDelete, "/api/v1/admins/users/"+cookID, nil, bearer(token)...)
	assert.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodDelete, "/api/v1/admins/users/"+cookID, nil, bearer(token)...)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSalesReport(t *testing.T) {
	env := newTestEnv(t)
	builderID := env.builder(t, "House", 12)

	for i := 0; i < 2; i++ {
		status, body := env.do(t, http.MethodPost, "/api/v1/orders", orderPayload(builderID, 12, 31.5))
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, body := env.do(t, http.MethodGet, "/api/v1/reports/sales", nil, admin()...)
	require.Equal(t, http.StatusOK, status, body)
	report := data(t, body)
	assert.EqualValues(t, 2, report["orderCount"])
	assert.Equal(t, 63.0, report["totalRevenue"])

	status, _ = env.do(t, http.MethodGet, "/api/v1/reports/sales?start_date=18-10-2026", nil, admin()...)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet,
		"/api/v1/reports/sales?start_date=2026-10-18&end_date=2026-10-01", nil, admin()...)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUpdateUser_RevokesTokensOnAccessChange(t *testing.T) {
	env := newTestEnv(t)

	status, body := env.do(t, http.MethodPost, "/api/v1/admins", map[string]any{
		"email":     "chef@example.com",
		"password":  "secret123",
		"firstName": "Lee",
		"lastName":  "Chef",
	}, admin()...)
	require.Equal(t, http.StatusCreated, status, body)
	id := data(t, body)["id"].(string)

	status, token := login(t, env, "chef@example.com", "secret123")
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/v1/admins/users", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, status)

	// a name change keeps the session
	status, _ = env.do(t, http.MethodPut, "/api/v1/admins/users/"+id,
		map[string]any{"firstName": "Leigh"}, admin()...)
	require.Equal(t, http.StatusOK, status)
	status, _ = env.do(t, http.MethodGet, "/api/v1/orders", nil, bearer(token)...)
	assert.Equal(t, http.StatusOK, status)

	status, _ = env.do(t, http.MethodPut, "/api/v1/admins/users/"+id,
		map[string]any{"role": "customer", "status": "disabled"}, admin()...)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/admins/users", nil, bearer(token)...)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Token has been revoked", body["message"])
	status, _ = env.do(t, http.MethodGet, "/api/v1/orders", nil, bearer(token)...)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = login(t, env, "chef@example.com", "secret123")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestStoreUnavailable(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, database.Close(env.db))

	status, body := env.do(t, http.MethodGet, "/api/v1/ingredients", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, false, body["success"])

	status, _ = env.do(t, http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestPublicWritesAreRateLimited(t *testing.T) {
	env := newTestEnv(t, func(d *Deps) { d.RateLimitMax = 1 })
	msg := map[string]any{"email": "grace@example.com", "subject": "Hi", "message": "Hello"}

	status, _ := env.do(t, http.MethodPost, "/api/v1/messages", msg)
	require.Equal(t, http.StatusCreated, status)

	status, body := env.do(t, http.MethodPost, "/api/v1/messages", msg)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, false, body["success"])

	// reads are not limited
	status, _ = env.do(t, http.MethodGet, "/api/v1/ingredients", nil)
	assert.Equal(t, http.StatusOK, status)
}
