package mockapi

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	listview "github.com/goliatone/go-listview/components/listview"
)

// Server order statuses accepted by PUT /api/orders/:id.
var orderStatuses = map[string]bool{
	"pending":   true,
	"confirmed": true,
	"shipped":   true,
	"delivered": true,
	"cancelled": true,
}

// Options configures the mock admin API.
type Options struct {
	Store   *Store
	Latency time.Duration
	// Token, when set, is required as a Bearer credential on every request.
	Token     string
	Logger    *zerolog.Logger
	Telemetry listview.Telemetry
}

// New builds a fiber app serving the admin REST surface: orders and the cart
// wrapped in {success, data} envelopes, users as a bare array, products in
// envelopes with full CRUD.
func New(opts Options) *fiber.App {
	if opts.Store == nil {
		opts.Store = NewStore(DefaultSeed())
	}
	logger := opts.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	h := &handlers{store: opts.Store}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				code = fe.Code
			}
			return fail(c, code, err.Error())
		},
	})
	app.Use(requestLogger(logger, opts.Telemetry))
	if opts.Latency > 0 {
		app.Use(func(c *fiber.Ctx) error {
			time.Sleep(opts.Latency)
			return c.Next()
		})
	}
	if opts.Token != "" {
		app.Use(bearer(opts.Token))
	}

	api := app.Group("/api")
	api.Get("/orders", h.listOrders)
	api.Put("/orders/:id", h.updateOrder)

	api.Get("/products", h.listProducts)
	api.Post("/products", h.createProduct)
	api.Put("/products/:id", h.updateProduct)
	api.Delete("/products/:id", h.deleteProduct)

	api.Get("/users", h.listUsers)
	api.Post("/users", h.createUser)
	api.Put("/users/:id", h.updateUser)
	api.Delete("/users/:id", h.deleteUser)

	api.Get("/cart", h.listCart)
	api.Delete("/cart/:id", h.deleteCart)
	return app
}

func requestLogger(logger *zerolog.Logger, telemetry listview.Telemetry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		started := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		if telemetry != nil {
			telemetry.Record(c.UserContext(), "mockapi.request", map[string]any{
				"method":   c.Method(),
				"path":     c.Path(),
				"status":   status,
				"duration": time.Since(started),
			})
		}
		logger.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Str("request_id", c.Get("X-Request-ID")).
			Dur("elapsed", time.Since(started)).
			Msg("mockapi request")
		return err
	}
}

func bearer(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) != "Bearer "+token {
			return fail(c, fiber.StatusUnauthorized, "unauthorized")
		}
		return c.Next()
	}
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "message": message})
}

type handlers struct {
	store *Store
}

func (h *handlers) body(c *fiber.Ctx) (record, error) {
	var payload record
	if err := c.BodyParser(&payload); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	if payload == nil {
		payload = record{}
	}
	return payload, nil
}

func (h *handlers) listOrders(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, h.store.all(colOrders))
}

func (h *handlers) updateOrder(c *fiber.Ctx) error {
	payload, err := h.body(c)
	if err != nil {
		return err
	}
	if status, present := payload["status"]; present {
		s, _ := status.(string)
		if !orderStatuses[s] {
			return fail(c, fiber.StatusBadRequest, "invalid order status")
		}
	}
	updated, found := h.store.update(colOrders, c.Params("id"), payload)
	if !found {
		return fail(c, fiber.StatusNotFound, "order not found")
	}
	return ok(c, fiber.StatusOK, updated)
}

func (h *handlers) listProducts(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, h.store.all(colProducts))
}

func (h *handlers) createProduct(c *fiber.Ctx) error {
	payload, err := h.body(c)
	if err != nil {
		return err
	}
	if stringValue(payload["product_name"]) == "" {
		return fail(c, fiber.StatusBadRequest, "product_name is required")
	}
	if _, present := payload["status"]; !present {
		payload["status"] = "active"
	}
	return ok(c, fiber.StatusCreated, h.store.insert(colProducts, payload))
}

func (h *handlers) updateProduct(c *fiber.Ctx) error {
	payload, err := h.body(c)
	if err != nil {
		return err
	}
	updated, found := h.store.update(colProducts, c.Params("id"), payload)
	if !found {
		return fail(c, fiber.StatusNotFound, "product not found")
	}
	return ok(c, fiber.StatusOK, updated)
}

func (h *handlers) deleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if h.store.remove(colProducts, func(r record) bool { return idOf(r) == id }) == 0 {
		return fail(c, fiber.StatusNotFound, "product not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "product deleted"})
}

func (h *handlers) listUsers(c *fiber.Ctx) error {
	return c.JSON(h.store.all(colUsers))
}

func (h *handlers) createUser(c *fiber.Ctx) error {
	payload, err := h.body(c)
	if err != nil {
		return err
	}
	email := strings.ToLower(stringValue(payload["email"]))
	if email == "" {
		return fail(c, fiber.StatusBadRequest, "email is required")
	}
	if h.store.exists(colUsers, func(r record) bool { return strings.ToLower(stringValue(r["email"])) == email }) {
		return fail(c, fiber.StatusConflict, "user already exists")
	}
	delete(payload, "password")
	if _, present := payload["role"]; !present {
		payload["role"] = "user"
	}
	payload["created_at"] = time.Now().UTC().Format(time.RFC3339)
	return c.Status(fiber.StatusCreated).JSON(h.store.insert(colUsers, payload))
}

func (h *handlers) updateUser(c *fiber.Ctx) error {
	payload, err := h.body(c)
	if err != nil {
		return err
	}
	delete(payload, "password")
	updated, found := h.store.update(colUsers, c.Params("id"), payload)
	if !found {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	return c.JSON(updated)
}

func (h *handlers) deleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if h.store.remove(colUsers, func(r record) bool { return idOf(r) == id }) == 0 {
		return fail(c, fiber.StatusNotFound, "user not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) listCart(c *fiber.Ctx) error {
	return ok(c, fiber.StatusOK, h.store.all(colCart))
}

// deleteCart clears every cart row belonging to the user id in the path.
func (h *handlers) deleteCart(c *fiber.Ctx) error {
	userID := c.Params("id")
	if h.store.remove(colCart, func(r record) bool { return stringValue(r["user_id"]) == userID }) == 0 {
		return fail(c, fiber.StatusNotFound, "cart not found")
	}
	return c.JSON(fiber.Map{"success": true, "message": "cart cleared"})
}
