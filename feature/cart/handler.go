package cart

import (
	"furniture-store/core/apperror"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the shopper cart routes.
type Handler struct {
	service *Service
	guard   fiber.Handler
}

// NewHandler creates a new HTTP handler. guard authenticates the caller.
func NewHandler(service *Service, guard fiber.Handler) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterRoutes registers the cart routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/cart", h.guard)
	group.Get("/view", h.HandleView)
	group.Post("/update", h.HandleUpdate)
	group.Post("/remove", h.HandleRemove)
	group.Post("/checkout", h.HandleCheckout)
	group.Post("/save", h.HandleSave)
	group.Post("/load", h.HandleLoad)
}

// ItemRequest names an item and a quantity. Quantity defaults to 1.
type ItemRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

func parseItemRequest(c *fiber.Ctx) (catalog.Kind, ItemRequest, error) {
	req := ItemRequest{Quantity: 1}
	if err := c.BodyParser(&req); err != nil {
		return "", req, apperror.Validation("invalid request body")
	}
	kind, err := catalog.ParseKind(req.Type)
	if err != nil {
		return "", req, err
	}
	if req.Name == "" {
		return "", req, apperror.Validation("name is required")
	}
	return kind, req, nil
}

// HandleView returns the caller's cart.
// @Summary View Cart
// @Tags cart
// @Produce json
// @Success 200 {object} View "Cart"
// @Security BearerAuth
// @Router /cart/view [get]
func (h *Handler) HandleView(c *fiber.Ctx) error {
	return c.JSON(h.service.View(auth.Email(c)))
}

// HandleUpdate adds an item to the caller's cart.
// @Summary Add To Cart
// @Tags cart
// @Accept json
// @Produce json
// @Param body body ItemRequest true "Item and quantity"
// @Success 200 {object} View "Cart"
// @Failure 404 {object} map[string]string "Unknown item"
// @Failure 409 {object} map[string]string "Not enough stock"
// @Security BearerAuth
// @Router /cart/update [post]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	kind, req, err := parseItemRequest(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	v, err := h.service.Add(auth.Email(c), kind, req.Name, req.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(v)
}

// HandleRemove removes units of an item from the caller's cart.
// @Summary Remove From Cart
// @Tags cart
// @Accept json
// @Produce json
// @Param body body ItemRequest true "Item and quantity"
// @Success 200 {object} View "Cart"
// @Failure 404 {object} map[string]string "Not in cart"
// @Security BearerAuth
// @Router /cart/remove [post]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	kind, req, err := parseItemRequest(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	v, err := h.service.Remove(auth.Email(c), kind, req.Name, req.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(v)
}

// HandleCheckout places an order for the caller's cart.
// @Summary Checkout
// @Description All-or-nothing: on a stock shortage nothing is reserved and details lists every short line.
// @Tags cart
// @Produce json
// @Success 201 {object} order.View "Order"
// @Failure 409 {object} map[string]any "Insufficient stock"
// @Security BearerAuth
// @Router /cart/checkout [post]
func (h *Handler) HandleCheckout(c *fiber.Ctx) error {
	v, err := h.service.Checkout(auth.Email(c))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Info("Checkout rejected", zap.String("user", auth.Email(c)), zap.Error(err))
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(v)
}

// HandleSave uploads the caller's cart as CSV.
// @Summary Save Cart
// @Tags cart
// @Produce json
// @Success 200 {object} map[string]string "Object name"
// @Security BearerAuth
// @Router /cart/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	name, err := h.service.Save(c.Context(), auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"object": name})
}

// HandleLoad restores the caller's saved cart.
// @Summary Load Cart
// @Tags cart
// @Produce json
// @Success 200 {object} LoadResult "Cart and items no longer stocked"
// @Failure 404 {object} map[string]string "No saved cart"
// @Security BearerAuth
// @Router /cart/load [post]
func (h *Handler) HandleLoad(c *fiber.Ctx) error {
	res, err := h.service.Load(c.Context(), auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(res)
}
