package order

import (
	"furniture-store/core/apperror"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the admin order routes.
type Handler struct {
	service *Service
	guard   fiber.Handler
}

// NewHandler creates a new HTTP handler. guard authenticates the caller.
func NewHandler(service *Service, guard fiber.Handler) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterRoutes registers the order routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/admin/orders", h.guard, auth.RequireAdmin())
	group.Get("/", h.HandleList)
	group.Post("/export", h.HandleExport)
	group.Get("/:id", h.HandleGet)
	group.Post("/:id/complete", h.HandleComplete)
	group.Post("/:id/cancel", h.HandleCancel)
}

// HandleList lists orders.
// @Summary List Orders
// @Tags admin
// @Produce json
// @Param status query string false "Pending, Completed or Cancelled"
// @Param user query string false "Owner email"
// @Success 200 {array} View "Orders, oldest first"
// @Security BearerAuth
// @Router /admin/orders [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List(c.Query("status"), c.Query("user")))
}

// HandleGet returns one order.
// @Summary Get Order
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} View "Order"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /admin/orders/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	v, err := h.service.Get(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(v)
}

// HandleComplete marks an order completed.
// @Summary Complete Order
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} View "Order"
// @Failure 409 {object} map[string]string "Order already closed"
// @Security BearerAuth
// @Router /admin/orders/{id}/complete [post]
func (h *Handler) HandleComplete(c *fiber.Ctx) error {
	v, err := h.service.Complete(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(v)
}

// HandleCancel cancels an order and restocks its items.
// @Summary Cancel Order
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} View "Order"
// @Failure 409 {object} map[string]string "Order already closed"
// @Security BearerAuth
// @Router /admin/orders/{id}/cancel [post]
func (h *Handler) HandleCancel(c *fiber.Ctx) error {
	v, err := h.service.Cancel(c.Params("id"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(v)
}

// HandleExport uploads all orders as CSV.
// @Summary Export Orders
// @Description Writes every order to orders/orders_<unix>.csv in the storage bucket.
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string "Object name"
// @Failure 500 {object} map[string]string "Upload failed"
// @Security BearerAuth
// @Router /admin/orders/export [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name, err := h.service.Export(c.Context())
	if err != nil {
		l.Error("Order export failed", zap.Error(err))
		return apperror.Respond(c, err)
	}
	return c.JSON(fiber.Map{"object": name})
}
