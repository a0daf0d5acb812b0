package inventory

import (
	"encoding/json"
	"net/url"

	"furniture-store/core/apperror"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog and inventory administration.
type Handler struct {
	service *Service
	guard   fiber.Handler
}

// NewHandler creates a new HTTP handler. guard authenticates the admin routes.
func NewHandler(service *Service, guard fiber.Handler) *Handler {
	return &Handler{service: service, guard: guard}
}

// RegisterRoutes registers the public catalog routes and the admin inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	public := app.Group("/furniture")
	public.Get("/", h.HandleList)
	public.Get("/search", h.HandleSearch)
	public.Get("/:type/:name", h.HandleGet)

	admin := app.Group("/admin/inventory", h.guard, auth.RequireAdmin())
	admin.Get("/manage", h.HandleList)
	admin.Post("/manage", h.HandleAdd)
	admin.Put("/manage", h.HandleSetQuantity)
	admin.Delete("/manage", h.HandleRemove)
	admin.Get("/low-stock", h.HandleLowStock)
}

// StockRequest identifies an item and a quantity.
type StockRequest struct {
	Type     string `json:"type"`
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// HandleList returns every item in stock.
// @Summary List Furniture
// @Description Returns every stocked item with its discounted price and detail line.
// @Tags furniture
// @Produce json
// @Success 200 {array} ItemView "Catalog"
// @Router /furniture [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	return c.JSON(h.service.List())
}

// HandleSearch filters the catalog.
// @Summary Search Furniture
// @Description Filters the catalog by type and case-insensitive name, material or colour.
// @Tags furniture
// @Produce json
// @Param type query string false "Furniture type (Chair, Table, Sofa, Bed, Wardrobe)"
// @Param name query string false "Name contains"
// @Param material query string false "Material contains"
// @Param color query string false "Colour contains"
// @Success 200 {array} ItemView "Matches"
// @Failure 400 {object} map[string]string "Unknown type"
// @Router /furniture/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	items, err := h.service.Search(c.Query("type"), c.Query("name"), c.Query("material"), c.Query("color"))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(items)
}

// HandleGet returns a single item.
// @Summary Get Furniture
// @Tags furniture
// @Produce json
// @Param type path string true "Furniture type"
// @Param name path string true "Item name"
// @Success 200 {object} ItemView "Item"
// @Failure 404 {object} map[string]string "Not found"
// @Router /furniture/{type}/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return apperror.Respond(c, apperror.Validation("malformed item name"))
	}
	item, err := h.service.Get(c.Params("type"), name)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(item)
}

// HandleAdd stocks a new item or tops up an existing one.
// @Summary Add Inventory
// @Description Adds an item. Omitted attributes take the catalog defaults; an existing type/name has its quantity increased.
// @Tags admin
// @Accept json
// @Produce json
// @Param item body catalog.Item true "Item"
// @Success 201 {object} catalog.Item "Stored item"
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 403 {object} map[string]string "Forbidden"
// @Security BearerAuth
// @Router /admin/inventory/manage [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	l := logger.WithUser(logger.WithRayID(h.service.logger, c), c)

	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(c.Body(), &head); err != nil {
		return apperror.Respond(c, apperror.Validation("invalid request body"))
	}
	kind, err := catalog.ParseKind(head.Type)
	if err != nil {
		return apperror.Respond(c, err)
	}

	item := catalog.Defaults(kind)
	if err := json.Unmarshal(c.Body(), &item); err != nil {
		return apperror.Respond(c, apperror.Validation("invalid item: %v", err))
	}
	item.Kind = kind

	stored, err := h.service.Add(item)
	if err != nil {
		l.Warn("Inventory add rejected", zap.Error(err))
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(stored)
}

// HandleSetQuantity overwrites an item's stock.
// @Summary Update Inventory Quantity
// @Tags admin
// @Accept json
// @Produce json
// @Param request body StockRequest true "Item and new quantity"
// @Success 200 {object} catalog.Item "Updated item"
// @Failure 404 {object} map[string]string "Not found"
// @Security BearerAuth
// @Router /admin/inventory/manage [put]
func (h *Handler) HandleSetQuantity(c *fiber.Ctx) error {
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("invalid request body"))
	}
	item, err := h.service.SetQuantity(req.Type, req.Name, req.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(item)
}

// HandleRemove removes stock, or the whole entry when quantity is omitted.
// @Summary Remove Inventory
// @Tags admin
// @Accept json
// @Produce json
// @Param request body StockRequest true "Item and quantity to remove (0 deletes the entry)"
// @Success 200 {object} catalog.Item "Remaining item"
// @Failure 404 {object} map[string]string "Not found"
// @Failure 409 {object} map[string]string "Insufficient stock"
// @Security BearerAuth
// @Router /admin/inventory/manage [delete]
func (h *Handler) HandleRemove(c *fiber.Ctx) error {
	var req StockRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("invalid request body"))
	}
	item, err := h.service.Remove(req.Type, req.Name, req.Quantity)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(item)
}

// HandleLowStock reports items under a threshold.
// @Summary Low Stock Report
// @Tags admin
// @Produce json
// @Param threshold query int false "Threshold (defaults to inventory.low_stock_threshold)"
// @Success 200 {array} LowStock "Items under threshold"
// @Security BearerAuth
// @Router /admin/inventory/low-stock [get]
func (h *Handler) HandleLowStock(c *fiber.Ctx) error {
	low := h.service.LowStock(c.QueryInt("threshold"))
	if low == nil {
		low = []LowStock{}
	}
	return c.JSON(low)
}
