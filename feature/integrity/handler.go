package integrity

import (
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
	guard   fiber.Handler
}

// NewHandler creates a new HTTP handler. guard authenticates the caller.
func NewHandler(service *Service, guard fiber.Handler) *Handler {
	// Force import for Swagger
	var _ = checks.ServerReport{}
	return &Handler{service: service, guard: guard}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/admin/integrity", h.guard, auth.RequireAdmin())
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/carts", h.HandleCartsCheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Runs the storage structure, database schema and saved cart checks.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Security BearerAuth
// @Router /admin/integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	report := make(map[string]interface{})

	if missing, err := h.service.CheckStructure(c.Context()); err != nil {
		report["structure"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["structure"] = map[string]interface{}{"status": "ok", "missing": missing}
	}

	if srvReport, err := h.service.CheckServer(); err != nil {
		report["server"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["server"] = srvReport
	}

	if orphaned, err := h.service.CheckCarts(c.Context()); err != nil {
		report["carts"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["carts"] = map[string]interface{}{"status": "ok", "orphaned": orphaned}
	}

	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes the storage folders.
// @Summary Check Structure
// @Description Checks that the carts and orders folders exist in the storage bucket. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security BearerAuth
// @Router /admin/integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.QueryBool("fix")

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing folders detected", zap.Strings("missing", missing))

		if fix {
			if err := h.service.FixStructure(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix structure",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{"status": "fixed", "fixed": missing})
		}
	}

	return c.JSON(fiber.Map{"status": "checked", "missing": missing})
}

// HandleServerCheck checks the database schema.
// @Summary Check Server Schema
// @Description Checks that the database tables match the persisted models.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.ServerReport "Server Check Report"
// @Failure 503 {object} map[string]string "Database not configured"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security BearerAuth
// @Router /admin/integrity/server [get]
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckServer()
	if err == ErrNoDatabase {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Server schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched {
		l.Warn("Schema drift detected", zap.Any("tables", report.Tables), zap.Strings("errors", report.Errors))
	}
	return c.JSON(report)
}

// HandleCartsCheck lists saved carts whose owner no longer has an account.
// @Summary Check Saved Carts
// @Tags integrity
// @Produce json
// @Success 200 {array} checks.OrphanedCart "Orphaned carts"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Security BearerAuth
// @Router /admin/integrity/carts [get]
func (h *Handler) HandleCartsCheck(c *fiber.Ctx) error {
	orphaned, err := h.service.CheckCarts(c.Context())
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Saved cart check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(orphaned) > 0 {
		logger.WithRayID(h.service.logger, c).Warn("Orphaned carts found", zap.Int("count", len(orphaned)))
	}
	return c.JSON(orphaned)
}
