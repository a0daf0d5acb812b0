package account

import (
	"furniture-store/core/apperror"
	"furniture-store/core/logger"
	"furniture-store/core/middleware/auth"
	"furniture-store/feature/catalog"
	"furniture-store/feature/order"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the user and user-administration routes.
type Handler struct {
	registry *Registry
	logger   *zap.Logger
	guard    fiber.Handler
}

// NewHandler creates a new HTTP handler. guard authenticates the caller.
func NewHandler(registry *Registry, logger *zap.Logger, guard fiber.Handler) *Handler {
	return &Handler{registry: registry, logger: logger, guard: guard}
}

// RegisterRoutes registers the account routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	user := app.Group("/user")
	user.Post("/register", h.HandleRegister)
	user.Post("/login", h.HandleLogin)
	user.Get("/profile", h.guard, h.HandleProfile)
	user.Put("/profile", h.guard, h.HandleUpdateProfile)
	user.Get("/wishlist", h.guard, h.HandleWishlist)
	user.Post("/wishlist", h.guard, h.HandleAddToWishlist)
	user.Delete("/wishlist", h.guard, h.HandleRemoveFromWishlist)
	user.Get("/orders", h.guard, h.HandleOrders)
	user.Get("/notifications", h.guard, h.HandleNotifications)

	admin := app.Group("/admin/manage_users", h.guard, auth.RequireAdmin())
	admin.Get("/", h.HandleListUsers)
	admin.Put("/", h.HandleUpdateUser)
	admin.Delete("/", h.HandleDeleteUser)
}

// LoginRequest carries credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// WishlistRequest identifies an item.
type WishlistRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// UserUpdateRequest is the admin update of a user. Empty fields are left unchanged.
type UserUpdateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	ProfileUpdate
}

func badBody() error {
	return apperror.Validation("invalid request body")
}

// HandleRegister creates an account.
// @Summary Register
// @Tags user
// @Accept json
// @Produce json
// @Param body body Registration true "New account"
// @Success 201 {object} Profile "Created"
// @Failure 400 {object} map[string]string "Validation failed"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /user/register [post]
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	var req Registration
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, badBody())
	}
	p, err := h.registry.Register(req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// HandleLogin exchanges credentials for a bearer token.
// @Summary Login
// @Tags user
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} Session "Token and profile"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /user/login [post]
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, badBody())
	}
	s, err := h.registry.Login(req.Email, req.Password)
	if err != nil {
		logger.WithRayID(h.logger, c).Info("Login failed", zap.String("email", NormalizeEmail(req.Email)))
		return apperror.Respond(c, err)
	}
	return c.JSON(s)
}

// HandleProfile returns the caller's profile.
// @Summary Get Profile
// @Tags user
// @Produce json
// @Success 200 {object} Profile "Profile"
// @Security BearerAuth
// @Router /user/profile [get]
func (h *Handler) HandleProfile(c *fiber.Ctx) error {
	p, err := h.registry.Get(auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

// HandleUpdateProfile changes the caller's name, address or payment method.
// @Summary Update Profile
// @Tags user
// @Accept json
// @Produce json
// @Param body body ProfileUpdate true "Fields to change"
// @Success 200 {object} Profile "Profile"
// @Security BearerAuth
// @Router /user/profile [put]
func (h *Handler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileUpdate
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, badBody())
	}
	p, err := h.registry.UpdateProfile(auth.Email(c), req)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(p)
}

// HandleWishlist returns the caller's wishlist.
// @Summary Get Wishlist
// @Tags user
// @Produce json
// @Success 200 {array} string "Item keys"
// @Security BearerAuth
// @Router /user/wishlist [get]
func (h *Handler) HandleWishlist(c *fiber.Ctx) error {
	keys, err := h.registry.Wishlist(auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(keys)
}

func wishlistKey(c *fiber.Ctx) (string, error) {
	var req WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return "", badBody()
	}
	kind, err := catalog.ParseKind(req.Type)
	if err != nil {
		return "", err
	}
	if req.Name == "" {
		return "", apperror.Validation("name is required")
	}
	return catalog.ItemKey(kind, req.Name), nil
}

// HandleAddToWishlist adds an item to the caller's wishlist.
// @Summary Add To Wishlist
// @Tags user
// @Accept json
// @Produce json
// @Param body body WishlistRequest true "Item"
// @Success 200 {array} string "Item keys"
// @Security BearerAuth
// @Router /user/wishlist [post]
func (h *Handler) HandleAddToWishlist(c *fiber.Ctx) error {
	key, err := wishlistKey(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	keys, err := h.registry.AddToWishlist(auth.Email(c), key)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(keys)
}

// HandleRemoveFromWishlist removes an item from the caller's wishlist.
// @Summary Remove From Wishlist
// @Tags user
// @Accept json
// @Produce json
// @Param body body WishlistRequest true "Item"
// @Success 200 {array} string "Item keys"
// @Failure 404 {object} map[string]string "Not on the wishlist"
// @Security BearerAuth
// @Router /user/wishlist [delete]
func (h *Handler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	key, err := wishlistKey(c)
	if err != nil {
		return apperror.Respond(c, err)
	}
	keys, err := h.registry.RemoveFromWishlist(auth.Email(c), key)
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(keys)
}

// HandleOrders returns the caller's order history.
// @Summary Order History
// @Tags user
// @Produce json
// @Success 200 {array} order.View "Orders, oldest first"
// @Security BearerAuth
// @Router /user/orders [get]
func (h *Handler) HandleOrders(c *fiber.Ctx) error {
	orders, err := h.registry.OrderHistory(auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	views := make([]order.View, len(orders))
	for i, o := range orders {
		views[i] = o.View()
	}
	return c.JSON(views)
}

// HandleNotifications returns the order status changes delivered to the caller.
// @Summary Notifications
// @Tags user
// @Produce json
// @Success 200 {array} Notification "Notifications"
// @Security BearerAuth
// @Router /user/notifications [get]
func (h *Handler) HandleNotifications(c *fiber.Ctx) error {
	n, err := h.registry.Notifications(auth.Email(c))
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(n)
}

// HandleListUsers lists every user.
// @Summary List Users
// @Tags admin
// @Produce json
// @Success 200 {array} Profile "Users"
// @Security BearerAuth
// @Router /admin/manage_users [get]
func (h *Handler) HandleListUsers(c *fiber.Ctx) error {
	return c.JSON(h.registry.List())
}

// HandleUpdateUser changes a user's role or profile.
// @Summary Update User
// @Tags admin
// @Accept json
// @Produce json
// @Param body body UserUpdateRequest true "Changes"
// @Success 200 {object} Profile "User"
// @Failure 404 {object} map[string]string "Unknown user"
// @Security BearerAuth
// @Router /admin/manage_users [put]
func (h *Handler) HandleUpdateUser(c *fiber.Ctx) error {
	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, badBody())
	}
	p, err := h.registry.UpdateProfile(req.Email, req.ProfileUpdate)
	if err != nil {
		return apperror.Respond(c, err)
	}
	if req.Role != "" {
		if p, err = h.registry.SetRole(req.Email, req.Role); err != nil {
			return apperror.Respond(c, err)
		}
		logger.WithUser(h.logger, c).Info("User role changed", zap.String("target", p.Email), zap.String("role", p.Role))
	}
	return c.JSON(p)
}

// HandleDeleteUser removes a user.
// @Summary Delete User
// @Tags admin
// @Accept json
// @Param body body UserUpdateRequest true "email of the user to delete"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Unknown user"
// @Security BearerAuth
// @Router /admin/manage_users [delete]
func (h *Handler) HandleDeleteUser(c *fiber.Ctx) error {
	var req UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, badBody())
	}
	if err := h.registry.Delete(req.Email); err != nil {
		return apperror.Respond(c, err)
	}
	logger.WithUser(h.logger, c).Info("User deleted", zap.String("target", NormalizeEmail(req.Email)))
	return c.SendStatus(fiber.StatusNoContent)
}
