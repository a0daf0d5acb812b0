package order

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the order administration feature.
func NewFeature(book *Book, exporter *Exporter, logger *zap.Logger, guard fiber.Handler) *Feature {
	return &Feature{handler: NewHandler(NewService(book, exporter, logger), guard)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "order"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
