package integrity

import (
	"furniture-store/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature. db may be nil.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger, db *gorm.DB, users Directory, guard fiber.Handler) *Feature {
	svc := NewService(client, bucket, logger, db, users)
	return &Feature{
		service: svc,
		handler: NewHandler(svc, guard),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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
