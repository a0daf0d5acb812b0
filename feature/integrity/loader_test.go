package integrity

import (
	"testing"

	"furniture-store/core/middleware/auth"
	"furniture-store/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestLoader(t *testing.T) {
	guard := auth.New(auth.NewIssuer(auth.Config{Secret: "test"}))
	feature := NewFeature(new(mocks.Client), "test-bucket", zap.NewNop(), nil, nil, guard)

	assert.Equal(t, "integrity", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
