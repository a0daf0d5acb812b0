package server_test

import (
	"testing"
	"time"

	"furniture-store/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Address(t *testing.T) {
	assert.Equal(t, ":8080", server.Config{Port: "8080"}.Address())
}

func TestConfig_FiberConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfg         server.Config
		wantTimeout time.Duration
		wantBody    int
	}{
		{"Configured", server.Config{Name: "store", TimeoutSeconds: 5, BodyLimitKB: 10}, 5 * time.Second, 10 * 1024},
		{"Defaults", server.Config{Name: "store"}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := tt.cfg.FiberConfig()
			assert.True(t, fc.DisableStartupMessage)
			assert.Equal(t, "store", fc.AppName)
			assert.Equal(t, tt.wantTimeout, fc.ReadTimeout)
			assert.Equal(t, tt.wantTimeout, fc.WriteTimeout)
			assert.Equal(t, tt.wantBody, fc.BodyLimit)
		})
	}
}
