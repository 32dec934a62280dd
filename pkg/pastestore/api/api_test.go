package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServerConfigDefaults(t *testing.T) {
	cfg := ServerConfig{}
	cfg.ApplyDefaults()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 8, cfg.IDLength)
}

func TestServerConfigKeepsExplicitValues(t *testing.T) {
	cfg := ServerConfig{Port: 9000, IDLength: 12}
	cfg.ApplyDefaults()

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 12, cfg.IDLength)
}

func TestIsHealthPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/health", true},
		{"/health/ready", true},
		{"/api/pastes", false},
		{"/healthz", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isHealthPath(tt.path), "isHealthPath(%q)", tt.path)
	}
}
