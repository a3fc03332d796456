package colors

import (
	"testing"

	"github.com/solarlune/skyview"
	"github.com/stretchr/testify/assert"
)

func TestSkyDefaults(t *testing.T) {
	cfg := skyview.DefaultConfig()
	assert.Equal(t, Haze(), cfg.Scene.SkyHorizon)
	assert.Equal(t, SkyBlue(), cfg.Scene.SkyZenith)
}

func TestOpaque(t *testing.T) {
	for _, c := range []skyview.Color{White(), Black(), LightGray(), Yellow(), SkyBlue(), Haze()} {
		assert.Equal(t, float32(1), c.A)
	}
}
