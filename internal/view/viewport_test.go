package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewportPan(t *testing.T) {
	v := New()
	v.Pan(10, -5)
	v.Pan(2.5, 1)
	assert.Equal(t, 12.5, v.OffsetX)
	assert.Equal(t, -4.0, v.OffsetY)
	assert.Equal(t, 1.0, v.Scale)
}

func TestViewportZoom(t *testing.T) {
	v := New()
	v.Zoom(-1)
	assert.InDelta(t, 1.05, v.Scale, 1e-12)
	v.Zoom(-3)
	assert.InDelta(t, 1.05*1.05, v.Scale, 1e-12)
	v.Zoom(1)
	v.Zoom(1)
	assert.InDelta(t, 1.0, v.Scale, 1e-12)
	v.Zoom(0)
	assert.InDelta(t, 1/1.05, v.Scale, 1e-12)
}

func TestViewportApply(t *testing.T) {
	v := Viewport{OffsetX: 30, OffsetY: -20, Scale: 2}
	x, y := v.Apply(100, 50)
	assert.Equal(t, 230.0, x)
	assert.Equal(t, 80.0, y)

	// Translation is applied after scaling, so panning is in screen pixels.
	v.Pan(10, 10)
	x, y = v.Apply(100, 50)
	assert.Equal(t, 240.0, x)
	assert.Equal(t, 90.0, y)
}

func TestViewportReset(t *testing.T) {
	v := Viewport{OffsetX: 3, OffsetY: 4, Scale: 9}
	v.Reset()
	assert.Equal(t, New(), v)
}
