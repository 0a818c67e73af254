// Package view holds the pan and zoom state applied to the star canvas.
package view

import "github.com/iburimskiy/nightsky/internal/config"

// Viewport is a translation followed by a uniform scale, the same order a
// 2D canvas context applies translate() then scale().
type Viewport struct {
	OffsetX, OffsetY float64
	Scale            float64
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Scale: 1}
}

// Pan moves the offset by the given screen delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

// Zoom applies one wheel notch. A negative deltaY (wheel away from the user)
// zooms in, anything else zooms out.
func (v *Viewport) Zoom(deltaY float64) {
	if deltaY < 0 {
		v.Scale *= config.ZoomFactor
	} else {
		v.Scale /= config.ZoomFactor
	}
}

// Reset restores the identity viewport.
func (v *Viewport) Reset() {
	*v = New()
}

// Apply maps a canvas point to screen space.
func (v Viewport) Apply(x, y float64) (float64, float64) {
	return v.OffsetX + v.Scale*x, v.OffsetY + v.Scale*y
}
