// Package sky provides the star records drawn on the night-sky canvas, the
// catalog client that fetches them and the random fallback used when the
// catalog is unavailable.
package sky

import (
	"math"
	"math/rand/v2"

	"github.com/iburimskiy/nightsky/internal/config"
)

// Star is a single catalog record. X and Y are normalized to [0,1] of the
// canvas; lower magnitudes are brighter and render larger.
type Star struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Magnitude float64 `json:"magnitude"`
}

// Radius returns the unscaled draw radius in pixels.
func (s Star) Radius() float64 {
	return math.Max(config.MinStarRadius, config.BaseStarRadius-s.Magnitude)
}

// GenerateRandom returns n stars scattered uniformly over the canvas with
// magnitudes in [0, MaxMagnitude).
func GenerateRandom(n int, rng *rand.Rand) []Star {
	if n <= 0 {
		return nil
	}
	stars := make([]Star, n)
	for i := range stars {
		stars[i] = Star{
			X:         rng.Float64(),
			Y:         rng.Float64(),
			Magnitude: rng.Float64() * config.MaxMagnitude,
		}
	}
	return stars
}
