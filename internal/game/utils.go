package game

import (
	"math"
	"strings"

	"github.com/iburimskiy/nightsky/internal/config"
)

// hsvToRgb converts HSV to RGB (hue: 0-360, saturation: 0-1, value: 0-1)
func hsvToRgb(h, s, v float64) (uint8, uint8, uint8) {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := v - c

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return uint8((r + m) * 255), uint8((g + m) * 255), uint8((b + m) * 255)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// twinkle returns the opacity of star i at time t. level is the music
// loudness in [0,1] and deepens the flicker.
func twinkle(i int, t, level float64) float64 {
	// golden angle keeps neighbouring stars out of phase
	phase := float64(i) * 2.39996
	depth := config.TwinkleDepth + config.MusicTwinkleMax*clamp01(level)
	wave := 0.5 + 0.5*math.Sin(t*config.TwinkleSpeed+phase)
	return clamp01(1 - depth*wave)
}

// rect is an axis-aligned screen rectangle.
type rect struct {
	X, Y, W, H float64
}

// centeredRect returns a w×h rect centered in a screen of sw×sh.
func centeredRect(sw, sh int, w, h float64) rect {
	if w > float64(sw)-16 {
		w = float64(sw) - 16
	}
	return rect{X: (float64(sw) - w) / 2, Y: (float64(sh) - h) / 2, W: w, H: h}
}

func (r rect) contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// wrapText breaks s into lines no wider than maxWidth according to measure.
// A single word wider than maxWidth gets a line of its own.
func wrapText(s string, maxWidth float64, measure func(string) float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		candidate := line + " " + w
		if measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		lines = append(lines, line)
		line = w
	}
	return append(lines, line)
}
