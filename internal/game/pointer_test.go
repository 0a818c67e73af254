package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"

	"github.com/iburimskiy/nightsky/internal/view"
)

func mouseAt(x, y float64) Input {
	return Input{Cursor: Point{X: x, Y: y}, CursorInside: true}
}

func TestDraggerMouse(t *testing.T) {
	var d Dragger
	vp := view.New()

	// Moving without a press does nothing.
	d.Update(mouseAt(10, 10), &vp)
	assert.False(t, d.Dragging())

	press := mouseAt(10, 10)
	press.MousePressed = true
	d.Update(press, &vp)
	assert.True(t, d.Dragging())
	assert.Equal(t, view.New(), vp)

	d.Update(mouseAt(25, 5), &vp)
	d.Update(mouseAt(30, 0), &vp)
	assert.Equal(t, 20.0, vp.OffsetX)
	assert.Equal(t, -10.0, vp.OffsetY)

	release := mouseAt(100, 100)
	release.MouseReleased = true
	d.Update(release, &vp)
	assert.False(t, d.Dragging())
	assert.Equal(t, 20.0, vp.OffsetX)

	d.Update(mouseAt(0, 0), &vp)
	assert.Equal(t, 20.0, vp.OffsetX)
	assert.Equal(t, 1.0, vp.Scale)
}

func TestDraggerMouseLeave(t *testing.T) {
	var d Dragger
	vp := view.New()

	press := mouseAt(10, 10)
	press.MousePressed = true
	d.Update(press, &vp)

	left := mouseAt(-5, 10)
	left.CursorInside = false
	d.Update(left, &vp)
	assert.False(t, d.Dragging())
	assert.Equal(t, 0.0, vp.OffsetX)

	d.Update(mouseAt(50, 50), &vp)
	assert.Equal(t, view.New(), vp)
}

func TestDraggerSingleTouch(t *testing.T) {
	var d Dragger
	vp := view.New()

	d.Update(Input{Touches: []Point{{5, 5}}, TouchStarted: []Point{{5, 5}}}, &vp)
	assert.True(t, d.Dragging())

	d.Update(Input{Touches: []Point{{15, 20}}}, &vp)
	assert.Equal(t, 10.0, vp.OffsetX)
	assert.Equal(t, 15.0, vp.OffsetY)

	// A second finger suspends panning.
	d.Update(Input{Touches: []Point{{40, 40}, {80, 80}}}, &vp)
	assert.Equal(t, 10.0, vp.OffsetX)

	d.Update(Input{TouchEnded: []Point{{40, 40}}, Touches: []Point{{80, 80}}}, &vp)
	assert.False(t, d.Dragging())

	d.Update(Input{Touches: []Point{{90, 90}}}, &vp)
	assert.Equal(t, 10.0, vp.OffsetX)
}

func TestDraggerIgnoresMultiTouchStart(t *testing.T) {
	var d Dragger
	vp := view.New()

	d.Update(Input{Touches: []Point{{5, 5}, {9, 9}}, TouchStarted: []Point{{5, 5}, {9, 9}}}, &vp)
	assert.False(t, d.Dragging())
}

func TestInputHelpers(t *testing.T) {
	in := Input{
		Cursor:        Point{1, 2},
		MousePressed:  true,
		MouseReleased: true,
		TouchStarted:  []Point{{3, 4}},
		TouchEnded:    []Point{{5, 6}},
		Keys:          []ebiten.Key{ebiten.KeyS},
	}
	assert.Equal(t, []Point{{3, 4}, {1, 2}}, in.presses())
	assert.Equal(t, []Point{{5, 6}, {1, 2}}, in.releases())
	assert.True(t, in.KeyPressed(ebiten.KeyS))
	assert.False(t, in.KeyPressed(ebiten.KeyR))
}
