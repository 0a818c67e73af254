package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/nightsky/internal/view"
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float64
}

// Input is the pointer, wheel and keyboard state of one tick.
type Input struct {
	Cursor        Point
	CursorInside  bool
	MousePressed  bool
	MouseReleased bool

	// Touches holds every active touch; TouchStarted and TouchEnded hold the
	// touches that began or ended this tick.
	Touches      []Point
	TouchStarted []Point
	TouchEnded   []Point

	WheelY float64
	Keys   []ebiten.Key
}

// KeyPressed reports whether k was pressed this tick.
func (in Input) KeyPressed(k ebiten.Key) bool {
	for _, key := range in.Keys {
		if key == k {
			return true
		}
	}
	return false
}

// presses returns every pointer press of the tick, mouse and touch alike.
func (in Input) presses() []Point {
	out := append([]Point(nil), in.TouchStarted...)
	if in.MousePressed {
		out = append(out, in.Cursor)
	}
	return out
}

func (in Input) releases() []Point {
	out := append([]Point(nil), in.TouchEnded...)
	if in.MouseReleased {
		out = append(out, in.Cursor)
	}
	return out
}

// readInput polls ebiten. width and height bound the cursor for leave detection.
func readInput(width, height int) Input {
	var in Input

	mx, my := ebiten.CursorPosition()
	in.Cursor = Point{X: float64(mx), Y: float64(my)}
	in.CursorInside = mx >= 0 && my >= 0 && mx < width && my < height
	in.MousePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.MouseReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)

	for _, id := range ebiten.AppendTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.Touches = append(in.Touches, Point{X: float64(x), Y: float64(y)})
	}
	for _, id := range inpututil.AppendJustPressedTouchIDs(nil) {
		x, y := ebiten.TouchPosition(id)
		in.TouchStarted = append(in.TouchStarted, Point{X: float64(x), Y: float64(y)})
	}
	for _, id := range inpututil.AppendJustReleasedTouchIDs(nil) {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		in.TouchEnded = append(in.TouchEnded, Point{X: float64(x), Y: float64(y)})
	}

	_, in.WheelY = ebiten.Wheel()
	in.Keys = inpututil.AppendJustPressedKeys(nil)
	return in
}

type dragSource int

const (
	dragNone dragSource = iota
	dragMouse
	dragTouch
)

// Dragger turns a single mouse or one-finger drag into viewport pans.
type Dragger struct {
	source dragSource
	last   Point
}

// Dragging reports whether a drag is in progress.
func (d *Dragger) Dragging() bool { return d.source != dragNone }

// Update applies one tick of input to vp.
func (d *Dragger) Update(in Input, vp *view.Viewport) {
	switch d.source {
	case dragMouse:
		if in.MouseReleased || !in.CursorInside {
			d.source = dragNone
			break
		}
		d.moveTo(in.Cursor, vp)
	case dragTouch:
		if len(in.TouchEnded) > 0 {
			d.source = dragNone
			break
		}
		if len(in.Touches) == 1 {
			d.moveTo(in.Touches[0], vp)
		}
	}

	if in.MousePressed && in.CursorInside && !in.MouseReleased {
		d.source = dragMouse
		d.last = in.Cursor
	}
	if len(in.TouchStarted) > 0 && len(in.Touches) == 1 {
		d.source = dragTouch
		d.last = in.Touches[0]
	}
}

func (d *Dragger) moveTo(p Point, vp *view.Viewport) {
	vp.Pan(p.X-d.last.X, p.Y-d.last.Y)
	d.last = p
}
