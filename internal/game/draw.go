package game

import (
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/nightsky/internal/config"
)

const (
	messageFontSize = 24
	captionFontSize = 20
	lineSpacing     = 1.4
	textPadding     = 18
)

var (
	colBackground = color.RGBA{R: 18, G: 12, B: 28, A: 255}
	colMessage    = color.RGBA{R: 255, G: 214, B: 226, A: 255}
	colCaptionBG  = color.RGBA{R: 0, G: 0, B: 0, A: 150}
	colBorder     = color.RGBA{R: 255, G: 190, B: 210, A: 255}
)

func (g *Game) Draw(screen *ebiten.Image) {
	if g.seq.Current() == StepNightSky {
		g.drawSky(screen)
		g.drawCaption(screen)
		g.drawStatus(screen)
		return
	}

	screen.Fill(colBackground)
	if g.seq.Current().IsButton() {
		g.drawButton(screen)
	} else {
		g.drawMessage(screen)
	}
}

func (g *Game) face(size float64) *text.GoTextFace {
	return &text.GoTextFace{Source: g.faceSource, Size: size}
}

// message returns the text of the current step.
func (g *Game) message() string {
	i := int(g.seq.Current())
	if i < len(g.cfg.Messages) {
		return g.cfg.Messages[i]
	}
	return ""
}

// stepLayout wraps the current message and sizes the clickable box around it.
func (g *Game) stepLayout() (rect, []string) {
	width, minHeight := float64(config.MessageWidth), float64(config.MessageHeight)
	if g.seq.Current().IsButton() {
		width, minHeight = config.ButtonWidth, config.ButtonHeight
	}
	face := g.face(messageFontSize)
	lines := wrapText(g.message(), width-2*textPadding, func(s string) float64 {
		w, _ := text.Measure(s, face, face.Size*lineSpacing)
		return w
	})
	h := float64(len(lines))*messageFontSize*lineSpacing + 2*textPadding
	if h < minHeight {
		h = minHeight
	}
	return centeredRect(g.width, g.height, width, h), lines
}

func (g *Game) stepRect() rect {
	r, _ := g.stepLayout()
	return r
}

func (g *Game) drawButton(screen *ebiten.Image) {
	r, lines := g.stepLayout()

	value := 0.55
	switch {
	case g.armed:
		value = 0.4
	case g.hovered:
		value = 0.65
	}
	cr, cg, cb := hsvToRgb(330+20*g.colorPhase, 0.45, value)
	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), color.RGBA{R: cr, G: cg, B: cb, A: 255}, true)
	vector.StrokeRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), 2, colBorder, true)

	g.drawLines(screen, lines, r, messageFontSize, color.White)
}

func (g *Game) drawMessage(screen *ebiten.Image) {
	r, lines := g.stepLayout()
	g.drawLines(screen, lines, r, messageFontSize, colMessage)
}

func (g *Game) drawLines(screen *ebiten.Image, lines []string, r rect, size float64, clr color.Color) {
	face := g.face(size)
	op := &text.DrawOptions{}
	op.GeoM.Translate(r.X+r.W/2, r.Y+r.H/2)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = size * lineSpacing
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, strings.Join(lines, "\n"), face, op)
}

// drawSky clears the canvas and draws every star through the viewport.
func (g *Game) drawSky(screen *ebiten.Image) {
	screen.Fill(color.Black)

	level := 0.0
	if g.music != nil {
		level = g.music.Level()
	}
	w, h := float64(g.width), float64(g.height)
	for i, s := range g.store.Snapshot() {
		x, y := g.viewport.Apply(s.X*w, s.Y*h)
		r := s.Radius() * g.viewport.Scale
		if x+r < 0 || y+r < 0 || x-r > w || y-r > h {
			continue
		}
		a := uint8(255 * twinkle(i, g.time, level))
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), color.NRGBA{R: 255, G: 255, B: 255, A: a}, true)
	}
}

func (g *Game) drawCaption(screen *ebiten.Image) {
	caption := g.cfg.Caption()
	if caption == "" {
		return
	}
	face := g.face(captionFontSize)
	maxWidth := float64(g.width) * 0.8
	lines := wrapText(caption, maxWidth-2*textPadding, func(s string) float64 {
		w, _ := text.Measure(s, face, face.Size*lineSpacing)
		return w
	})
	boxH := float64(len(lines))*captionFontSize*lineSpacing + 2*textPadding
	r := rect{X: (float64(g.width) - maxWidth) / 2, Y: float64(g.height) - boxH - 24, W: maxWidth, H: boxH}

	vector.DrawFilledRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), colCaptionBG, true)
	g.drawLines(screen, lines, r, captionFontSize, colMessage)
}

func (g *Game) drawStatus(screen *ebiten.Image) {
	status := g.currentNotice()
	if status == "" {
		switch {
		case g.store.Generation() == 0:
			status = "Loading stars..."
		case g.store.Fallback():
			status = "Drag to pan, wheel to zoom, R: reset, S: save, M: music | showing generated stars"
		default:
			status = "Drag to pan, wheel to zoom, R: reset, S: save, M: music"
		}
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}
