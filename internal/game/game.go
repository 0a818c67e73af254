// Package game runs the presentation: three click-through messages followed
// by the pannable, zoomable night sky.
package game

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/iburimskiy/nightsky/internal/config"
	"github.com/iburimskiy/nightsky/internal/export"
	"github.com/iburimskiy/nightsky/internal/sky"
	"github.com/iburimskiy/nightsky/internal/view"
)

const (
	resizeDebounce = 250 * time.Millisecond
	noticeDuration = 3 * time.Second
	tickSeconds    = 1.0 / 60.0
)

// Music is the background track of the night sky.
type Music interface {
	Play(path string) error
	TogglePause()
	Level() float64
	Stop()
}

// Options wires a Game to its collaborators.
type Options struct {
	Config config.Config
	Logger *zap.Logger
	Loader *sky.Loader
	Music  Music
	// PickFile asks the user for a music file. It blocks until the user
	// answers or ctx is done; an empty path means the user cancelled.
	PickFile func(ctx context.Context) (string, error)
	Now      func() time.Time
}

// Game is the ebiten.Game of the presentation.
type Game struct {
	cfg      config.Config
	logger   *zap.Logger
	music    Music
	pickFile func(ctx context.Context) (string, error)
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	seq       Sequencer
	store     *sky.Store
	refresher *sky.Refresher
	mounted   bool

	viewport view.Viewport
	dragger  Dragger

	width, height int
	resizedAt     time.Time
	resizePending bool

	// armed is set when a press lands on the current button or message; the
	// step advances if the matching release lands there too.
	armed   bool
	hovered bool

	time       float64
	colorPhase float64

	faceSource *text.GoTextFaceSource

	picking atomic.Bool

	noticeMu    sync.Mutex
	notice      string
	noticeUntil time.Time

	wg sync.WaitGroup
}

// NewGame builds the presentation. ctx bounds every background load.
func NewGame(ctx context.Context, opts Options) (*Game, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loader := opts.Loader
	if loader == nil {
		return nil, errors.New("game: loader is required")
	}

	ctx, cancel := context.WithCancel(ctx)
	store := &sky.Store{}
	return &Game{
		ctx:        ctx,
		cancel:     cancel,
		cfg:        opts.Config,
		logger:     logger,
		music:      opts.Music,
		pickFile:   opts.PickFile,
		now:        now,
		store:      store,
		refresher:  sky.NewRefresher(ctx, loader, store),
		viewport:   view.New(),
		width:      config.WindowWidth,
		height:     config.WindowHeight,
		faceSource: src,
	}, nil
}

// Step returns the screen currently shown.
func (g *Game) Step() Step { return g.seq.Current() }

// Viewport returns the current pan and zoom.
func (g *Game) Viewport() view.Viewport { return g.viewport }

// Stars returns the stars currently on the canvas.
func (g *Game) Stars() []sky.Star { return g.store.Snapshot() }

func (g *Game) Update() error {
	return g.update(readInput(g.width, g.height))
}

func (g *Game) update(in Input) error {
	if g.ctx.Err() != nil {
		return ebiten.Termination
	}
	if in.KeyPressed(ebiten.KeyEscape) || in.KeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.seq.Interactive() {
		g.updateStep(in)
	} else {
		g.updateSky(in)
	}

	g.time += tickSeconds
	g.colorPhase += 0.002
	return nil
}

func (g *Game) updateStep(in Input) {
	target := g.stepRect()
	g.hovered = in.CursorInside && target.contains(in.Cursor)

	for _, p := range in.presses() {
		if target.contains(p) {
			g.armed = true
		}
	}
	advance := in.KeyPressed(ebiten.KeyEnter) || in.KeyPressed(ebiten.KeySpace)
	for _, p := range in.releases() {
		if g.armed && target.contains(p) {
			advance = true
		}
	}
	if len(in.releases()) > 0 {
		g.armed = false
	}
	if advance {
		g.advance()
	}
}

func (g *Game) advance() {
	if !g.seq.Advance() {
		return
	}
	g.armed = false
	g.logger.Debug("advanced", zap.Stringer("step", g.seq.Current()))
	if g.seq.Current() == StepNightSky {
		g.mountSky()
	}
}

func (g *Game) mountSky() {
	g.mounted = true
	g.refresher.Refresh()
	if g.cfg.MusicPath != "" && g.music != nil {
		if err := g.music.Play(g.cfg.MusicPath); err != nil {
			g.logger.Error("play music", zap.String("path", g.cfg.MusicPath), zap.Error(err))
			g.setNotice("Could not play music: " + err.Error())
		}
	}
}

func (g *Game) updateSky(in Input) {
	g.dragger.Update(in, &g.viewport)
	if in.WheelY != 0 {
		// ebiten reports wheel-up as positive; the viewport follows the DOM
		// convention where a negative delta zooms in.
		g.viewport.Zoom(-in.WheelY)
	}

	switch {
	case in.KeyPressed(ebiten.KeyR):
		g.viewport.Reset()
	case in.KeyPressed(ebiten.KeyS):
		g.screenshot()
	case in.KeyPressed(ebiten.KeyM):
		g.chooseMusic()
	case in.KeyPressed(ebiten.KeySpace):
		if g.music != nil {
			g.music.TogglePause()
		}
	}

	if g.resizePending && g.now().Sub(g.resizedAt) >= resizeDebounce {
		g.resizePending = false
		g.logger.Debug("canvas resized, refetching stars", zap.Int("width", g.width), zap.Int("height", g.height))
		g.refresher.Refresh()
	}
}

func (g *Game) screenshot() {
	frame := export.Frame{
		Width:    g.width,
		Height:   g.height,
		Stars:    g.store.Snapshot(),
		Viewport: g.viewport,
		Caption:  g.cfg.Caption(),
	}
	path := export.FileName(g.cfg.ScreenshotDir, g.now())
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		written, err := export.WritePNG(path, frame)
		if err != nil {
			g.logger.Error("screenshot", zap.Error(err))
			g.setNotice("Screenshot failed: " + err.Error())
			return
		}
		g.logger.Info("saved screenshot", zap.String("path", written))
		g.setNotice("Saved " + written)
	}()
}

func (g *Game) chooseMusic() {
	if g.pickFile == nil || g.music == nil {
		return
	}
	// One dialog at a time; M is ignored while it is open.
	if !g.picking.CompareAndSwap(false, true) {
		return
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.picking.Store(false)
		path, err := g.pickFile(g.ctx)
		if err != nil {
			g.logger.Error("choose music", zap.Error(err))
			g.setNotice("Could not open file dialog: " + err.Error())
			return
		}
		if path == "" || g.ctx.Err() != nil {
			return
		}
		if err := g.music.Play(path); err != nil {
			g.logger.Error("play music", zap.String("path", path), zap.Error(err))
			g.setNotice("Could not play music: " + err.Error())
		}
	}()
}

func (g *Game) setNotice(msg string) {
	g.noticeMu.Lock()
	g.notice = msg
	g.noticeUntil = g.now().Add(noticeDuration)
	g.noticeMu.Unlock()
}

func (g *Game) currentNotice() string {
	g.noticeMu.Lock()
	defer g.noticeMu.Unlock()
	if g.now().After(g.noticeUntil) {
		return ""
	}
	return g.notice
}

// Layout makes the canvas fill the window and tracks its size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.resize(outsideWidth, outsideHeight)
	return g.width, g.height
}

func (g *Game) resize(w, h int) {
	if w <= 0 || h <= 0 || (w == g.width && h == g.height) {
		return
	}
	g.width, g.height = w, h
	if g.mounted {
		g.resizePending = true
		g.resizedAt = g.now()
	}
}

// Close stops background loads, music and pending saves.
func (g *Game) Close() {
	g.cancel()
	g.refresher.Close()
	if g.music != nil {
		g.music.Stop()
	}
	g.wg.Wait()
}
