// Package audio plays the optional background track of the night sky and
// exposes its loudness for the star twinkle.
package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"go.uber.org/zap"

	"github.com/iburimskiy/nightsky/internal/config"
)

// ErrUnsupported is returned for files that are not wav, mp3 or flac.
var ErrUnsupported = errors.New("unsupported audio file type")

// Patterns lists the file patterns Decode understands.
var Patterns = []string{"*.wav", "*.mp3", "*.flac"}

// Decode picks a decoder by file extension.
func Decode(rc io.ReadCloser, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.Decode(rc)
	case ".mp3":
		return mp3.Decode(rc)
	case ".flac":
		return flac.Decode(rc)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
}

// Player loops a single track through the speaker.
type Player struct {
	logger *zap.Logger

	mu       sync.Mutex
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	tap      *Tap
	paused   bool
	initDone bool
}

func NewPlayer(logger *zap.Logger) *Player {
	return &Player{logger: logger}
}

// Play stops whatever is playing and loops the track at path.
func (p *Player) Play(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open track: %w", err)
	}
	streamer, format, err := Decode(f, path)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// streamer -> loop -> tap -> ctrl
	t := NewTap(beep.Loop(-1, streamer), config.VisualRingSize)
	ctrl := &beep.Ctrl{Streamer: t, Paused: false}

	bufferSize := format.SampleRate.N(time.Second / 20)
	switch {
	case !p.initDone:
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		p.initDone = true
	case p.format.SampleRate != format.SampleRate:
		speaker.Clear()
		if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
			_ = streamer.Close()
			_ = f.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
	default:
		speaker.Clear()
	}
	p.closeLocked()

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.tap = t
	p.paused = false

	speaker.Play(ctrl)
	p.logger.Info("playing track", zap.String("path", path), zap.Int("sample_rate", int(format.SampleRate)))
	return nil
}

// TogglePause pauses or resumes playback. It is a no-op without a track.
func (p *Player) TogglePause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return
	}
	speaker.Lock()
	p.paused = !p.paused
	p.ctrl.Paused = p.paused
	speaker.Unlock()
}

// Level returns the loudness of the playing track, or 0.
func (p *Player) Level() float64 {
	p.mu.Lock()
	t, paused := p.tap, p.paused
	p.mu.Unlock()
	if t == nil || paused {
		return 0
	}
	return t.Level()
}

// Stop halts playback and releases the track.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initDone {
		speaker.Clear()
	}
	p.closeLocked()
}

func (p *Player) closeLocked() {
	if p.streamer != nil {
		_ = p.streamer.Close()
		p.streamer = nil
	}
	if p.file != nil {
		_ = p.file.Close()
		p.file = nil
	}
	p.ctrl = nil
	p.tap = nil
}
