// Package export writes still images of the night sky.
package export

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/iburimskiy/nightsky/internal/sky"
	"github.com/iburimskiy/nightsky/internal/view"
)

const (
	captionSize = 16
	// maxSuffix bounds the "-N" suffixes tried when a name is taken.
	maxSuffix = 1000
)

// Frame is everything needed to render one still.
type Frame struct {
	Width, Height int
	Stars         []sky.Star
	Viewport      view.Viewport
	Caption       string
}

// FileName returns a timestamped screenshot name inside dir.
func FileName(dir string, at time.Time) string {
	return filepath.Join(dir, "nightsky-"+at.Format("20060102-150405")+".png")
}

// WritePNG renders f and saves it to path. An existing file is never
// overwritten: a "-N" suffix is added instead. It returns the path written.
func WritePNG(path string, f Frame) (string, error) {
	if f.Width <= 0 || f.Height <= 0 {
		return "", fmt.Errorf("export: invalid size %dx%d", f.Width, f.Height)
	}
	dc := gg.NewContext(f.Width, f.Height)
	dc.SetColor(color.Black)
	dc.Clear()

	dc.Push()
	dc.Translate(f.Viewport.OffsetX, f.Viewport.OffsetY)
	dc.Scale(f.Viewport.Scale, f.Viewport.Scale)
	dc.SetColor(color.White)
	w, h := float64(f.Width), float64(f.Height)
	for _, s := range f.Stars {
		dc.DrawCircle(s.X*w, s.Y*h, s.Radius())
		dc.Fill()
	}
	dc.Pop()

	if f.Caption != "" {
		if err := drawCaption(dc, f.Caption); err != nil {
			return "", err
		}
	}

	file, written, err := createUnique(path)
	if err != nil {
		return "", err
	}
	if err := dc.EncodePNG(file); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("encode %s: %w", written, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("save %s: %w", written, err)
	}
	return written, nil
}

// createUnique creates path, or path with the first free "-N" suffix.
func createUnique(path string) (*os.File, string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	candidate := path
	for n := 1; n <= maxSuffix; n++ {
		file, err := os.OpenFile(candidate, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, candidate, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create %s: %w", candidate, err)
		}
		candidate = fmt.Sprintf("%s-%d%s", base, n, ext)
	}
	return nil, "", fmt.Errorf("create %s: no free name", path)
}

func drawCaption(dc *gg.Context, caption string) error {
	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return fmt.Errorf("parse font: %w", err)
	}
	face := truetype.NewFace(ttfFont, &truetype.Options{Size: captionSize})
	dc.SetFontFace(face)

	w, h := float64(dc.Width()), float64(dc.Height())
	dc.SetColor(color.RGBA{R: 255, G: 240, B: 245, A: 230})
	dc.DrawStringWrapped(caption, w/2, h-24, 0.5, 1, w*0.8, 1.4, gg.AlignCenter)
	return nil
}
