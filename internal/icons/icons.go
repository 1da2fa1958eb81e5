// Package icons rasterizes the app icon set: a text label centred on a
// solid square, at each configured size and its @2x variant.
package icons

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSizes are the macOS app icon sizes in points.
var DefaultSizes = []int{16, 32, 128, 256, 512}

// Options configures Generate.
type Options struct {
	Label      string
	OutputDir  string
	Sizes      []int
	Background string // hex, e.g. "#0066CC"
	Foreground string
	FontPath   string // TTF/OTF; the embedded Go Mono font is used if it can't be loaded

	// OnWrite, if set, is called after each PNG is written.
	OnWrite func(Icon)
}

// Icon is one written PNG.
type Icon struct {
	Path string
	Size int // pixels
}

// Generate writes icon_<s>x<s>.png and icon_<s>x<s>@2x.png for every size.
func Generate(opts Options) ([]Icon, error) {
	bg, err := parseColor(opts.Background, "#0066CC")
	if err != nil {
		return nil, err
	}
	fg, err := parseColor(opts.Foreground, "#FFFFFF")
	if err != nil {
		return nil, err
	}
	sizes := opts.Sizes
	if len(sizes) == 0 {
		sizes = DefaultSizes
	}

	fnt, _, err := LoadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var icons []Icon
	for _, size := range sizes {
		for _, v := range []struct {
			px   int
			name string
		}{
			{size, fmt.Sprintf("icon_%dx%d.png", size, size)},
			{size * 2, fmt.Sprintf("icon_%dx%d@2x.png", size, size)},
		} {
			img, err := Render(v.px, opts.Label, fnt, bg, fg)
			if err != nil {
				return icons, err
			}
			path := filepath.Join(opts.OutputDir, v.name)
			if err := writePNG(path, img); err != nil {
				return icons, err
			}
			icon := Icon{Path: path, Size: v.px}
			icons = append(icons, icon)
			if opts.OnWrite != nil {
				opts.OnWrite(icon)
			}
		}
	}
	return icons, nil
}

// LoadFont parses the font at path. When path is empty or unusable it
// returns the embedded Go Mono font and reports fallback=true.
func LoadFont(path string) (f *opentype.Font, fallback bool, err error) {
	if path != "" {
		if data, readErr := os.ReadFile(path); readErr == nil {
			if f, parseErr := opentype.Parse(data); parseErr == nil {
				return f, false, nil
			}
		}
	}
	f, err = opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, true, fmt.Errorf("failed to parse fallback font: %w", err)
	}
	return f, true, nil
}

// Render draws label centred on a size×size square. The font size is a
// quarter of the side.
func Render(size int, label string, fnt *opentype.Font, bg, fg color.Color) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if label == "" {
		return img, nil
	}

	points := float64(size / 4)
	if points < 1 {
		points = 1
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    points,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	bounds, _ := font.BoundString(face, label)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := (bounds.Max.Y - bounds.Min.Y).Ceil()

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.I((size-width)/2) - bounds.Min.X,
			Y: fixed.I((size-height)/2) - bounds.Min.Y,
		},
	}
	d.DrawString(label)
	return img, nil
}

func parseColor(hex, fallback string) (color.Color, error) {
	if hex == "" {
		hex = fallback
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
