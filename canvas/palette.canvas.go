package canvas

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type BlendMode uint8

const (
	// Replace overwrites the destination pixel.
	Replace BlendMode = iota
	// Blend alpha-composites the pen over the destination pixel.
	Blend
)

func (m BlendMode) String() string {
	switch m {
	case Replace:
		return "replace"
	case Blend:
		return "blend"
	}
	return "unknown"
}

// Pen is the draw context handed to every primitive.
type Pen struct {
	Color color.RGBA
	Mode  BlendMode
}

func (p Pen) WithMode(m BlendMode) Pen {
	p.Mode = m
	return p
}

func (p Pen) WithAlpha(a uint8) Pen {
	p.Color.A = a
	return p
}

type Palette []color.RGBA

// ParsePalette converts "#rrggbb" strings into opaque colors.
func ParsePalette(hexColors []string) (Palette, error) {
	if len(hexColors) == 0 {
		return nil, errors.New("palette is empty")
	}
	p := make(Palette, 0, len(hexColors))
	for _, h := range hexColors {
		c, err := HexToRGBA(h)
		if err != nil {
			return nil, err
		}
		p = append(p, c)
	}
	return p, nil
}

func HexToRGBA(hex string) (color.RGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 {
		return color.RGBA{}, errors.Errorf("invalid hex color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrapf(err, "invalid hex color %q", hex)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// At returns the color at index, wrapping in both directions.
func (p Palette) At(index int) color.RGBA {
	n := len(p)
	return p[((index%n)+n)%n]
}
