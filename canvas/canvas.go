package canvas

import (
	"image"

	"github.com/pkg/errors"
)

// Sink receives a full frame once per tick.
type Sink interface {
	Present(frame []byte) error
}

// Canvas is a fixed-size RGBA8 pixel buffer, row-major, 4 bytes per pixel.
type Canvas struct {
	width   int
	height  int
	buffer  []byte
	palette Palette
}

func New(width, height int, palette Palette) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid canvas size %dx%d", width, height)
	}
	if len(palette) == 0 {
		return nil, errors.New("canvas needs at least one palette color")
	}
	return &Canvas{
		width:   width,
		height:  height,
		buffer:  make([]byte, width*height*4),
		palette: palette,
	}, nil
}

func (c *Canvas) Width() int { return c.width }
func (c *Canvas) Height() int { return c.height }
func (c *Canvas) Buffer() []byte { return c.buffer }
func (c *Canvas) Palette() Palette { return c.palette }

// RGBA returns an image view sharing the canvas buffer.
func (c *Canvas) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    c.buffer,
		Stride: c.width * 4,
		Rect:   image.Rect(0, 0, c.width, c.height),
	}
}

// SelectColor returns a Replace pen with the palette color at index.
func (c *Canvas) SelectColor(index int) Pen {
	return Pen{Color: c.palette.At(index), Mode: Replace}
}

func (c *Canvas) Clear() {
	clear(c.buffer)
}

// Dim adds delta to every byte of the buffer, saturating at 0 and 255.
func (c *Canvas) Dim(delta int) {
	for i, v := range c.buffer {
		c.buffer[i] = uint8(min(max(int(v)+delta, 0), 255))
	}
}

func (c *Canvas) Display(sink Sink) error {
	return sink.Present(c.buffer)
}

// DrawPoint composites pen at pos. Points outside the canvas are ignored.
func (c *Canvas) DrawPoint(pen Pen, pos Vec2) {
	if !(pos.X >= 0 && pos.X < float32(c.width) && pos.Y >= 0 && pos.Y < float32(c.height)) {
		return
	}
	idx := c.idx(int(pos.X), int(pos.Y))
	switch pen.Mode {
	case Replace:
		c.pointReplace(pen, idx)
	case Blend:
		c.pointBlend(pen, idx)
	}
}

func (c *Canvas) pointBlend(pen Pen, idx int) {
	r, g, b, a := pen.Color.R, pen.Color.G, pen.Color.B, pen.Color.A
	if a == 0 {
		return
	} else if a == 255 {
		c.pointReplace(pen, idx)
		return
	}

	mix := float32(a) / 255
	px := c.buffer[idx : idx+4 : idx+4]
	px[0] = uint8(float32(r)*mix + float32(px[0])*(1-mix))
	px[1] = uint8(float32(g)*mix + float32(px[1])*(1-mix))
	px[2] = uint8(float32(b)*mix + float32(px[2])*(1-mix))
	px[3] = uint8(float32(a)*mix + float32(px[3])*(1-mix))
}

func (c *Canvas) pointReplace(pen Pen, idx int) {
	px := c.buffer[idx : idx+4 : idx+4]
	px[0] = pen.Color.R
	px[1] = pen.Color.G
	px[2] = pen.Color.B
	px[3] = pen.Color.A
}

func (c *Canvas) idx(x, y int) int {
	return (x + y*c.width) * 4
}
