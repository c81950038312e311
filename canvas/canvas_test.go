package canvas

import (
	"bytes"
	"image/color"
	"math"
	"testing"
)

var testPalette = Palette{
	{0x16, 0x07, 0x29, 255},
	{0x17, 0x18, 0x56, 255},
	{0x24, 0x37, 0x71, 255},
	{0x41, 0x6e, 0x8f, 255},
	{0xdb, 0xf3, 0xf1, 255},
}

func newTestCanvas(t *testing.T, w, h int) *Canvas {
	t.Helper()
	c, err := New(w, h, testPalette)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func pixel(c *Canvas, x, y int) color.RGBA {
	i := c.idx(x, y)
	b := c.Buffer()
	return color.RGBA{b[i], b[i+1], b[i+2], b[i+3]}
}

func countLit(c *Canvas) int {
	n := 0
	for i := 0; i < len(c.Buffer()); i += 4 {
		if c.Buffer()[i+3] != 0 {
			n++
		}
	}
	return n
}

func TestMap(t *testing.T) {
	tests := []struct {
		name                      string
		v, inLo, inHi, outLo, out float32
		want                      float32
	}{
		{"lower bound", 3, 3, 7, -10, 10, -10},
		{"upper bound", 7, 3, 7, -10, 10, 10},
		{"midpoint", 5, 3, 7, -10, 10, 0},
		{"extrapolate", 20, 0, 10, 0, 100, 200},
		{"inverted output", 0.1, 0, 0.4, 480, 0, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Map(tt.v, tt.inLo, tt.inHi, tt.outLo, tt.out)
			if math.Abs(float64(got-tt.want)) > 1e-3 {
				t.Errorf("Map(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestMapDegenerateRange(t *testing.T) {
	got := Map(5, 5, 5, 0, 100)
	if !math.IsNaN(float64(got)) && !math.IsInf(float64(got), 0) {
		t.Errorf("expected NaN or Inf for empty input range, got %v", got)
	}
}

func TestNewRejectsInvalid(t *testing.T) {
	if _, err := New(0, 10, testPalette); err == nil {
		t.Error("expected error for zero width")
	}
	if _, err := New(10, 10, nil); err == nil {
		t.Error("expected error for empty palette")
	}
	c := newTestCanvas(t, 4, 3)
	if got := len(c.Buffer()); got != 4*3*4 {
		t.Errorf("buffer size = %d, want %d", got, 48)
	}
	if countLit(c) != 0 {
		t.Error("new canvas should be zeroed")
	}
}

func TestDrawPointOutOfBounds(t *testing.T) {
	c := newTestCanvas(t, 8, 6)
	pen := Pen{Color: color.RGBA{1, 2, 3, 255}}
	before := bytes.Clone(c.Buffer())

	nan := float32(math.NaN())
	points := []Vec2{
		{-1, 0}, {0, -1}, {-0.5, 2}, {8, 0}, {0, 6}, {8.5, 6.5},
		{1e9, 1e9}, {nan, 1}, {1, nan},
		{float32(math.Inf(1)), 0}, {float32(math.Inf(-1)), 0},
	}
	for _, p := range points {
		c.DrawPoint(pen, p)
		c.DrawPoint(pen.WithMode(Blend).WithAlpha(100), p)
	}
	if !bytes.Equal(before, c.Buffer()) {
		t.Error("out of bounds points mutated the buffer")
	}

	c.DrawPoint(pen, V(7.9, 5.9))
	if got := pixel(c, 7, 5); got != pen.Color {
		t.Errorf("edge pixel = %v, want %v", got, pen.Color)
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		dst  color.RGBA
		pen  color.RGBA
		want color.RGBA
	}{
		{"transparent pen is no-op", color.RGBA{10, 20, 30, 40}, color.RGBA{200, 100, 50, 0}, color.RGBA{10, 20, 30, 40}},
		{"opaque pen replaces", color.RGBA{10, 20, 30, 40}, color.RGBA{200, 100, 50, 255}, color.RGBA{200, 100, 50, 255}},
		{"half alpha over black", color.RGBA{}, color.RGBA{200, 100, 50, 128}, color.RGBA{100, 50, 25, 64}},
		{"half alpha over grey", color.RGBA{200, 200, 200, 255}, color.RGBA{0, 0, 0, 128}, color.RGBA{99, 99, 99, 191}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCanvas(t, 2, 2)
			c.DrawPoint(Pen{Color: tt.dst}, V(1, 1))
			c.DrawPoint(Pen{Color: tt.pen, Mode: Blend}, V(1, 1))
			if got := pixel(c, 1, 1); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplaceIgnoresAlpha(t *testing.T) {
	c := newTestCanvas(t, 2, 2)
	c.DrawPoint(Pen{Color: color.RGBA{9, 9, 9, 255}}, V(0, 0))
	c.DrawPoint(Pen{Color: color.RGBA{1, 2, 3, 0}}, V(0, 0))
	if got := pixel(c, 0, 0); got != (color.RGBA{1, 2, 3, 0}) {
		t.Errorf("got %v, want unconditional overwrite", got)
	}
}

func TestSelectColorWraps(t *testing.T) {
	c := newTestCanvas(t, 1, 1)
	tests := []struct {
		index int
		want  color.RGBA
	}{
		{0, testPalette[0]},
		{4, testPalette[4]},
		{5, testPalette[0]},
		{12, testPalette[2]},
		{-1, testPalette[4]},
	}
	for _, tt := range tests {
		pen := c.SelectColor(tt.index)
		if pen.Color != tt.want || pen.Mode != Replace {
			t.Errorf("SelectColor(%d) = %+v, want %v/replace", tt.index, pen, tt.want)
		}
	}
}

func TestDrawLine(t *testing.T) {
	pen := Pen{Color: color.RGBA{255, 0, 0, 255}}

	t.Run("zero length draws nothing", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(3, 3), V(3, 3))
		if n := countLit(c); n != 0 {
			t.Errorf("lit %d pixels, want 0", n)
		}
	})

	t.Run("sub-pixel length draws nothing", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(3, 3), V(3.5, 3.9))
		if n := countLit(c); n != 0 {
			t.Errorf("lit %d pixels, want 0", n)
		}
	})

	t.Run("horizontal excludes end point", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(0, 2), V(5, 2))
		for x := 0; x < 5; x++ {
			if pixel(c, x, 2) != pen.Color {
				t.Errorf("pixel %d,2 not drawn", x)
			}
		}
		if pixel(c, 5, 2) == pen.Color {
			t.Error("end point should not be drawn")
		}
		if n := countLit(c); n != 5 {
			t.Errorf("lit %d pixels, want 5", n)
		}
	})

	t.Run("vertical upwards", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(4, 9), V(4, 1))
		if n := countLit(c); n != 8 {
			t.Errorf("lit %d pixels, want 8", n)
		}
		if pixel(c, 4, 9) != pen.Color || pixel(c, 4, 2) != pen.Color {
			t.Error("expected column 4 rows 2..9 drawn")
		}
	})

	t.Run("clipped partially", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(-5, 0), V(5, 0))
		if n := countLit(c); n != 5 {
			t.Errorf("lit %d pixels, want 5", n)
		}
	})

	t.Run("non finite endpoint", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawLine(pen, V(0, 0), V(float32(math.Inf(1)), 0))
		if n := countLit(c); n != 0 {
			t.Errorf("lit %d pixels, want 0", n)
		}
	})
}

func TestDrawCurve(t *testing.T) {
	pen := Pen{Color: color.RGBA{0, 255, 0, 255}}

	t.Run("coincident points draw nothing", func(t *testing.T) {
		c := newTestCanvas(t, 10, 10)
		c.DrawCurve(pen, V(4, 4), V(4, 4), V(4, 4))
		if n := countLit(c); n != 0 {
			t.Errorf("lit %d pixels, want 0", n)
		}
	})

	t.Run("collinear control traces the segment", func(t *testing.T) {
		c := newTestCanvas(t, 12, 4)
		c.DrawCurve(pen, V(0, 1), V(5, 1), V(10, 1))
		for x := 0; x < 10; x++ {
			if pixel(c, x, 1) != pen.Color {
				t.Errorf("pixel %d,1 not drawn", x)
			}
		}
		if n := countLit(c); n != 10 {
			t.Errorf("lit %d pixels, want 10", n)
		}
	})

	t.Run("bends toward control", func(t *testing.T) {
		c := newTestCanvas(t, 20, 20)
		c.DrawCurve(pen, V(0, 10), V(10, 0), V(19, 10))
		// B(0.5) = (start + 2*control + end) / 4
		if pixel(c, 9, 5) != pen.Color && pixel(c, 10, 5) != pen.Color {
			t.Error("apex of curve not drawn")
		}
		for x := 0; x < 20; x++ {
			if pixel(c, x, 0) == pen.Color {
				t.Fatalf("curve reached the control point row at x=%d", x)
			}
		}
	})
}

func TestDrawCircle(t *testing.T) {
	pen := Pen{Color: color.RGBA{0, 0, 255, 255}}
	c := newTestCanvas(t, 20, 20)
	c.DrawCircle(pen, V(10, 10), 3)

	want := 0
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			dx, dy := float64(x-10), float64(y-10)
			if math.Sqrt(dx*dx+dy*dy) < 3 {
				want++
			}
		}
	}
	if got := countLit(c); got != want {
		t.Errorf("lit %d pixels, want %d", got, want)
	}
	if pixel(c, 13, 10) == pen.Color {
		t.Error("pixel at exactly radius should not be filled")
	}
	if pixel(c, 12, 10) != pen.Color || pixel(c, 10, 10) != pen.Color {
		t.Error("interior pixels not filled")
	}

	edge := newTestCanvas(t, 5, 5)
	edge.DrawCircle(pen, V(0, 0), 2)
	if got := countLit(edge); got != 4 {
		t.Errorf("corner circle lit %d pixels, want 4", got)
	}
}

func TestDrawSquareAndDim(t *testing.T) {
	c := newTestCanvas(t, 6, 6)
	pen := Pen{Color: color.RGBA{250, 5, 100, 255}}
	c.DrawSquare(pen, V(-2, 1), V(2, 3))
	if got := countLit(c); got != 9 {
		t.Errorf("square lit %d pixels, want 9", got)
	}

	c.Dim(10)
	if got := pixel(c, 0, 1); got != (color.RGBA{255, 15, 110, 255}) {
		t.Errorf("dim +10 = %v", got)
	}
	if got := pixel(c, 5, 5); got != (color.RGBA{10, 10, 10, 10}) {
		t.Errorf("dim +10 on empty = %v", got)
	}
	c.Dim(-300)
	if countLit(c) != 0 {
		t.Error("dim -300 should saturate to zero")
	}
}

func TestClear(t *testing.T) {
	c := newTestCanvas(t, 3, 3)
	c.DrawCircle(c.SelectColor(4), V(1, 1), 5)
	c.Clear()
	if countLit(c) != 0 {
		t.Error("clear left pixels behind")
	}
}

type recordingSink struct {
	frames [][]byte
}

func (s *recordingSink) Present(frame []byte) error {
	s.frames = append(s.frames, bytes.Clone(frame))
	return nil
}

func TestDisplayAndRGBAView(t *testing.T) {
	c := newTestCanvas(t, 3, 2)
	img := c.RGBA()
	c.DrawPoint(c.SelectColor(1), V(2, 1))
	if got := img.RGBAAt(2, 1); got != testPalette[1] {
		t.Errorf("image view = %v, want %v", got, testPalette[1])
	}

	sink := &recordingSink{}
	if err := c.Display(sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.frames) != 1 || !bytes.Equal(sink.frames[0], c.Buffer()) {
		t.Error("sink did not receive the buffer")
	}
}

func TestParsePalette(t *testing.T) {
	p, err := ParsePalette([]string{"#160729", "dbf3f1"})
	if err != nil {
		t.Fatal(err)
	}
	if p[0] != (color.RGBA{0x16, 0x07, 0x29, 255}) || p[1] != (color.RGBA{0xdb, 0xf3, 0xf1, 255}) {
		t.Errorf("parsed %v", p)
	}

	for _, bad := range [][]string{nil, {"#12345"}, {"#zzzzzz"}, {"#1234567"}} {
		if _, err := ParsePalette(bad); err == nil {
			t.Errorf("ParsePalette(%q) should fail", bad)
		}
	}
}
