package visualizer

import (
	"fmt"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"pianorain/canvas"
)

// HUD draws the frame counter and simulation stats over the scene.
type HUD struct {
	face font.Face
}

func NewHUD(size float64) (*HUD, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "parse hud font")
	}
	return &HUD{face: truetype.NewFace(f, &truetype.Options{Size: size})}, nil
}

func (h *HUD) Draw(c *canvas.Canvas, s Stats) {
	dc := gg.NewContextForRGBA(c.RGBA())
	dc.SetFontFace(h.face)
	dc.SetRGBA(1, 1, 1, 0.8)
	dc.DrawString(fmt.Sprintf("FRAME %05d", s.Frame+1), 10, 20)
	dc.SetRGBA(1, 1, 1, 0.5)
	dc.DrawString(fmt.Sprintf("%7.3fs  notes %3d  particles %4d", s.Time, s.Visible, s.Particles), 10, 34)
}
