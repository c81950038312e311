package visualizer

import (
	"time"

	"github.com/pkg/errors"
)

var (
	resolutionVGA   = ScreenResolution{640, 480}
	resolution1080p = ScreenResolution{1920, 1080}
	resolution720p  = ScreenResolution{1280, 720}
	resolution480p  = ScreenResolution{854, 480}
	resolution360p  = ScreenResolution{640, 360}
)

var Resolutions = map[string]ScreenResolution{
	"vga":   resolutionVGA,
	"360p":  resolution360p,
	"480p":  resolution480p,
	"720p":  resolution720p,
	"1080p": resolution1080p,
}

var defaultPalette = []string{"#160729", "#171856", "#243771", "#416e8f", "#dbf3f1"}

const (
	defaultFPS   = 30
	defaultView  = 0.4
	defaultSlope = 30
)

type Settings struct {
	FPS float64
	// View is how many seconds of upcoming notes are on screen.
	View float32

	Width  int
	Height int

	Palette []string

	// Slope is the horizontal margin, and the drift a note gains while falling the full height.
	Slope float32
	// SlopeAngle is the drift per pixel of the splash line from a note to the bottom edge.
	SlopeAngle float32

	// Seed for the particle generator, 0 picks one from the clock.
	Seed uint64

	// StopAtEnd ends Run once the last note plus View and Tail has passed.
	StopAtEnd bool
	Tail      float32

	// Unpaced renders frames back to back instead of in real time.
	Unpaced bool
}

func DefaultSettings() Settings {
	return Settings{
		FPS:        defaultFPS,
		View:       defaultView,
		Width:      resolutionVGA[0],
		Height:     resolutionVGA[1],
		Palette:    defaultPalette,
		Slope:      defaultSlope,
		SlopeAngle: defaultSlope / float32(resolutionVGA[1]),
		Tail:       2,
	}
}

func (s Settings) FrameTime() float32 {
	return float32(1 / s.FPS)
}

func (s Settings) FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / s.FPS)
}

func (s Settings) Validate() error {
	switch {
	case s.FPS <= 0:
		return errors.Errorf("fps must be positive, got %v", s.FPS)
	case s.View <= 0:
		return errors.Errorf("view must be positive, got %v", s.View)
	case s.Width <= 0 || s.Height <= 0:
		return errors.Errorf("invalid resolution %dx%d", s.Width, s.Height)
	case s.Slope < 0 || 2*s.Slope >= float32(s.Width):
		return errors.Errorf("slope %v does not fit a width of %d", s.Slope, s.Width)
	case len(s.Palette) == 0:
		return errors.New("palette is empty")
	}
	return nil
}
