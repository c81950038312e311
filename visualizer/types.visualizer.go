package visualizer

import (
	"io"
	"log"

	"pianorain/canvas"
	"pianorain/particles"
)

type ScreenResolution [2]int

// Stats describes the frame that was just drawn.
type Stats struct {
	Frame     int
	Time      float32
	Visible   int
	Particles int
}

type Option func(*Driver)

// WithSink sets where finished frames are presented.
func WithSink(s canvas.Sink) Option {
	return func(d *Driver) { d.sink = s }
}

// WithRecorder streams raw frames to w, typically an Encoder.
func WithRecorder(w io.Writer) Option {
	return func(d *Driver) { d.recorder = w }
}

func WithSnapshots(w *SnapshotWriter) Option {
	return func(d *Driver) { d.snapshots = w }
}

func WithHUD(h *HUD) Option {
	return func(d *Driver) { d.hud = h }
}

func WithRand(r particles.Rand) Option {
	return func(d *Driver) { d.rng = r }
}

func WithLogger(l *log.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

type discardSink struct{}

func (discardSink) Present([]byte) error { return nil }
