package visualizer

import (
	"context"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/pkg/errors"

	"pianorain/canvas"
	"pianorain/midiparser"
	"pianorain/particles"
)

// Driver runs the fixed-timestep loop: it advances the clock, fires bursts
// for notes reaching the target line, rasterizes the scene and presents it.
type Driver struct {
	settings  Settings
	canvas    *canvas.Canvas
	particles *particles.System

	notes           []midiparser.Note
	fired           []bool
	lowest, highest uint8

	frame     int
	now       float32
	visible   []midiparser.Note
	visibleAt int

	sink      canvas.Sink
	recorder  io.Writer
	snapshots *SnapshotWriter
	hud       *HUD
	rng       particles.Rand
	logger    *log.Logger
}

func NewDriver(settings Settings, notes []midiparser.Note, opts ...Option) (*Driver, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := midiparser.Validate(notes); err != nil {
		return nil, err
	}
	palette, err := canvas.ParsePalette(settings.Palette)
	if err != nil {
		return nil, err
	}
	c, err := canvas.New(settings.Width, settings.Height, palette)
	if err != nil {
		return nil, err
	}

	d := &Driver{
		settings: settings,
		canvas:   c,
		notes:    notes,
		fired:    make([]bool, len(notes)),
		sink:     discardSink{},
		logger:   log.Default(),
	}
	d.lowest, d.highest = midiparser.LowestHighest(notes)
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		seed := settings.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		d.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}

	cfg := particles.DefaultConfig(float32(settings.Height), settings.FrameTime())
	cfg.SlopeAngle = settings.SlopeAngle
	d.particles = particles.New(cfg, d.rng)
	return d, nil
}

func (d *Driver) Canvas() *canvas.Canvas { return d.canvas }
func (d *Driver) Particles() *particles.System { return d.particles }
func (d *Driver) Visible() []midiparser.Note { return d.visible }
func (d *Driver) Frame() int { return d.frame }
func (d *Driver) Now() float32 { return d.now }

func (d *Driver) Stats() Stats {
	return Stats{
		Frame:     d.frame,
		Time:      d.now,
		Visible:   len(d.visible),
		Particles: d.particles.Len(),
	}
}

// VisibleWindow returns the notes with now <= time < now+view and the index
// of the first of them. notes must be sorted by time.
func VisibleWindow(notes []midiparser.Note, now, view float32) (int, []midiparser.Note) {
	start := sort.Search(len(notes), func(i int) bool { return notes[i].Time >= now })
	end := start
	for end < len(notes) && notes[end].Time < now+view {
		end++
	}
	return start, notes[start:end:end]
}

// PosFor maps a note onto the screen: imminent notes sit at the bottom edge,
// distant ones at the top, and the x position drifts with the slope as it falls.
func (d *Driver) PosFor(n midiparser.Note) canvas.Vec2 {
	h := float32(d.settings.Height)
	timeLeft := n.Time - d.now
	y := canvas.Map(timeLeft, 0, d.settings.View, h, 0)
	offset := canvas.Map(y, 0, h, 0, d.settings.Slope)
	return canvas.V(d.pitchX(n.Pitch)+offset, y)
}

func (d *Driver) pitchX(pitch uint8) float32 {
	lo, hi := d.settings.Slope, float32(d.settings.Width)-d.settings.Slope
	if d.lowest == d.highest {
		return (lo + hi) / 2
	}
	return canvas.Map(float32(pitch), float32(d.lowest), float32(d.highest), lo, hi)
}

func (d *Driver) paletteIndex(pitch uint8) int {
	if d.lowest == d.highest {
		return 0
	}
	last := float32(len(d.canvas.Palette()) - 1)
	i := canvas.Map(float32(pitch), float32(d.lowest), float32(d.highest), 0, last)
	return int(math.Round(float64(i)))
}

// Update advances the simulation to the current frame.
func (d *Driver) Update() {
	frameTime := d.settings.FrameTime()

	d.particles.Update()
	d.now = float32(d.frame) * frameTime
	d.visibleAt, d.visible = VisibleWindow(d.notes, d.now, d.settings.View)

	for i, n := range d.visible {
		idx := d.visibleAt + i
		if d.fired[idx] || n.Time-d.now >= frameTime {
			continue
		}
		d.fired[idx] = true
		d.particles.ParticlesForNote(d.PosFor(n))
	}
}

// Draw rasterizes the visible notes, particles and HUD into the canvas.
func (d *Driver) Draw() {
	frameTime := d.settings.FrameTime()

	d.canvas.Clear()
	for _, n := range d.visible {
		pen := d.canvas.SelectColor(d.paletteIndex(n.Pitch))
		prev := d.PosFor(midiparser.Note{Time: n.Time + frameTime, Pitch: n.Pitch})
		d.canvas.DrawLine(pen, prev, d.PosFor(n))
	}
	d.particles.Draw(d.canvas)

	if d.hud != nil {
		d.hud.Draw(d.canvas, d.Stats())
	}
}

// Present hands the frame to the sink, then to the recorder and snapshot
// writer. Only sink failures are returned.
func (d *Driver) Present() error {
	if err := d.canvas.Display(d.sink); err != nil {
		return errors.Wrapf(err, "present frame %d", d.frame)
	}
	if d.recorder != nil {
		if _, err := d.recorder.Write(d.canvas.Buffer()); err != nil {
			d.logger.Printf("recording stopped at frame %d: %v", d.frame, err)
			d.recorder = nil
		}
	}
	if d.snapshots != nil {
		d.snapshots.Capture(d.frame, d.canvas.Buffer())
	}
	return nil
}

// Step renders and presents one frame.
func (d *Driver) Step() error {
	d.Update()
	d.Draw()
	if err := d.Present(); err != nil {
		return err
	}
	d.frame++
	return nil
}

func (d *Driver) finished() bool {
	if !d.settings.StopAtEnd {
		return false
	}
	end := midiparser.LastTime(d.notes) + d.settings.View + d.settings.Tail
	return float32(d.frame)*d.settings.FrameTime() > end
}

// Run steps frames until ctx is done, maxFrames frames have been rendered
// (0 means no limit) or, with StopAtEnd, the song is over. Frames are paced
// against the start time so slow frames do not accumulate drift.
func (d *Driver) Run(ctx context.Context, maxFrames int) error {
	frameDuration := d.settings.FrameDuration()
	progressEvery := max(int(math.Round(d.settings.FPS))*30, 1)

	timer := time.NewTimer(frameDuration)
	timer.Stop()
	defer timer.Stop()

	start := time.Now()
	for n := 0; maxFrames == 0 || n < maxFrames; n++ {
		if d.finished() {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
		if err := d.Step(); err != nil {
			return err
		}
		if d.frame%progressEvery == 0 {
			d.logger.Printf("Rendered frames: %d\tsong time: %.1fs\tavg time per frame: %.4f", d.frame, d.now, time.Since(start).Seconds()/float64(n+1))
		}
		if d.settings.Unpaced {
			continue
		}

		wait := time.Until(start.Add(time.Duration(n+1) * frameDuration))
		if wait <= 0 {
			continue
		}
		timer.Reset(wait)
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
	return nil
}
