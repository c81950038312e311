package particles

import (
	"math"

	"pianorain/canvas"
)

// Rand is the randomness the system draws from. *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float32() float32
}

type Config struct {
	Height    float32
	Gravity   canvas.Vec2
	FrameTime float32

	// SlopeAngle is the horizontal drift per pixel of fall of a note's splash line.
	SlopeAngle float32

	PaletteIndex int

	// Burst size is drawn from [MinBurst, MaxBurst).
	MinBurst, MaxBurst int
	MaxSpeed           float32
}

func DefaultConfig(height, frameTime float32) Config {
	return Config{
		Height:       height,
		Gravity:      canvas.V(0, 1),
		FrameTime:    frameTime,
		SlopeAngle:   30.0 / 480.0,
		PaletteIndex: 2,
		MinBurst:     2,
		MaxBurst:     5,
		MaxSpeed:     15,
	}
}

type Particle struct {
	Pos canvas.Vec2
	Vel canvas.Vec2
	Age float32
}

func (p *Particle) update(gravity canvas.Vec2, dt float32) {
	p.Pos = p.Pos.Add(p.Vel)
	p.Vel = p.Vel.Add(gravity)
	p.Age += dt
}

// Segment is a splash line queued for the next draw only.
type Segment struct {
	From, To canvas.Vec2
}

type System struct {
	cfg       Config
	rng       Rand
	particles []Particle
	lines     []Segment
}

func New(cfg Config, rng Rand) *System {
	if cfg.MaxBurst <= cfg.MinBurst {
		cfg.MaxBurst = cfg.MinBurst + 1
	}
	return &System{cfg: cfg, rng: rng}
}

func (s *System) Len() int { return len(s.particles) }
func (s *System) Pending() int { return len(s.lines) }
func (s *System) Particles() []Particle { return s.particles }
func (s *System) Add(p Particle) { s.particles = append(s.particles, p) }

// Update advances every particle one frame and drops those at or below the
// bottom edge. Particles leaving through the top or sides are kept.
func (s *System) Update() {
	live := s.particles[:0]
	for i := range s.particles {
		p := s.particles[i]
		p.update(s.cfg.Gravity, s.cfg.FrameTime)
		if p.Pos.Y >= s.cfg.Height {
			continue
		}
		live = append(live, p)
	}
	clear(s.particles[len(live):])
	s.particles = live
}

// SpawnExplosion bursts particles out of pos, all heading into the upper half-plane.
func (s *System) SpawnExplosion(pos canvas.Vec2) {
	n := s.cfg.MinBurst + s.rng.IntN(s.cfg.MaxBurst-s.cfg.MinBurst)
	for range n {
		vel := canvas.FromAngle(-s.rng.Float32() * math.Pi)
		vel = vel.Scale(s.rng.Float32() * s.cfg.MaxSpeed)
		s.particles = append(s.particles, Particle{Pos: pos, Vel: vel})
	}
}

// ParticlesForNote projects pos down the slope to the bottom edge, queues the
// splash line and explodes at the landing point.
func (s *System) ParticlesForNote(pos canvas.Vec2) {
	rest := s.cfg.Height - pos.Y
	end := canvas.V(pos.X+rest*s.cfg.SlopeAngle, s.cfg.Height)
	s.lines = append(s.lines, Segment{From: pos, To: end})
	s.SpawnExplosion(end)
}

// Draw renders each particle's next step as a short arc bowed against gravity,
// then flushes the queued splash lines.
func (s *System) Draw(c *canvas.Canvas) {
	pen := c.SelectColor(s.cfg.PaletteIndex)
	for _, p := range s.particles {
		next := p.Pos.Add(p.Vel)
		middle := p.Pos.Lerp(next, 0.5).Sub(s.cfg.Gravity)
		c.DrawCurve(pen, p.Pos, middle, next)
	}
	for _, l := range s.lines {
		c.DrawLine(pen, l.From, l.To)
	}
	s.lines = s.lines[:0]
}
