package canvas

import "math"

// Vec2 is a point or direction in screen space. +Y points down.
type Vec2 struct {
	X, Y float32
}

func V(x, y float32) Vec2 { return Vec2{x, y} }

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Length() float32 { return float32(math.Hypot(float64(v.X), float64(v.Y))) }
func (v Vec2) Distance(o Vec2) float32 { return v.Sub(o).Length() }

// Normalize returns the unit vector pointing along v. The zero vector
// yields NaN components.
func (v Vec2) Normalize() Vec2 {
	l := v.Length()
	return Vec2{v.X / l, v.Y / l}
}

// Lerp interpolates between v and o, t=0 gives v and t=1 gives o.
func (v Vec2) Lerp(o Vec2, t float32) Vec2 {
	return v.Add(o.Sub(v).Scale(t))
}

// FromAngle returns the unit vector at angle radians from the +X axis.
func FromAngle(angle float32) Vec2 {
	s, c := math.Sincos(float64(angle))
	return Vec2{float32(c), float32(s)}
}
