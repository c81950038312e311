package canvas

import "math"

func finite(v float32) bool {
	return !math.IsNaN(float64(v)) && !math.IsInf(float64(v), 0)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

// DrawLine samples the segment from..to with one step per pixel along the
// dominant axis. The end point itself is not drawn, and from == to draws nothing.
func (c *Canvas) DrawLine(pen Pen, from, to Vec2) {
	delta := to.Sub(from)
	longest := max(abs32(delta.X), abs32(delta.Y))
	if !finite(longest) {
		return
	}
	steps := int(longest)
	if steps == 0 {
		return
	}
	dir := delta.Normalize()
	for step := 0; step < steps; step++ {
		c.DrawPoint(pen, from.Add(dir.Scale(float32(step))))
	}
}

// DrawCurve renders the quadratic Bézier start-control-end. The sample count
// is the perimeter of the control triangle.
func (c *Canvas) DrawCurve(pen Pen, start, control, end Vec2) {
	points := start.Distance(control) + control.Distance(end) + end.Distance(start)
	if !finite(points) {
		return
	}
	for i := 1; i < int(points); i++ {
		t := float32(i) / points
		p1 := start.Lerp(control, t)
		p2 := control.Lerp(end, t)
		c.DrawPoint(pen, p1.Lerp(p2, t))
	}
}

// DrawCircle fills every pixel strictly closer than radius to center.
func (c *Canvas) DrawCircle(pen Pen, center Vec2, radius float32) {
	if !finite(radius) || !finite(center.X) || !finite(center.Y) {
		return
	}
	left := max(int(math.Floor(float64(center.X-radius))), 0)
	right := min(int(math.Floor(float64(center.X+radius))), c.width-1)
	top := max(int(math.Floor(float64(center.Y-radius))), 0)
	bottom := min(int(math.Floor(float64(center.Y+radius))), c.height-1)
	for x := left; x <= right; x++ {
		for y := top; y <= bottom; y++ {
			p := Vec2{float32(x), float32(y)}
			if p.Distance(center) < radius {
				c.DrawPoint(pen, p)
			}
		}
	}
}

// DrawSquare fills the rectangle spanned by topLeft and bottomRight, bounds inclusive.
func (c *Canvas) DrawSquare(pen Pen, topLeft, bottomRight Vec2) {
	if !finite(topLeft.X) || !finite(topLeft.Y) || !finite(bottomRight.X) || !finite(bottomRight.Y) {
		return
	}
	left := max(int(topLeft.X), 0)
	right := min(int(bottomRight.X), c.width-1)
	top := max(int(topLeft.Y), 0)
	bottom := min(int(bottomRight.Y), c.height-1)
	for x := left; x <= right; x++ {
		for y := top; y <= bottom; y++ {
			c.DrawPoint(pen, Vec2{float32(x), float32(y)})
		}
	}
}
