package mono

import "image"

// stepper walks a line with the Bresenham algorithm.
type stepper struct {
	// d is the minor axis error, doubled.
	d int
	// dmajor, dminor is the line vector.
	dmajor, dminor int
	// swap is 0 if the major axis is x, 1 otherwise.
	swap uint8
}

// reset the stepper with a signed distance. It returns the
// directions and the number of steps.
func (l *stepper) reset(dist image.Point) (uint8, uint8, int) {
	var dirx, diry uint8
	if dist.X < 0 {
		dirx = 1
		dist.X = -dist.X
	}
	if dist.Y < 0 {
		diry = 1
		dist.Y = -dist.Y
	}
	l.swap = 0
	if dist.Y > dist.X {
		l.swap = 1
		dist.X, dist.Y = dist.Y, dist.X
	}
	l.dmajor, l.dminor = dist.X, dist.Y
	l.d = 2*l.dminor - l.dmajor
	return dirx, diry, l.dmajor
}

func (l *stepper) step() (uint8, uint8) {
	var maj, min uint8 = 1, 0
	if l.d > 0 {
		min = 1
	}
	l.d -= 2 * l.dmajor * int(min)
	l.d += 2 * l.dminor
	return (maj &^ l.swap) | (min & l.swap),
		(maj & l.swap) | (min &^ l.swap)
}

// Line draws the segment from p0 to p1, both ends included. A width above
// one extends the line along its minor axis.
func (p *Image) Line(p0, p1 image.Point, c Color, width int) {
	width = max(width, 1)
	var l stepper
	dist := p1.Sub(p0)
	dirx, diry, steps := l.reset(dist)
	// Thickness is spread across the minor axis.
	across := image.Pt(0, 1)
	if l.swap == 1 {
		across = image.Pt(1, 0)
	}
	plot := func(at image.Point) {
		start := at.Sub(across.Mul((width - 1) / 2))
		for i := range width {
			pt := start.Add(across.Mul(i))
			p.SetMono(pt.X, pt.Y, c)
		}
	}
	pos := p0
	plot(pos)
	for range steps {
		dx, dy := l.step()
		if dx == 1 {
			if dirx == 1 {
				pos.X--
			} else {
				pos.X++
			}
		}
		if dy == 1 {
			if diry == 1 {
				pos.Y--
			} else {
				pos.Y++
			}
		}
		plot(pos)
	}
}
