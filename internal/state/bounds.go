package state

// Bounds is the smallest rectangle enclosing all inked pixels. An empty board
// yields Empty == true and zero extents.
type Bounds struct {
	MinX, MinY float32
	MaxX, MaxY float32
	Empty      bool
}

// EmptyBounds is what a scan of a blank canvas returns.
func EmptyBounds() Bounds {
	return Bounds{Empty: true}
}

// Include grows b to cover p.
func (b Bounds) Include(p Point) Bounds {
	if b.Empty {
		return Bounds{MinX: p.X, MinY: p.Y, MaxX: p.X, MaxY: p.Y}
	}
	if p.X < b.MinX {
		b.MinX = p.X
	}
	if p.X > b.MaxX {
		b.MaxX = p.X
	}
	if p.Y < b.MinY {
		b.MinY = p.Y
	}
	if p.Y > b.MaxY {
		b.MaxY = p.Y
	}
	return b
}

// Anchor returns the box center, or the center of a width x height canvas
// when nothing has been drawn.
func (b Bounds) Anchor(width, height float32) Point {
	if b.Empty {
		return Point{X: width / 2, Y: height / 2}
	}
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}
