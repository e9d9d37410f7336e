// Package region implements axis-aligned rectangle arithmetic shared
// by surfaces, input regions, and drop shadows.
package region

// Region is an axis-aligned rectangle with integer coordinates. The
// zero value is the zero region (contains no point).
type Region struct {
	X, Y          int
	Width, Height int
}

// New returns a Region covering (x, y, width, height).
func New(x, y, width, height int) Region {
	return Region{X: x, Y: y, Width: width, Height: height}
}

// IsZero reports whether the region has zero extent at the origin.
func (r Region) IsZero() bool {
	return r.X == 0 && r.Y == 0 && r.Width == 0 && r.Height == 0
}

// Contains reports whether (x, y) lies within r. A region with zero
// width or height contains no point.
func (r Region) Contains(x, y int) bool {
	if r.Width == 0 || r.Height == 0 {
		return false
	}
	return x >= r.X && y >= r.Y && x < r.X+r.Width && y < r.Y+r.Height
}

// Intersects reports whether r and o overlap.
func (r Region) Intersects(o Region) bool {
	return r.X < o.X+o.Width && r.X+r.Width > o.X &&
		r.Y < o.Y+o.Height && r.Y+r.Height > o.Y
}

// WithPosition returns a copy of r moved to (x, y).
func (r Region) WithPosition(x, y int) Region {
	r.X, r.Y = x, y
	return r
}

// WithSize returns a copy of r resized to (width, height).
func (r Region) WithSize(width, height int) Region {
	r.Width, r.Height = width, height
	return r
}

// Translate returns a copy of r moved by (dx, dy).
func (r Region) Translate(dx, dy int) Region {
	r.X += dx
	r.Y += dy
	return r
}

// Add grows r to be the bounding box of r and the rectangle
// (x, y, width, height). Unlike a full union, only the maximal width
// and height is kept (this mirrors the grow-only accumulation used to
// track surface dirt and drop-shadow extents, where each accumulated
// rectangle shares the same origin-relative frame). Adding to the zero
// region yields the added rectangle itself, and adding a rectangle
// with no area leaves r unchanged.
func (r Region) Add(x, y, width, height int) Region {
	if width <= 0 || height <= 0 {
		return r
	}
	if r.IsZero() {
		return New(x, y, width, height)
	}
	if x < r.X {
		r.X = x
	}
	if y < r.Y {
		r.Y = y
	}
	if width > r.Width {
		r.Width = width
	}
	if height > r.Height {
		r.Height = height
	}
	return r
}

// Clamp constrains r to fit within bounds, shrinking width/height if
// r would otherwise extend past bounds' far edge.
func (r Region) Clamp(bounds Region) Region {
	if r.X < bounds.X {
		r.X = bounds.X
	}
	if r.Y < bounds.Y {
		r.Y = bounds.Y
	}
	if r.X+r.Width > bounds.X+bounds.Width {
		r.Width = bounds.X + bounds.Width - r.X
	}
	if r.Y+r.Height > bounds.Y+bounds.Height {
		r.Height = bounds.Y + bounds.Height - r.Y
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}
