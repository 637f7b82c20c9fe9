package registry

import "github.com/GregMSThompson/investor-portal/internal/models"

// GridColumns is the fixed width of every dashboard grid.
const GridColumns = 12

// Rect is an axis-aligned rectangle on the grid covering [X, X+W) x [Y, Y+H).
type Rect struct {
	X, Y, W, H int
}

func rectOf(w models.Widget) Rect {
	return Rect{X: w.X, Y: w.Y, W: w.W, H: w.H}
}

// Overlaps reports whether a and b share any cell. Two rectangles are disjoint
// only when one lies entirely left of, right of, above or below the other.
func Overlaps(a, b Rect) bool {
	return !(a.X+a.W <= b.X ||
		a.X >= b.X+b.W ||
		a.Y+a.H <= b.Y ||
		a.Y >= b.Y+b.H)
}

// MaxY returns the lowest occupied row boundary (max of y+h), or 0 for an empty grid.
func MaxY(widgets []models.Widget) int {
	maxY := 0
	for _, w := range widgets {
		if bottom := w.Y + w.H; bottom > maxY {
			maxY = bottom
		}
	}
	return maxY
}

// FindNextPosition returns the first free top-left corner for a w x h widget,
// scanning rows 0..maxY+1 and columns 0..GridColumns-w in row-major order.
// When nothing fits it starts a new row below everything else.
func FindNextPosition(widgets []models.Widget, w, h int) (int, int) {
	maxY := MaxY(widgets)
	for y := 0; y <= maxY+1; y++ {
		for x := 0; x <= GridColumns-w; x++ {
			if isFree(widgets, Rect{X: x, Y: y, W: w, H: h}) {
				return x, y
			}
		}
	}
	return 0, maxY + 1
}

func isFree(widgets []models.Widget, r Rect) bool {
	for _, existing := range widgets {
		if Overlaps(r, rectOf(existing)) {
			return false
		}
	}
	return true
}

// clampSize keeps a requested size inside the grid.
func clampSize(w, h int) (int, int) {
	if w < 1 {
		w = 1
	}
	if w > GridColumns {
		w = GridColumns
	}
	if h < 1 {
		h = 1
	}
	return w, h
}
