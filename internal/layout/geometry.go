// Package layout turns aggregated data into positioned elements: pitch
// tokens, attendance grid cells and calendar weeks. Coordinates are in
// millimetres with the origin at the page's top-left corner.
package layout

// Point is a position on the page.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// At maps normalized coordinates within r to an absolute point.
func (r Rect) At(fx, fy float64) Point {
	return Point{X: r.X + fx*r.W, Y: r.Y + fy*r.H}
}

// Center is the midpoint of r.
func (r Rect) Center() Point {
	return r.At(0.5, 0.5)
}

// Page sizes in millimetres.
const (
	A4Short = 210.0
	A4Long  = 297.0
)

// Orientation of a page.
type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// PageSize returns the width and height of an A4 page in orientation o.
func PageSize(o Orientation) (w, h float64) {
	if o == Landscape {
		return A4Long, A4Short
	}
	return A4Short, A4Long
}

// ptToMM converts typographic points to millimetres.
const ptToMM = 25.4 / 72

// TextWidth approximates the rendered width in millimetres of s in a
// proportional core font at size points. It is used to size label boxes,
// not to wrap text.
func TextWidth(s string, size float64) float64 {
	units := 0.0
	for _, r := range s {
		units += glyphWidth(r)
	}
	return units / 1000 * size * ptToMM
}

// glyphWidth returns approximate Helvetica advance widths in 1/1000 em.
func glyphWidth(r rune) float64 {
	switch {
	case r == ' ' || r == 'i' || r == 'j' || r == 'l' || r == '.' || r == ',' || r == '\'' || r == '!' || r == '|' || r == ':' || r == ';':
		return 278
	case r == 'm' || r == 'M' || r == 'W':
		return 833
	case r == 'w':
		return 722
	case r == 'f' || r == 't' || r == 'I' || r == '(' || r == ')' || r == '-' || r == '/':
		return 333
	case r >= '0' && r <= '9':
		return 556
	case r >= 'A' && r <= 'Z':
		return 667
	default:
		return 556
	}
}
