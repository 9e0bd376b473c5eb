package report

import (
	"github.com/teamdesk/platform/internal/layout"
)

const (
	flowTop    = 10.0
	flowBottom = 20.0
)

// cursor flows content down a page and breaks to a new page when the
// next block would cross the bottom margin.
type cursor struct {
	b      *builder
	left   float64
	width  float64
	limit  float64
	y      float64
	header func(*cursor)
}

func newCursor(b *builder, left, width, pageHeight float64) *cursor {
	return &cursor{b: b, left: left, width: width, limit: pageHeight - flowBottom, y: flowTop}
}

func (c *cursor) ln(h float64) { c.y += h }

// ensure starts a new page when h does not fit, repeating the active
// table header if there is one.
func (c *cursor) ensure(h float64) {
	if c.y+h <= c.limit {
		return
	}
	section := c.b.section
	c.b.in(SectionHeader).newPage()
	c.b.in(section)
	c.y = flowTop
	if c.header != nil {
		c.header(c)
	}
}

// panel draws a full-width shaded section title.
func (c *cursor) panel(title string) {
	c.ensure(12)
	c.b.cell(layout.Rect{X: c.left, Y: c.y, W: c.width, H: 10}, "  "+title,
		Style{Size: 12, Bold: true, Fill: filled(panelGray), Stroke: black, LineWidth: 0.2, TextColor: black, Align: AlignLeft})
	c.ln(12)
}

// row draws one table row, breaking the page first when needed.
func (c *cursor) row(widths []float64, h float64, texts []string, s Style) {
	c.ensure(h)
	c.rowNoBreak(widths, h, texts, s)
}

// table draws a header row that repeats on every page break until the
// returned function is called.
func (c *cursor) table(widths []float64, h float64, header []string, s Style) (end func()) {
	draw := func(c *cursor) { c.rowNoBreak(widths, h, header, s) }
	c.ensure(2 * h)
	draw(c)
	c.header = draw
	return func() { c.header = nil }
}

// rowNoBreak draws cells of the given widths left to right and advances.
// The first column is left aligned.
func (c *cursor) rowNoBreak(widths []float64, h float64, texts []string, s Style) {
	x := c.left
	for i, w := range widths {
		st := s
		if i == 0 {
			st.Align = AlignLeft
		}
		c.b.cell(layout.Rect{X: x, Y: c.y, W: w, H: h}, texts[i], st)
		x += w
	}
	c.ln(h)
}
