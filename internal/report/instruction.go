// Package report assembles printable documents as renderer-agnostic
// instruction streams and hands them to a Canvas collaborator.
package report

import (
	"github.com/teamdesk/platform/internal/layout"
)

// Kind is the drawing primitive of an instruction.
type Kind string

const (
	KindPage    Kind = "page"
	KindRect    Kind = "rect"
	KindLine    Kind = "line"
	KindEllipse Kind = "ellipse"
	KindText    Kind = "text"
	KindCell    Kind = "cell"
)

// Section groups instructions by their role on the page.
type Section string

const (
	SectionHeader Section = "header"
	SectionBody   Section = "body"
	SectionLegend Section = "legend"
	SectionFooter Section = "footer"
)

// Color is an RGB triple.
type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func gray(v uint8) Color { return Color{R: v, G: v, B: v} }

var (
	black     = gray(0)
	white     = gray(255)
	darkGray  = gray(80)
	midGray   = gray(150)
	lightGray = gray(220)
	panelGray = gray(240)
	blue      = Color{R: 33, G: 150, B: 243}
	red       = Color{R: 244, G: 67, B: 54}
	green     = Color{R: 67, G: 160, B: 71}
	darkGreen = Color{R: 0, G: 128, B: 0}
	darkRed   = Color{R: 200, G: 0, B: 0}
	pink      = Color{R: 255, G: 200, B: 200}
	paleRed   = Color{R: 255, G: 235, B: 238}
	skyBlue   = Color{R: 187, G: 222, B: 251}
	paleBlue  = Color{R: 227, G: 242, B: 253}
	orange    = Color{R: 255, G: 224, B: 178}
	paleOrng  = Color{R: 255, G: 243, B: 224}
	totalBlue = Color{R: 230, G: 240, B: 255}
)

// Align is the horizontal alignment of cell text.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Style carries the drawing state of one instruction. A nil Fill means no
// fill; a zero LineWidth means no stroke.
type Style struct {
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Fill      *Color  `json:"fill,omitempty"`
	Stroke    Color   `json:"stroke"`
	LineWidth float64 `json:"line_width,omitempty"`
	TextColor Color   `json:"text_color"`
	Align     Align   `json:"align,omitempty"`
}

func filled(c Color) *Color { return &c }

// Instruction is one drawing step. Rect, ellipse and cell use X, Y, W, H
// as the bounding box; a line runs from (X, Y) to (X+W, Y+H); text is
// placed with its baseline start at (X, Y).
type Instruction struct {
	Kind    Kind    `json:"kind"`
	Section Section `json:"section"`
	Page    int     `json:"page"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	W       float64 `json:"w,omitempty"`
	H       float64 `json:"h,omitempty"`
	Text    string  `json:"text,omitempty"`
	Style   Style   `json:"style"`
}

// Document is a complete report ready for a canvas.
type Document struct {
	Name         string             `json:"name"`
	Orientation  layout.Orientation `json:"orientation"`
	Instructions []Instruction      `json:"instructions"`
}

// Pages returns the number of pages in d.
func (d Document) Pages() int {
	n := 0
	for _, in := range d.Instructions {
		if in.Kind == KindPage {
			n++
		}
	}
	return n
}

// Texts returns every text and cell string of d in order.
func (d Document) Texts() []string {
	var out []string
	for _, in := range d.Instructions {
		if (in.Kind == KindText || in.Kind == KindCell) && in.Text != "" {
			out = append(out, in.Text)
		}
	}
	return out
}

// builder appends instructions and keeps the current page and section.
type builder struct {
	doc     Document
	page    int
	section Section
}

func newBuilder(name string, o layout.Orientation) *builder {
	b := &builder{doc: Document{Name: name, Orientation: o}, section: SectionHeader}
	b.newPage()
	return b
}

func (b *builder) in(s Section) *builder {
	b.section = s
	return b
}

func (b *builder) add(in Instruction) {
	in.Section = b.section
	in.Page = b.page
	b.doc.Instructions = append(b.doc.Instructions, in)
}

func (b *builder) newPage() {
	b.page++
	b.doc.Instructions = append(b.doc.Instructions, Instruction{Kind: KindPage, Section: b.section, Page: b.page})
}

func (b *builder) rect(r layout.Rect, s Style) {
	b.add(Instruction{Kind: KindRect, X: r.X, Y: r.Y, W: r.W, H: r.H, Style: s})
}

func (b *builder) line(x1, y1, x2, y2 float64, s Style) {
	b.add(Instruction{Kind: KindLine, X: x1, Y: y1, W: x2 - x1, H: y2 - y1, Style: s})
}

func (b *builder) ellipse(r layout.Rect, s Style) {
	b.add(Instruction{Kind: KindEllipse, X: r.X, Y: r.Y, W: r.W, H: r.H, Style: s})
}

func (b *builder) text(x, y float64, text string, s Style) {
	b.add(Instruction{Kind: KindText, X: x, Y: y, Text: cleanText(text), Style: s})
}

func (b *builder) cell(r layout.Rect, text string, s Style) {
	b.add(Instruction{Kind: KindCell, X: r.X, Y: r.Y, W: r.W, H: r.H, Text: cleanText(text), Style: s})
}

func (b *builder) document() Document {
	return b.doc
}
