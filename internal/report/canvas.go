package report

import (
	"context"
	"fmt"

	"github.com/teamdesk/platform/internal/layout"
)

// Canvas is the document renderer a Document is replayed onto.
type Canvas interface {
	NewPage(o layout.Orientation)
	Rect(r layout.Rect, s Style)
	Line(x1, y1, x2, y2 float64, s Style)
	Ellipse(r layout.Rect, s Style)
	Text(x, y float64, text string, s Style)
	Cell(r layout.Rect, text string, s Style)
	// Save persists the drawn pages under name and returns the artifact
	// path it can be fetched from.
	Save(ctx context.Context, name string) (string, error)
}

// Replay draws doc onto c and saves it.
func Replay(ctx context.Context, doc Document, c Canvas) (string, error) {
	for _, in := range doc.Instructions {
		box := layout.Rect{X: in.X, Y: in.Y, W: in.W, H: in.H}
		switch in.Kind {
		case KindPage:
			c.NewPage(doc.Orientation)
		case KindRect:
			c.Rect(box, in.Style)
		case KindLine:
			c.Line(in.X, in.Y, in.X+in.W, in.Y+in.H, in.Style)
		case KindEllipse:
			c.Ellipse(box, in.Style)
		case KindText:
			c.Text(in.X, in.Y, in.Text, in.Style)
		case KindCell:
			c.Cell(box, in.Text, in.Style)
		default:
			return "", fmt.Errorf("replay %s: unknown instruction kind %q", doc.Name, in.Kind)
		}
	}
	artifact, err := c.Save(ctx, doc.Name)
	if err != nil {
		return "", fmt.Errorf("save %s: %w", doc.Name, err)
	}
	return artifact, nil
}
