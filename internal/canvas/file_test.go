package canvas

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdesk/platform/internal/layout"
	"github.com/teamdesk/platform/internal/report"
)

func TestFileCanvas_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCanvas(dir)
	require.NoError(t, err)

	c.NewPage(layout.Landscape)
	c.Rect(layout.Rect{X: 1, Y: 2, W: 3, H: 4}, report.Style{})
	c.Line(0, 0, 10, 10, report.Style{LineWidth: 0.5})
	c.NewPage(layout.Landscape)
	c.Cell(layout.Rect{W: 20, H: 6}, "P", report.Style{Bold: true})

	artifact, err := c.Save(context.Background(), "monthly_3_1700000000")
	require.NoError(t, err)
	assert.Equal(t, "/monthly_3_1700000000.json", artifact)

	got, err := Load(dir, artifact)
	require.NoError(t, err)
	require.Len(t, got.Pages, 2)
	assert.Equal(t, layout.A4Long, got.Pages[0].Width)
	require.Len(t, got.Pages[0].Ops, 2)
	assert.Equal(t, "line", got.Pages[0].Ops[1].Op)
	assert.Equal(t, 10.0, got.Pages[0].Ops[1].X2)
	assert.Equal(t, "P", got.Pages[1].Ops[0].Text)

	// the canvas starts empty for the next document
	next, err := c.Save(context.Background(), "empty")
	require.NoError(t, err)
	again, err := Load(dir, next)
	require.NoError(t, err)
	assert.Empty(t, again.Pages)
}

func TestFileCanvas_ReplayDocument(t *testing.T) {
	dir := t.TempDir()
	c, err := NewFileCanvas(dir)
	require.NoError(t, err)

	doc := report.SquadSummarySheet("squad_2024_1", "U16", 2024, nil)
	artifact, err := report.Replay(context.Background(), doc, c)
	require.NoError(t, err)

	got, err := Load(dir, artifact)
	require.NoError(t, err)
	assert.Equal(t, doc.Pages(), len(got.Pages))
	assert.Equal(t, "squad_2024_1", got.Name)
}
