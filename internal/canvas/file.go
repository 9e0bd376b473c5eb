// Package canvas holds Canvas implementations for generated reports.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/teamdesk/platform/internal/layout"
	"github.com/teamdesk/platform/internal/report"
)

// Op is one recorded drawing call.
type Op struct {
	Op    string       `json:"op"`
	X     float64      `json:"x"`
	Y     float64      `json:"y"`
	W     float64      `json:"w,omitempty"`
	H     float64      `json:"h,omitempty"`
	X2    float64      `json:"x2,omitempty"`
	Y2    float64      `json:"y2,omitempty"`
	Text  string       `json:"text,omitempty"`
	Style report.Style `json:"style"`
}

// Page is one recorded page.
type Page struct {
	Orientation layout.Orientation `json:"orientation"`
	Width       float64            `json:"width"`
	Height      float64            `json:"height"`
	Ops         []Op               `json:"ops"`
}

// Artifact is the JSON document FileCanvas writes.
type Artifact struct {
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// FileCanvas records drawing calls and saves them as a JSON artifact in
// dir. The artifact path returned by Save is "/<file>", relative to dir
// as served by the API.
type FileCanvas struct {
	dir   string
	mu    sync.Mutex
	pages []Page
}

// NewFileCanvas creates dir when missing.
func NewFileCanvas(dir string) (*FileCanvas, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create assets dir: %w", err)
	}
	return &FileCanvas{dir: dir}, nil
}

func (c *FileCanvas) NewPage(o layout.Orientation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	w, h := layout.PageSize(o)
	c.pages = append(c.pages, Page{Orientation: o, Width: w, Height: h, Ops: []Op{}})
}

func (c *FileCanvas) record(op Op) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.pages) == 0 {
		w, h := layout.PageSize(layout.Portrait)
		c.pages = append(c.pages, Page{Orientation: layout.Portrait, Width: w, Height: h})
	}
	last := &c.pages[len(c.pages)-1]
	last.Ops = append(last.Ops, op)
}

func (c *FileCanvas) Rect(r layout.Rect, s report.Style) {
	c.record(Op{Op: "rect", X: r.X, Y: r.Y, W: r.W, H: r.H, Style: s})
}

func (c *FileCanvas) Line(x1, y1, x2, y2 float64, s report.Style) {
	c.record(Op{Op: "line", X: x1, Y: y1, X2: x2, Y2: y2, Style: s})
}

func (c *FileCanvas) Ellipse(r layout.Rect, s report.Style) {
	c.record(Op{Op: "ellipse", X: r.X, Y: r.Y, W: r.W, H: r.H, Style: s})
}

func (c *FileCanvas) Text(x, y float64, text string, s report.Style) {
	c.record(Op{Op: "text", X: x, Y: y, Text: text, Style: s})
}

func (c *FileCanvas) Cell(r layout.Rect, text string, s report.Style) {
	c.record(Op{Op: "cell", X: r.X, Y: r.Y, W: r.W, H: r.H, Text: text, Style: s})
}

// Save writes the recorded pages to <dir>/<name>.json and resets the
// canvas for the next document.
func (c *FileCanvas) Save(_ context.Context, name string) (string, error) {
	c.mu.Lock()
	pages := c.pages
	c.pages = nil
	c.mu.Unlock()

	file := filepath.Base(name) + ".json"
	data, err := json.Marshal(Artifact{Name: name, Pages: pages})
	if err != nil {
		return "", fmt.Errorf("marshal artifact: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, file), data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	return "/" + file, nil
}

// Load reads an artifact written by Save.
func Load(dir, artifact string) (*Artifact, error) {
	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(artifact)))
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	return &a, nil
}
