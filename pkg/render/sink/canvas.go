package sink

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/netgraph/pkg/render/draw"
)

// Glyphs used by the terminal canvas.
const (
	GlyphEdge   = '·'
	GlyphInput  = '●'
	GlyphHidden = '○'
	GlyphOutput = '◆'
)

// Terminal cells are roughly twice as tall as they are wide; a surface of
// CellWidth×CellHeight logical units maps onto one cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

type cell struct {
	r     rune
	color string
	bold  bool
}

// Canvas is a fixed grid of terminal cells that a draw plan can be
// executed onto. Logical coordinates are scaled from the Clear command's
// surface to the grid.
type Canvas struct {
	cols, rows int
	cells      []cell
	sx, sy     float64
	background string
}

// NewCanvas returns an empty canvas of cols×rows cells.
func NewCanvas(cols, rows int) *Canvas {
	cols, rows = max(cols, 1), max(rows, 1)
	return &Canvas{
		cols:  cols,
		rows:  rows,
		cells: make([]cell, cols*rows),
		sx:    1 / CellWidth,
		sy:    1 / CellHeight,
	}
}

// SurfaceSize reports the logical surface that fills the canvas exactly.
func (c *Canvas) SurfaceSize() (w, h float64) {
	return float64(c.cols) * CellWidth, float64(c.rows) * CellHeight
}

// Cols returns the grid width in cells.
func (c *Canvas) Cols() int { return c.cols }

// Rows returns the grid height in cells.
func (c *Canvas) Rows() int { return c.rows }

// Draw executes cmds onto the canvas. A Clear command wipes the grid and
// fixes the logical-to-cell scale.
func (c *Canvas) Draw(cmds []draw.Command) {
	group := draw.BeginGroup{Scale: 1}
	for _, cmd := range cmds {
		switch cmd := cmd.(type) {
		case draw.Clear:
			c.clear(cmd)
		case draw.BeginGroup:
			group = cmd
		case draw.EndGroup:
			group = draw.BeginGroup{Scale: 1}
		case draw.Line:
			x1, y1 := group.Apply(cmd.X1, cmd.Y1)
			x2, y2 := group.Apply(cmd.X2, cmd.Y2)
			c.line(x1, y1, x2, y2, cmd.Color)
		case draw.Circle:
			x, y := group.Apply(cmd.CX, cmd.CY)
			col, row := c.toCell(x, y)
			c.set(col, row, cell{r: roleGlyph(cmd.Role), color: cmd.Fill, bold: true})
		case draw.Text:
			x, y := group.Apply(cmd.X, cmd.Y)
			c.text(x, y, cmd.Content, cmd.Color, cmd.Bold)
		}
	}
}

// Rune returns the glyph at (col, row), or a space outside the grid.
func (c *Canvas) Rune(col, row int) rune {
	if !c.inside(col, row) {
		return ' '
	}
	if r := c.cells[row*c.cols+col].r; r != 0 {
		return r
	}
	return ' '
}

// Plain returns the grid as text without colour.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for row := range c.rows {
		for col := range c.cols {
			b.WriteRune(c.Rune(col, row))
		}
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// String returns the grid with lipgloss colours applied per cell.
func (c *Canvas) String() string {
	var b strings.Builder
	base := lipgloss.NewStyle()
	if c.background != "" && c.background != "transparent" {
		base = base.Background(lipgloss.Color(c.background))
	}
	for row := range c.rows {
		for col := range c.cols {
			cl := c.cells[row*c.cols+col]
			if cl.r == 0 {
				b.WriteString(base.Render(" "))
				continue
			}
			st := base.Foreground(lipgloss.Color(cl.color)).Bold(cl.bold)
			b.WriteString(st.Render(string(cl.r)))
		}
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Canvas) clear(cmd draw.Clear) {
	clear(c.cells)
	c.background = cmd.Background
	if cmd.Width > 0 && cmd.Height > 0 {
		c.sx = float64(c.cols) / cmd.Width
		c.sy = float64(c.rows) / cmd.Height
	}
}

func (c *Canvas) toCell(x, y float64) (int, int) {
	return int(math.Floor(x * c.sx)), int(math.Floor(y * c.sy))
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && col < c.cols && row >= 0 && row < c.rows
}

func (c *Canvas) set(col, row int, v cell) {
	if c.inside(col, row) {
		c.cells[row*c.cols+col] = v
	}
}

// line rasterises an edge with Bresenham's algorithm. Edges never
// overwrite nodes or labels.
func (c *Canvas) line(x1, y1, x2, y2 float64, color string) {
	c0, r0 := c.toCell(x1, y1)
	c1, r1 := c.toCell(x2, y2)

	dx := abs(c1 - c0)
	dy := -abs(r1 - r0)
	sx, sy := 1, 1
	if c0 > c1 {
		sx = -1
	}
	if r0 > r1 {
		sy = -1
	}
	e := dx + dy
	for {
		if c.inside(c0, r0) && c.cells[r0*c.cols+c0].r == 0 {
			c.cells[r0*c.cols+c0] = cell{r: GlyphEdge, color: color}
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			c0 += sx
		}
		if e2 <= dx {
			e += dx
			r0 += sy
		}
	}
}

func (c *Canvas) text(x, y float64, s, color string, bold bool) {
	col, row := c.toCell(x, y)
	runes := []rune(s)
	start := col - len(runes)/2
	for i, r := range runes {
		c.set(start+i, row, cell{r: r, color: color, bold: bold})
	}
}

func roleGlyph(role string) rune {
	switch role {
	case "input":
		return GlyphInput
	case "output":
		return GlyphOutput
	default:
		return GlyphHidden
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
