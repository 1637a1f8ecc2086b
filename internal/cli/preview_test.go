package cli

import (
	"context"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/netgraph/pkg/component"
	"github.com/matzehuels/netgraph/pkg/errors"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/presets"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/sink"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestPreview(t *testing.T) previewModel {
	t.Helper()
	p, err := presets.Get(presets.Default)
	if err != nil {
		t.Fatal(err)
	}
	m, err := newPreviewModel(context.Background(), p.Name, p.Layers,
		component.WithWeights(network.ConstantWeights(0.5)))
	if err != nil {
		t.Fatalf("newPreviewModel() error: %v", err)
	}
	t.Cleanup(m.comp.Unmount)
	return m
}

func update(t *testing.T, m previewModel, msg tea.Msg) previewModel {
	t.Helper()
	next, _ := m.Update(msg)
	pm, ok := next.(previewModel)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	if pm.err != nil {
		t.Fatalf("Update(%v) error: %v", msg, pm.err)
	}
	return pm
}

func TestPreviewMountsOnFirstSize(t *testing.T) {
	m := newTestPreview(t)
	if m.View() != "" {
		t.Error("View() before the first size message should be empty")
	}
	if m.comp.State() != component.Unmounted {
		t.Fatalf("State() = %v before sizing, want unmounted", m.comp.State())
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	if m.comp.State() != component.Mounted {
		t.Fatalf("State() = %v, want mounted", m.comp.State())
	}

	f, ok := m.comp.Frame()
	if !ok {
		t.Fatal("no frame after mount")
	}
	rows := 24 - m.footerHeight()
	if f.Topology.Width != 80*sink.CellWidth || f.Topology.Height != float64(rows)*sink.CellHeight {
		t.Errorf("frame surface = %vx%v, want %vx%v",
			f.Topology.Width, f.Topology.Height, 80*sink.CellWidth, float64(rows)*sink.CellHeight)
	}
	if f.Trigger != component.TriggerMount {
		t.Errorf("Trigger = %q, want %q", f.Trigger, component.TriggerMount)
	}

	view := m.View()
	for _, glyph := range []rune{sink.GlyphInput, sink.GlyphHidden, sink.GlyphOutput} {
		if !strings.ContainsRune(view, glyph) {
			t.Errorf("View() missing glyph %q", glyph)
		}
	}
	if !strings.Contains(view, "38 nodes") {
		t.Errorf("View() status missing node count")
	}
}

func TestPreviewResize(t *testing.T) {
	m := newTestPreview(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	first, _ := m.comp.Frame()

	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	f, _ := m.comp.Frame()
	if f.Generation <= first.Generation {
		t.Errorf("Generation = %d, want > %d", f.Generation, first.Generation)
	}
	if f.Trigger != component.TriggerResize {
		t.Errorf("Trigger = %q, want %q", f.Trigger, component.TriggerResize)
	}
	if f.Topology.Width != 120*sink.CellWidth {
		t.Errorf("Width = %v, want %v", f.Topology.Width, 120*sink.CellWidth)
	}
}

func TestPreviewZoomKeys(t *testing.T) {
	m := newTestPreview(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	tests := []struct {
		key  string
		want float64
	}{
		{"+", 1.1},
		{"+", 1.2},
		{"-", 1.1},
		{"0", draw.DefaultZoom},
		{"-", 0.9},
	}
	for _, tt := range tests {
		m = update(t, m, runes(tt.key))
		if got := m.comp.Zoom(); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("after %q Zoom() = %v, want %v", tt.key, got, tt.want)
		}
		f, _ := m.comp.Frame()
		if math.Abs(f.Zoom-tt.want) > 1e-9 {
			t.Errorf("after %q frame zoom = %v, want %v", tt.key, f.Zoom, tt.want)
		}
	}
	if !strings.Contains(m.View(), "zoom 0.9x") {
		t.Errorf("status does not show the zoom factor")
	}
}

func TestPreviewResampleRedraws(t *testing.T) {
	m := newTestPreview(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	before, _ := m.comp.Frame()

	m = update(t, m, runes("r"))
	after, _ := m.comp.Frame()
	if after.Generation != before.Generation+1 {
		t.Errorf("Generation = %d, want %d", after.Generation, before.Generation+1)
	}
}

func TestPreviewSummaryAndHelp(t *testing.T) {
	m := newTestPreview(t)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	short := m.footerHeight()

	m = update(t, m, runes("s"))
	if !strings.Contains(m.View(), "Total") {
		t.Error("summary view missing parameter table")
	}
	m = update(t, m, runes("s"))
	if strings.Contains(m.View(), "Total") {
		t.Error("summary still shown after second toggle")
	}

	m = update(t, m, runes("?"))
	if !m.help.ShowAll {
		t.Fatal("? did not expand help")
	}
	if m.footerHeight() <= short {
		t.Errorf("footerHeight() = %d with full help, want > %d", m.footerHeight(), short)
	}
	f, _ := m.comp.Frame()
	if want := float64(30-m.footerHeight()) * sink.CellHeight; f.Topology.Height != want {
		t.Errorf("canvas height = %v after help toggle, want %v", f.Topology.Height, want)
	}
}

func TestPreviewQuit(t *testing.T) {
	m := newTestPreview(t)
	for _, k := range []tea.KeyMsg{runes("q"), {Type: tea.KeyCtrlC}, {Type: tea.KeyEsc}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Errorf("Update(%q) returned no command", k.String())
			continue
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("Update(%q) did not quit", k.String())
		}
	}
}

func TestCanvasSurfaceCancelled(t *testing.T) {
	s := newCanvasSurface(10, 5)
	if w, h := s.Size(); w != 10*sink.CellWidth || h != 5*sink.CellHeight {
		t.Errorf("Size() = %vx%v", w, h)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Draw(ctx, []draw.Command{draw.Clear{Width: 80, Height: 80}}); err == nil {
		t.Error("Draw() with cancelled context should fail")
	}

	s.reset(20, 5)
	if w, _ := s.Size(); w != 20*sink.CellWidth {
		t.Errorf("Size() after reset = %v, want %v", w, 20*sink.CellWidth)
	}
}

func TestPreviewRejectsMaxNodes(t *testing.T) {
	for _, n := range []int{-1, pipeline.MaxNodesLimit + 1} {
		c := quietCLI()
		cmd := c.previewCommand()
		cmd.SetContext(context.Background())

		_, err := c.previewModelFor(cmd, previewFlags{zoom: 1, style: "default", maxNodes: n})
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("previewModelFor(max-nodes=%d) error = %v, want INVALID_INPUT", n, err)
		}
	}
}
