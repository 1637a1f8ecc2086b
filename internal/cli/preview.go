package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/netgraph/pkg/component"
	"github.com/matzehuels/netgraph/pkg/errors"
	pio "github.com/matzehuels/netgraph/pkg/io"
	"github.com/matzehuels/netgraph/pkg/network"
	"github.com/matzehuels/netgraph/pkg/pipeline"
	"github.com/matzehuels/netgraph/pkg/render/draw"
	"github.com/matzehuels/netgraph/pkg/render/sink"
	"github.com/matzehuels/netgraph/pkg/render/styles"
)

type previewFlags struct {
	preset   string
	file     string
	zoom     float64
	style    string
	seed     uint64
	maxNodes int
}

func (c *CLI) previewCommand() *cobra.Command {
	var flags previewFlags

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Draw a network in the terminal and zoom it interactively",
		Long: `Draw a network in the terminal.

Keys:
  + / -   zoom in / out by 0.1
  0       reset zoom to 1.0
  r       redraw with fresh weights
  s       toggle the parameter table
  ?       toggle help
  q       quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.file = args[0]
			}
			m, err := c.previewModelFor(cmd, flags)
			if err != nil {
				return err
			}
			defer m.comp.Unmount()

			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
				return errors.Wrap(errors.ErrCodeInternal, err, "run preview")
			}
			return cmd.Context().Err()
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.preset, "preset", "p", "", "built-in architecture")
	f.StringVarP(&flags.file, "file", "i", "", "architecture file (.toml or .json)")
	f.Float64VarP(&flags.zoom, "zoom", "z", pipeline.DefaultZoom, "initial zoom factor")
	f.StringVar(&flags.style, "style", pipeline.DefaultStyle, "colour style: default or dark")
	f.Uint64Var(&flags.seed, "seed", 0, "weight seed (0 draws fresh random weights)")
	f.IntVar(&flags.maxNodes, "max-nodes", 16, "maximum drawn nodes per layer")

	return cmd
}

func (c *CLI) previewModelFor(cmd *cobra.Command, flags previewFlags) (previewModel, error) {
	opts := pipeline.Options{Preset: flags.preset, MaxNodes: flags.maxNodes}
	if !cmd.Flags().Changed("style") {
		flags.style = c.config.Render.Style
	}
	if !cmd.Flags().Changed("zoom") {
		flags.zoom = c.config.Render.Zoom
	}

	title := flags.preset
	if flags.file != "" {
		if flags.preset != "" {
			return previewModel{}, errors.New(errors.ErrCodeInvalidInput, "--file and --preset are mutually exclusive")
		}
		arch, err := pio.Import(flags.file)
		if err != nil {
			return previewModel{}, err
		}
		opts.Layers, title = arch.Layers, arch.Name
	}

	layers, source, err := pipeline.Resolve(opts)
	if err != nil {
		return previewModel{}, err
	}
	if title == "" {
		title = source
	}

	style, err := styles.Lookup(flags.style)
	if err != nil {
		return previewModel{}, err
	}
	var weights network.WeightSource = network.RandomWeights()
	if flags.seed != 0 {
		weights = network.SeededWeights(flags.seed)
	}

	return newPreviewModel(cmd.Context(), title, layers,
		component.WithLogger(loggerFromContext(cmd.Context())),
		component.WithStyle(style),
		component.WithWeights(weights),
		component.WithZoom(flags.zoom),
	)
}

// =============================================================================
// Canvas Surface
// =============================================================================

// canvasSurface adapts a terminal canvas to component.Surface. The canvas
// is swapped whenever the terminal is resized.
type canvasSurface struct {
	mu     sync.Mutex
	canvas *sink.Canvas
}

func newCanvasSurface(cols, rows int) *canvasSurface {
	return &canvasSurface{canvas: sink.NewCanvas(cols, rows)}
}

func (s *canvasSurface) reset(cols, rows int) {
	s.mu.Lock()
	s.canvas = sink.NewCanvas(cols, rows)
	s.mu.Unlock()
}

func (s *canvasSurface) Size() (w, h float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.SurfaceSize()
}

func (s *canvasSurface) Draw(ctx context.Context, cmds []draw.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.canvas.Draw(cmds)
	s.mu.Unlock()
	return nil
}

func (s *canvasSurface) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.canvas.String()
}

// =============================================================================
// Key Bindings
// =============================================================================

type previewKeys struct {
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Reset    key.Binding
	Resample key.Binding
	Summary  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var defaultPreviewKeys = previewKeys{
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset zoom"),
	),
	Resample: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "new weights"),
	),
	Summary: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "parameters"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k previewKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Summary, k.Help, k.Quit}
}

func (k previewKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.Reset},
		{k.Resample, k.Summary},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Model
// =============================================================================

var statusStyle = lipgloss.NewStyle().Foreground(colorGray)

// previewModel is the bubbletea model of the preview command. Every key
// that changes the picture goes through the component, so the terminal
// sees exactly the trigger sequence a browser view would.
type previewModel struct {
	ctx     context.Context
	title   string
	comp    *component.Component
	surface *canvasSurface
	summary string

	keys        previewKeys
	help        help.Model
	showSummary bool

	width, height int
	err           error
}

func newPreviewModel(ctx context.Context, title string, layers []network.LayerSpec, opts ...component.Option) (previewModel, error) {
	comp, err := component.New(layers, opts...)
	if err != nil {
		return previewModel{}, err
	}
	return previewModel{
		ctx:     ctx,
		title:   title,
		comp:    comp,
		summary: layerTable(network.Summarize(layers)),
		keys:    defaultPreviewKeys,
		help:    help.New(),
	}, nil
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.err = m.layout()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.ZoomIn):
			m.err = m.comp.StepZoom(m.ctx, 1)
		case key.Matches(msg, m.keys.ZoomOut):
			m.err = m.comp.StepZoom(m.ctx, -1)
		case key.Matches(msg, m.keys.Reset):
			m.err = m.comp.SetZoom(m.ctx, draw.DefaultZoom)
		case key.Matches(msg, m.keys.Resample):
			if m.surface != nil {
				w, h := m.surface.Size()
				m.err = m.comp.Resize(m.ctx, w, h)
			}
		case key.Matches(msg, m.keys.Summary):
			m.showSummary = !m.showSummary
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			m.err = m.layout()
		}
	}
	return m, nil
}

// layout sizes the canvas to the terminal minus the footer. The first
// call mounts the component, later ones resize it.
func (m *previewModel) layout() error {
	if m.width <= 0 || m.height <= 0 {
		return nil
	}
	rows := max(m.height-m.footerHeight(), 1)

	if m.surface == nil {
		m.surface = newCanvasSurface(m.width, rows)
		return m.comp.Mount(m.ctx, m.surface)
	}
	m.surface.reset(m.width, rows)
	w, h := m.surface.Size()
	return m.comp.Resize(m.ctx, w, h)
}

func (m previewModel) footerHeight() int {
	return 1 + lipgloss.Height(m.help.View(m.keys))
}

func (m previewModel) View() string {
	if m.surface == nil {
		return ""
	}

	var b strings.Builder
	if m.showSummary {
		b.WriteString(m.summary)
		if pad := m.height - m.footerHeight() - lipgloss.Height(m.summary); pad > 0 {
			b.WriteString(strings.Repeat("\n", pad))
		}
	} else {
		b.WriteString(m.surface.String())
	}
	b.WriteString("\n")
	b.WriteString(m.status())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m previewModel) status() string {
	parts := []string{StyleTitle.Render(m.title)}
	parts = append(parts, statusStyle.Render(fmt.Sprintf("zoom %.1fx", m.comp.Zoom())))
	if f, ok := m.comp.Frame(); ok {
		parts = append(parts, statusStyle.Render(fmt.Sprintf("%d nodes · %d edges · frame %d",
			f.Topology.NodeCount(), f.Topology.EdgeCount(), f.Generation)))
	}
	if m.err != nil {
		parts = append(parts, StyleWarning.Render(errors.UserMessage(m.err)))
	}
	return strings.Join(parts, StyleDim.Render("  "))
}
