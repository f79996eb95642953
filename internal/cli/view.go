package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/orgchart/pkg/diagram"
	"github.com/matzehuels/orgchart/pkg/layout"
	"github.com/matzehuels/orgchart/pkg/pipeline"
)

// pixelsPerColumn converts terminal columns to viewport pixels.
const pixelsPerColumn = 10.0

// Tree styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	treeBadgeStyle    = lipgloss.NewStyle().Foreground(colorYellow)
)

// viewCommand creates the interactive chart browser.
func (c *CLI) viewCommand() *cobra.Command {
	var flags layoutFlags

	cmd := &cobra.Command{
		Use:   "view [chart.json|chart.toml]",
		Short: "Browse an organization chart interactively",
		Long: `Browse an organization chart interactively.

Every key press runs a fresh layout pass and shows the resulting positions.

Keys:
  ↑/↓ or k/j   move the selection
  space        collapse or expand the selected manager
  i            toggle individual contributors (all ↔ teams)
  q            quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runView(cmd.Context(), args[0], flags.options(cfg))
		},
	}
	flags.register(cmd)

	return cmd
}

// runView lays out the chart once and hands it to the TUI.
func (c *CLI) runView(ctx context.Context, input string, opts pipeline.Options) error {
	runner := c.newRunner()
	defer runner.Close()

	chart, err := runner.Load(ctx, input)
	if err != nil {
		return err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	// Logging would tear the alternate screen.
	opts.Logger = newLogger(io.Discard, LogInfo)

	d, res, err := runner.ComputeLayout(ctx, chart, opts)
	if err != nil {
		return err
	}
	m := newViewModel(ctx, runner, d, res, opts)

	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// viewModel - Interactive chart browser
// =============================================================================

// viewModel is the bubbletea model of the chart browser. It keeps the
// diagram between passes and only changes its visibility.
type viewModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	opts    pipeline.Options
	name    string
	diagram *diagram.Diagram

	layout   diagram.Layout
	summary  layout.Result
	order    []string // placed node ids in tree order
	depth    map[string]int
	cursor   int
	selected string
	height   int
	err      error
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, d *diagram.Diagram, res layout.Result, opts pipeline.Options) *viewModel {
	m := &viewModel{
		ctx:     ctx,
		runner:  runner,
		opts:    opts,
		name:    d.Chart().Name,
		diagram: d,
		height:  20,
	}
	m.apply(res)
	return m
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case " ", "space", "enter":
			if m.selected != "" {
				m.diagram.SetVisibility(m.diagram.Visibility().Toggle(m.selected))
				m.relayout()
			}
		case "i":
			vis := m.diagram.Visibility()
			next := diagram.ModeTeams
			if vis.Mode == diagram.ModeTeams {
				next = diagram.ModeAll
			}
			m.diagram.SetVisibility(vis.WithMode(next))
			m.relayout()
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-12, 5)
		m.opts.ViewportWidth = pipeline.Float(float64(msg.Width) * pixelsPerColumn)
		m.relayout()
	}
	return m, nil
}

// relayout runs a fresh pass on the diagram with the current options.
func (m *viewModel) relayout() {
	if m.diagram == nil {
		return
	}
	res, err := m.runner.Relayout(m.ctx, m.diagram, m.opts)
	m.err = err
	if err != nil {
		return
	}
	m.apply(res)
}

// apply snapshots the diagram and rebuilds the tree order, keeping the
// selection on the same member when it is still placed.
func (m *viewModel) apply(res layout.Result) {
	m.summary = res
	m.layout = m.diagram.Export(m.opts.LayoutConfig().ViewportWidth, res.Translation)

	idx := m.layout.Index()
	m.order = m.order[:0]
	m.depth = make(map[string]int, len(idx))
	chart := m.diagram.Chart()
	var walk func(id string, depth int)
	walk = func(id string, depth int) {
		if _, ok := idx[id]; !ok {
			return
		}
		m.order = append(m.order, id)
		m.depth[id] = depth
		for _, r := range chart.Reports(id) {
			walk(r, depth+1)
		}
	}
	if res.Root != "" {
		walk(res.Root, 0)
	}

	m.cursor = 0
	for i, id := range m.order {
		if id == m.selected {
			m.cursor = i
		}
	}
	m.selected = ""
	if len(m.order) > 0 {
		m.selected = m.order[m.cursor]
	}
}

func (m *viewModel) move(delta int) {
	if len(m.order) == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), len(m.order)-1)
	m.selected = m.order[m.cursor]
}

func (m *viewModel) View() string {
	var b strings.Builder

	title := m.name
	if title == "" {
		title = "Organization"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  mode %s · %d placed · viewport %.0f",
		m.layout.Mode, m.summary.Placed, m.opts.LayoutConfig().ViewportWidth)))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  space collapse  i individual contributors  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
		return b.String()
	}

	offset := 0
	if m.cursor >= m.height {
		offset = m.cursor - m.height + 1
	}
	end := min(offset+m.height, len(m.order))
	for i := offset; i < end; i++ {
		id := m.order[i]
		n, _ := m.layout.Node(id)
		marker := "  "
		style := treeNormalStyle
		if i == m.cursor {
			marker = "▸ "
			style = treeSelectedStyle
		}
		line := marker + strings.Repeat("  ", m.depth[id]) + style.Render(n.Name)
		if n.Collapsed {
			line += treeDimStyle.Render(" [+]")
		}
		if n.HiddenReports > 0 {
			line += treeBadgeStyle.Render(fmt.Sprintf(" +%d", n.HiddenReports))
		}
		b.WriteString(line + "\n")
	}

	if n, ok := m.layout.Node(m.selected); ok {
		b.WriteString("\n")
		b.WriteString(detailTable(n))
	}
	return b.String()
}

// detailTable renders the selected card's geometry.
func detailTable(n diagram.NodeLayout) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := [][]string{
		{"id", n.ID},
		{"title", n.Title},
		{"x, y", fmt.Sprintf("%.1f, %.1f", n.X, n.Y)},
		{"size", fmt.Sprintf("%.0f × %.0f", n.Width, n.Height)},
		{"hidden reports", fmt.Sprintf("%d", n.HiddenReports)},
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", n.Name).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorGray)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})
	return t.Render()
}
