package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railmap/pkg/render/railmap"
	"github.com/matzehuels/railmap/pkg/render/railmap/layout"
	"github.com/matzehuels/railmap/pkg/render/railmap/sink"
	"github.com/matzehuels/railmap/pkg/topology"
)

var (
	stepBeforeStyle  = lipgloss.NewStyle().Foreground(colorDim)
	stepCurrentStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	stepLabelStyle   = lipgloss.NewStyle().Foreground(colorGray).Width(6)
)

func (c *CLI) stepCommand() *cobra.Command {
	var (
		params paramFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "step [file]",
		Short: "Move the current station interactively",
		Long: `Step through the stations of a topology and watch the main and pass
lines change. Keys:

  ←/→ h/l   previous / next station
  g/G       first / last station
  d         flip the direction of travel
  w         write the current diagram as SVG
  q         quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, err := params.load(cmd, args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = basePath("", args[0]) + ".svg"
			}

			m := newStepModel(t, p, output)
			if m.err != nil {
				return m.err
			}
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}
			if fm, ok := final.(stepModel); ok {
				hits, misses := fm.memo.Stats()
				c.Logger.Debug("stepper closed", "memo_hits", hits, "memo_misses", misses)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "SVG file written by the w key (default: input name with .svg)")
	params.register(cmd)

	return cmd
}

// stepWrittenMsg reports a finished SVG write.
type stepWrittenMsg struct {
	path string
	err  error
}

// stepModel is the bubbletea model behind the step command.
type stepModel struct {
	topo    *topology.Topology
	order   []string
	params  layout.Params
	memo    *railmap.Memo
	diagram *railmap.Diagram
	output  string
	status  string
	err     error
	width   int
}

func newStepModel(t *topology.Topology, p layout.Params, output string) stepModel {
	m := stepModel{
		topo:   t,
		order:  t.Order(),
		params: p,
		memo:   &railmap.Memo{},
		output: output,
		width:  100,
	}
	if !m.params.HasCurrent {
		m.params.Current, m.params.HasCurrent = 0, true
	}
	m.params.Current = clamp(m.params.Current, 0, len(m.order)-1)
	m.recompose()
	return m
}

func (m *stepModel) recompose() {
	d, _, err := m.memo.Compose(m.topo, m.params)
	m.diagram, m.err = d, err
}

func (m stepModel) Init() tea.Cmd {
	return nil
}

func (m stepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.moveTo(m.params.Current + 1)
		case "left", "h":
			m.moveTo(m.params.Current - 1)
		case "home", "g":
			m.moveTo(0)
		case "end", "G":
			m.moveTo(len(m.order) - 1)
		case "d":
			if m.params.Direction == layout.Right {
				m.params.Direction = layout.Left
			} else {
				m.params.Direction = layout.Right
			}
			m.recompose()
		case "w":
			if m.diagram != nil {
				return m, writeSVG(m.output, m.diagram)
			}
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case stepWrittenMsg:
		if msg.err != nil {
			m.status = styleIconError.Render(iconError) + " " + msg.err.Error()
		} else {
			m.status = styleIconSuccess.Render(iconSuccess) + " wrote " + msg.path
		}
	}
	return m, nil
}

func (m *stepModel) moveTo(i int) {
	i = clamp(i, 0, len(m.order)-1)
	if i == m.params.Current {
		return
	}
	m.params.Current = i
	m.status = ""
	m.recompose()
}

func writeSVG(path string, d *railmap.Diagram) tea.Cmd {
	return func() tea.Msg {
		err := os.WriteFile(path, sink.RenderSVG(d, sink.WithNames()), 0o644)
		return stepWrittenMsg{path: path, err: err}
	}
}

func (m stepModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("railmap step"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ move  g/G ends  d direction  w write  q quit"))
	b.WriteString("\n\n")

	b.WriteString(m.stationStrip())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
		return b.String()
	}

	mainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.params.Colour))
	for _, br := range m.diagram.Branches {
		fmt.Fprintf(&b, "%s %s\n", stepLabelStyle.Render(fmt.Sprintf("main %d", br.Index)),
			mainStyle.Render(truncate(orDash(m.diagram.Lines.Main[br.Index]), m.width-8)))
		fmt.Fprintf(&b, "%s %s\n", stepLabelStyle.Render(fmt.Sprintf("pass %d", br.Index)),
			StyleDim.Render(truncate(orDash(m.diagram.Lines.Pass[br.Index]), m.width-8)))
	}

	hits, misses := m.memo.Stats()
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] · direction %s · memo %d hits, %d misses",
		m.params.Current+1, len(m.order), m.params.Direction, hits, misses)))
	if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	return b.String()
}

// stationStrip lists the stations in order, styled by traversal state.
func (m stepModel) stationStrip() string {
	if m.diagram == nil {
		return StyleDim.Render(strings.Join(m.order, " ─ "))
	}
	afterStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.params.Colour))

	parts := make([]string, 0, len(m.diagram.Stations))
	for _, s := range m.diagram.Stations {
		label := s.ID
		if s.Name != "" {
			label = s.Name
		}
		switch s.State {
		case layout.Before:
			parts = append(parts, stepBeforeStyle.Render(label))
		case layout.Current:
			parts = append(parts, stepCurrentStyle.Render("● "+label))
		default:
			parts = append(parts, afterStyle.Render(label))
		}
	}
	return lipgloss.NewStyle().Width(m.width).Render(strings.Join(parts, StyleDim.Render(" ─ ")))
}

func truncate(s string, n int) string {
	if n < 4 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
