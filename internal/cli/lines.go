package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/railmap/pkg/render/railmap"
)

func (c *CLI) linesCommand() *cobra.Command {
	var (
		params  paramFlags
		asJSON  bool
		showRun bool
	)

	cmd := &cobra.Command{
		Use:   "lines [file]",
		Short: "Print the main and pass path strings of every branch",
		Long: `Print the SVG path data railmap computes for each branch: the main line
(still ahead) and the pass line (already travelled). Useful for embedding the
paths in another document or for checking a topology by eye.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, p, err := params.load(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := railmap.Compose(t, p)
			if err != nil {
				return err
			}
			c.Logger.Debug("composed", "branches", len(d.Branches), "direction", p.Direction)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(d.Lines)
			}
			printLinesTable(out, d, showRun)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print {main, pass} as JSON")
	cmd.Flags().BoolVar(&showRun, "runs", false, "also list the stations of each run")
	params.register(cmd)

	return cmd
}

func printLinesTable(w io.Writer, d *railmap.Diagram, showRuns bool) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	mainStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(d.Params.Colour))
	passStyle := lipgloss.NewStyle().Foreground(colorGray)

	headers := []string{"Branch", "Layer", "Shape", "Path"}
	if showRuns {
		headers = append(headers, "Stations")
	}

	var rows [][]string
	for _, b := range d.Branches {
		main := []string{strconv.Itoa(b.Index), "main", b.MainRun.Shape().String(), orDash(d.Lines.Main[b.Index])}
		pass := []string{strconv.Itoa(b.Index), "pass", b.PassRun.Shape().String(), orDash(d.Lines.Pass[b.Index])}
		if showRuns {
			main = append(main, joinIDs(b.Runs.Main))
			pass = append(pass, joinIDs(b.Runs.Pass))
		}
		rows = append(rows, main, pass)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col != 3:
				return lipgloss.NewStyle()
			case row%2 == 0:
				return mainStyle
			}
			return passStyle
		})

	fmt.Fprintln(w, t.Render())
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func joinIDs(ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	return strings.Join(ids, " ")
}
