package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rmerrors "github.com/matzehuels/railmap/pkg/errors"
	"github.com/matzehuels/railmap/pkg/render/nodelink"
	"github.com/matzehuels/railmap/pkg/topology"
)

var topologyFormats = map[string]bool{"dot": true, "svg": true, "png": true, "pdf": true}

func (c *CLI) topologyCommand() *cobra.Command {
	var (
		output string
		format string
		opts   nodelink.Options
	)

	cmd := &cobra.Command{
		Use:   "topology [file]",
		Short: "Draw the branch structure of a topology with Graphviz",
		Long: `Draw every station as a node and every branch as a chain of coloured
edges. This shows how branches share stations, which is what the line
partitioning depends on.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !topologyFormats[format] {
				return rmerrors.New(rmerrors.ErrCodeInvalidFormat, "invalid format %q (must be dot, svg, png or pdf)", format)
			}
			if output == "" && format != "dot" && format != "svg" {
				return rmerrors.New(rmerrors.ErrCodeInvalidInput, "%s output needs -o", format)
			}
			t, err := topology.Load(args[0])
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(t, opts)
			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = nodelink.RenderSVG(cmd.Context(), dot)
			case "png":
				data, err = nodelink.RenderPNG(cmd.Context(), dot, 0)
			case "pdf":
				data, err = nodelink.RenderPDF(cmd.Context(), dot)
			}
			if err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote topology of %s", StyleHighlight.Render(args[0]))
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "dot", "output format: dot, svg, png, pdf")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show share and depth in node labels")
	cmd.Flags().BoolVar(&opts.Sentinels, "sentinels", false, "keep linestart/lineend as nodes")

	return cmd
}
