package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/errors"
	"github.com/matzehuels/flowglyph/pkg/render/continuity"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPNG = "png"
)

func (c *CLI) graphCommand() *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph [file]",
		Short: "Render the orientation continuity graph of a sequence",
		Long: `Graph draws one lane per prop color with a node per beat. Edges that break
orientation continuity are drawn red and dashed.

The format defaults to the extension of --output, or svg.`,
		Example: `  flowglyph graph sequence.json -o continuity.svg
  flowglyph graph --detailed --format dot sequence.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := readSequence(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = formatFromPath(output)
			}

			dot := continuity.ToDOT(seq, continuity.Options{Detailed: detailed})
			var data []byte
			switch format {
			case formatDOT:
				data = []byte(dot)
			case formatSVG:
				data, err = continuity.RenderSVG(cmd.Context(), dot)
			case formatPNG:
				data, err = continuity.RenderPNG(cmd.Context(), dot)
			default:
				return errors.New(errors.ErrCodeInvalidInput, "unknown format %q (must be one of: dot, svg, png)", format)
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
			printFile(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot, svg or png")
	_ = cmd.RegisterFlagCompletionFunc("format", completeGraphFormats)
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label nodes with motion details")

	return cmd
}

func formatFromPath(path string) string {
	switch ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."); ext {
	case formatDOT, formatPNG:
		return ext
	case "gv":
		return formatDOT
	}
	return formatSVG
}
