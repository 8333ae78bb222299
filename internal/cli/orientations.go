package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/sequence"
	flowio "github.com/matzehuels/flowglyph/pkg/io"
)

func (c *CLI) orientationsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "orientations [file]",
		Short: "Print a sequence's end orientations",
		Long: `Orientations prints the end orientation of each prop after the last regular
beat, and the start orientations the next beat must use. An empty sequence
ends blue in and red out.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := readSequence(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v := sequence.NewValidator()
			end := v.EndOrientations(seq)
			next := v.NextStartOrientations(seq)

			w := cmd.OutOrStdout()
			if asJSON {
				return flowio.WriteJSON(map[string]any{"end": end, "next_start": next}, w)
			}
			printKeyValue(w, "end", formatOrientations(end))
			printKeyValue(w, "next start", formatOrientations(next))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
