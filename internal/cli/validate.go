package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/sequence"
	"github.com/matzehuels/flowglyph/pkg/errors"
	flowio "github.com/matzehuels/flowglyph/pkg/io"
)

// ErrDiscontinuous is returned by validate when a sequence has
// discontinuities and --fix was not given.
var ErrDiscontinuous = errors.New(errors.ErrCodeInvalidSequence, "sequence has orientation discontinuities")

func (c *CLI) validateCommand() *cobra.Command {
	var (
		fix    bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a sequence for orientation discontinuities",
		Long: `Validate reports every beat whose start orientation does not match the
previous beat's end orientation. With --fix the repaired sequence is written
to --output (or stdout).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := readSequence(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			v := sequence.NewValidator()
			w := cmd.OutOrStdout()

			if !fix {
				issues := v.Validate(seq)
				if len(issues) == 0 {
					printSuccess(w, "Sequence is continuous (%d beats)", len(seq.Beats))
					return nil
				}
				t := newTable("Beat", "Color", "Start", "Previous end")
				for _, is := range issues {
					t.Row(fmt.Sprint(is.Beat), lane(is.Color, string(is.Color)), string(is.Start), string(is.Previous))
				}
				fmt.Fprintln(w, t.Render())
				return ErrDiscontinuous
			}

			fixed, fixes := v.ValidateAndFix(seq)
			if output == "" {
				return flowio.WriteSequence(fixed, w)
			}
			if err := flowio.ExportSequence(fixed, output); err != nil {
				return err
			}
			for _, f := range fixes {
				printInfo(w, "%s", f)
			}
			printSuccess(w, "Applied %d fixes", len(fixes))
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "repair discontinuities")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the repaired sequence to this file")

	return cmd
}
