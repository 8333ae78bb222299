package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/beta"
	"github.com/matzehuels/flowglyph/pkg/core/override"
)

func (c *CLI) overridesCommand() *cobra.Command {
	var (
		letter string
		rules  bool
	)

	cmd := &cobra.Command{
		Use:   "overrides",
		Short: "List the beta override table",
		Long: `Overrides lists the letter and turn combinations whose prop separation is
pinned by the override table. With --rules it lists the separation
direction rules instead. Tables configured under tables.* replace the
built-in ones.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.Config().EngineOptions()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if rules {
				rt := opts.Rules
				if rt == nil {
					rt = beta.DefaultRules()
				}
				t := newTable("Letter", "Blue type", "Red type", "Blue", "Red")
				n := 0
				for _, r := range rt.Rules() {
					if letter != "" && r.Letter != letter {
						continue
					}
					t.Row(r.Letter, string(r.BlueType), string(r.RedType), orDash(string(r.Blue)), orDash(string(r.Red)))
					n++
				}
				fmt.Fprintln(w, t.Render())
				printDetail(w, "%d rules", n)
				return nil
			}

			tbl := opts.Overrides
			if tbl == nil {
				tbl = override.Default()
			}
			t := newTable("Letter", "Blue turns", "Red turns", "Color", "Action")
			n := 0
			for _, r := range tbl.Records() {
				if letter != "" && r.Letter != letter {
					continue
				}
				t.Row(r.Letter, formatTurns(r.BlueTurns), formatTurns(r.RedTurns), orDash(string(r.Color)), describeOverride(r))
				n++
			}
			fmt.Fprintln(w, t.Render())
			printDetail(w, "%d overrides", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&letter, "letter", "l", "", "only show entries for this letter")
	cmd.Flags().BoolVar(&rules, "rules", false, "list direction rules instead of overrides")

	return cmd
}

func describeOverride(r override.Record) string {
	if r.Swap {
		return "swap"
	}
	v := r.Vec()
	return fmt.Sprintf("offset (%g, %g)", v.X, v.Y)
}

func formatTurns(t float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", t), ".0")
}
