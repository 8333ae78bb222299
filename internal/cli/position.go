package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/engine"
	"github.com/matzehuels/flowglyph/pkg/errors"
	flowio "github.com/matzehuels/flowglyph/pkg/io"
)

// stdinPath names standard input as a file argument.
const stdinPath = "-"

type positionOpts struct {
	output     string
	json       bool
	pictograph bool
	previous   []string
}

func (c *CLI) positionCommand() *cobra.Command {
	var opts positionOpts

	cmd := &cobra.Command{
		Use:   "position [file]",
		Short: "Position props and arrows for a sequence or pictograph",
		Long: `Position reads a sequence JSON file (or - for stdin), repairs orientation
discontinuities, and places the props and arrows of every beat.

With --pictograph the input is a single pictograph; --prev supplies the
previous beat's end orientations as color=orientation pairs.`,
		Example: `  flowglyph position sequence.json
  flowglyph position --json sequence.json > placements.json
  flowglyph position --pictograph --prev blue=in --prev red=out beat.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPosition(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the placements as JSON to this file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print placements as JSON")
	cmd.Flags().BoolVar(&opts.pictograph, "pictograph", false, "input is a single pictograph")
	cmd.Flags().StringSliceVar(&opts.previous, "prev", nil, "previous end orientation as color=orientation (with --pictograph)")
	_ = cmd.RegisterFlagCompletionFunc("prev", completeOrientationPairs)

	return cmd
}

func (c *CLI) runPosition(cmd *cobra.Command, path string, opts positionOpts) error {
	ctx := cmd.Context()
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var result any
	if opts.pictograph {
		prev, err := parseOrientations(opts.previous)
		if err != nil {
			return err
		}
		p, err := readPictograph(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		pl, err := runner.PositionPictograph(ctx, p, prev)
		if err != nil {
			return err
		}
		result = pl
		if !opts.json && opts.output == "" {
			printPlacements(cmd.OutOrStdout(), []engine.Placement{*pl})
		}
	} else {
		seq, err := readSequence(cmd.InOrStdin(), path)
		if err != nil {
			return err
		}
		prog := newProgress(c.Logger)
		res, err := runner.PositionSequence(ctx, seq)
		if err != nil {
			return err
		}
		prog.done(fmt.Sprintf("Positioned %d beats", res.Stats.BeatCount))
		result = res
		if !opts.json && opts.output == "" {
			printResult(cmd.OutOrStdout(), res)
		}
	}

	if opts.json {
		return flowio.WriteJSON(result, cmd.OutOrStdout())
	}
	if opts.output != "" {
		if err := flowio.ExportJSON(result, opts.output); err != nil {
			return err
		}
		printFile(cmd.OutOrStdout(), opts.output)
	}
	return nil
}

func printResult(w io.Writer, res *engine.Result) {
	title := res.Sequence.Word
	if title == "" {
		title = "sequence"
	}
	fmt.Fprintln(w, StyleTitle.Render(title))

	pls := make([]engine.Placement, 0, len(res.Beats)+1)
	if res.StartPosition != nil {
		pls = append(pls, *res.StartPosition)
	}
	pls = append(pls, res.Beats...)
	printPlacements(w, pls)

	for _, f := range res.Fixes {
		printWarning(w, "%s", f)
	}
	printStats(w, res.Stats.BeatCount, res.Stats.Overlaps, len(res.Fixes), res.CacheInfo.SequenceHit)
	printKeyValue(w, "end", formatOrientations(res.EndOrientations))
}

func printPlacements(w io.Writer, pls []engine.Placement) {
	t := newTable("Beat", "Letter", "Method", "Blue", "Red", "End")
	for _, pl := range pls {
		t.Row(beatLabel(pl), orDash(pl.Letter), string(pl.Decision.Method),
			formatProp(pl, pictograph.Blue), formatProp(pl, pictograph.Red),
			formatOrientations(pl.EndOrientations))
	}
	fmt.Fprintln(w, t.Render())
}

func beatLabel(pl engine.Placement) string {
	switch {
	case pl.IsStart:
		return "start"
	case pl.IsBlank:
		return fmt.Sprintf("%d (blank)", pl.Beat)
	}
	return fmt.Sprint(pl.Beat)
}

// formatProp renders the prop anchor and its beta offset, if any.
func formatProp(pl engine.Placement, c pictograph.Color) string {
	p, ok := pl.Props[c]
	if !ok {
		return "—"
	}
	s := fmt.Sprintf("(%.1f, %.1f) %.0f°", p.X, p.Y, p.Rotation)
	if p.DX != 0 || p.DY != 0 {
		s += fmt.Sprintf(" Δ(%.1f, %.1f)", p.DX, p.DY)
	}
	return lane(c, s)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

// =============================================================================
// Input helpers
// =============================================================================

func readSequence(stdin io.Reader, path string) (pictograph.Sequence, error) {
	if path == stdinPath {
		return flowio.ReadSequence(stdin)
	}
	return flowio.ImportSequence(path)
}

func readPictograph(stdin io.Reader, path string) (pictograph.PictographData, error) {
	if path == stdinPath {
		return flowio.ReadPictograph(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pictograph.PictographData{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return pictograph.PictographData{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return flowio.ReadPictograph(f)
}

// parseOrientations parses color=orientation pairs.
func parseOrientations(pairs []string) (pictograph.Orientations, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(pictograph.Orientations, len(pairs))
	for _, pair := range pairs {
		key, val, ok := strings.Cut(pair, "=")
		if !ok || key == "" || val == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "orientation %q must be color=orientation", pair)
		}
		color, ok := pictograph.ParseColor(key)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown color %q", key)
		}
		o, ok := pictograph.ParseOrientation(val)
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown orientation %q", val)
		}
		out[color] = o
	}
	return out, nil
}
