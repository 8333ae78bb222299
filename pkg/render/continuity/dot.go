package continuity

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/core/sequence"
)

// Options configures continuity diagram rendering.
type Options struct {
	// Detailed adds motion type, turns and locations to node labels.
	// When false, only the letter and orientations are shown.
	Detailed bool
}

var laneColors = map[pictograph.Color]string{
	pictograph.Blue: "lightblue",
	pictograph.Red:  "mistyrose",
}

type breakKey struct {
	beat  int
	color pictograph.Color
}

// ToDOT converts the continuity chain of seq to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG] or [RenderPNG].
func ToDOT(seq pictograph.Sequence, opts Options) string {
	breaks := make(map[breakKey]sequence.Issue)
	for _, is := range sequence.NewValidator().Validate(seq) {
		breaks[breakKey{is.Beat, is.Color}] = is
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	chain := seq.Chain()
	for i, b := range chain {
		var ids []string
		for _, c := range pictograph.Colors {
			m, ok := b.Pictograph.Motion(c)
			if !ok {
				continue
			}
			id := nodeID(c, i)
			ids = append(ids, strconv.Quote(id))
			label := fmtLabel(b, i, seq.StartPosition != nil, m, opts.Detailed)
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%s];\n", id, label, laneColors[c])
		}
		if len(ids) > 1 {
			fmt.Fprintf(&buf, "  { rank=same; %s }\n", strings.Join(ids, "; "))
		}
	}

	// Each lane links a color's motions in order, skipping beats without it.
	buf.WriteString("\n")
	last := make(map[pictograph.Color]int, len(pictograph.Colors))
	for i, b := range chain {
		for _, c := range pictograph.Colors {
			if _, ok := b.Pictograph.Motion(c); !ok {
				continue
			}
			if prev, ok := last[c]; ok {
				attrs := fmtEdgeAttrs(breaks, b.Number, c)
				fmt.Fprintf(&buf, "  %q -> %q [%s];\n", nodeID(c, prev), nodeID(c, i), strings.Join(attrs, ", "))
			}
			last[c] = i
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(c pictograph.Color, index int) string {
	return fmt.Sprintf("%s_%d", c, index)
}

func fmtLabel(b *pictograph.Beat, index int, hasStart bool, m pictograph.MotionData, detailed bool) string {
	title := fmt.Sprintf("%d", b.Number)
	if index == 0 && hasStart {
		title = "start"
	}
	if b.Pictograph.Letter != "" {
		title += " " + b.Pictograph.Letter
	}
	lines := []string{title, fmt.Sprintf("%s → %s", orDash(string(m.StartOri)), orDash(string(m.EndOri)))}
	if detailed {
		lines = append(lines,
			fmt.Sprintf("%s %s", orDash(string(m.MotionType)), strconv.FormatFloat(m.Turns, 'f', -1, 64)),
			fmt.Sprintf("%s → %s", orDash(string(m.StartLoc)), orDash(string(m.EndLoc))))
		if m.PropRotDir.IsRotating() {
			lines = append(lines, string(m.PropRotDir))
		}
	}
	return strings.Join(lines, "\n")
}

func fmtEdgeAttrs(breaks map[breakKey]sequence.Issue, beat int, c pictograph.Color) []string {
	is, broken := breaks[breakKey{beat, c}]
	if !broken {
		return []string{"color=" + darker(c)}
	}
	return []string{
		"color=red",
		"style=dashed",
		"fontcolor=red",
		fmt.Sprintf("label=%q", fmt.Sprintf("%s ≠ %s", is.Previous, is.Start)),
	}
}

func darker(c pictograph.Color) string {
	if c == pictograph.Red {
		return "firebrick"
	}
	return "steelblue"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
