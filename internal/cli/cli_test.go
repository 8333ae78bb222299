package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/engine"
	flowio "github.com/matzehuels/flowglyph/pkg/io"
)

func static(loc pictograph.Location, ori pictograph.Orientation) pictograph.MotionData {
	return pictograph.MotionData{
		MotionType: pictograph.Static,
		StartLoc:   loc,
		EndLoc:     loc,
		PropRotDir: pictograph.NoRotation,
		StartOri:   ori,
	}
}

func fixtureSequence(blueStart2 pictograph.Orientation) pictograph.Sequence {
	p := pictograph.NewPictograph("A", static(pictograph.North, pictograph.In), static(pictograph.South, pictograph.Out), "staff")
	q := pictograph.NewPictograph("B", static(pictograph.North, blueStart2), static(pictograph.South, pictograph.Out), "staff")
	return pictograph.Sequence{
		Word:  "AB",
		Beats: []pictograph.Beat{{Number: 1, Pictograph: p}, {Number: 2, Pictograph: q}},
	}
}

// writeFixture stores seq as JSON in a temp dir and isolates the test from
// any config file in the user's directories.
func writeFixture(t *testing.T, seq pictograph.Sequence) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))

	path := filepath.Join(dir, "seq.json")
	if err := flowio.ExportSequence(seq, path); err != nil {
		t.Fatalf("ExportSequence: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(append([]string{"--no-cache"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.In))
	out, err := run(t, "validate", path)
	if err != nil {
		t.Fatalf("validate continuous: %v", err)
	}
	if !strings.Contains(out, "continuous") {
		t.Errorf("output = %q, want a continuity confirmation", out)
	}
}

func TestValidateCommandReportsBreaks(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.Out))
	out, err := run(t, "validate", path)
	if !errors.Is(err, ErrDiscontinuous) {
		t.Fatalf("validate error = %v, want ErrDiscontinuous", err)
	}
	if !strings.Contains(out, "blue") {
		t.Errorf("output = %q, want the blue break listed", out)
	}
}

func TestValidateCommandFix(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.Out))
	fixed := filepath.Join(filepath.Dir(path), "fixed.json")

	if _, err := run(t, "validate", "--fix", "-o", fixed, path); err != nil {
		t.Fatalf("validate --fix: %v", err)
	}
	if _, err := run(t, "validate", fixed); err != nil {
		t.Errorf("fixed sequence still invalid: %v", err)
	}
}

func TestPositionCommandJSON(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.In))
	out, err := run(t, "position", "--json", path)
	if err != nil {
		t.Fatalf("position: %v", err)
	}

	var res engine.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(res.Beats) != 2 {
		t.Errorf("beats = %d, want 2", len(res.Beats))
	}
	if got := res.EndOrientations[pictograph.Red]; got != pictograph.Out {
		t.Errorf("red end = %s, want out", got)
	}
}

func TestPositionCommandTable(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.Out))
	out, err := run(t, "position", path)
	if err != nil {
		t.Fatalf("position: %v", err)
	}
	for _, want := range []string{"AB", "Letter", "Fixed blue orientation discontinuity"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPositionCommandPictograph(t *testing.T) {
	seq := fixtureSequence(pictograph.In)
	path := writeFixture(t, seq)
	beat := filepath.Join(filepath.Dir(path), "beat.json")
	if err := flowio.ExportJSON(seq.Beats[0].Pictograph, beat); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "position", "--pictograph", "--json", "--prev", "blue=out", beat)
	if err != nil {
		t.Fatalf("position --pictograph: %v", err)
	}
	var pl engine.Placement
	if err := json.Unmarshal([]byte(out), &pl); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := pl.StartOrientations[pictograph.Blue]; got != pictograph.Out {
		t.Errorf("blue start = %s, want out from --prev", got)
	}

	if _, err := run(t, "position", "--pictograph", "--prev", "green=in", beat); err == nil {
		t.Error("expected an error for an unknown color in --prev")
	}
}

func TestOrientationsCommand(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.In))
	out, err := run(t, "orientations", "--json", path)
	if err != nil {
		t.Fatalf("orientations: %v", err)
	}
	var got struct {
		End pictograph.Orientations `json:"end"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	want := pictograph.Orientations{pictograph.Blue: pictograph.In, pictograph.Red: pictograph.Out}
	for c, o := range want {
		if got.End[c] != o {
			t.Errorf("end[%s] = %s, want %s", c, got.End[c], o)
		}
	}
}

func TestOverridesCommand(t *testing.T) {
	writeFixture(t, pictograph.Sequence{})

	out, err := run(t, "overrides", "--letter", "G")
	if err != nil {
		t.Fatalf("overrides: %v", err)
	}
	if !strings.Contains(out, "swap") {
		t.Errorf("output = %q, want the G swap override", out)
	}

	out, err = run(t, "overrides", "--rules", "--letter", "Y")
	if err != nil {
		t.Fatalf("overrides --rules: %v", err)
	}
	if !strings.Contains(out, "down") {
		t.Errorf("output = %q, want the Y rule", out)
	}
}

func TestGraphCommandDOT(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.Out))
	out, err := run(t, "graph", "--format", "dot", path)
	if err != nil {
		t.Fatalf("graph: %v", err)
	}
	if !strings.HasPrefix(out, "digraph") {
		t.Errorf("output does not start with digraph: %q", out)
	}
	if !strings.Contains(out, "dashed") {
		t.Error("broken edge should be dashed")
	}

	if _, err := run(t, "graph", "--format", "gif", path); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestCachePathCommand(t *testing.T) {
	writeFixture(t, pictograph.Sequence{})
	t.Setenv("FLOWGLYPH_CACHE_DIR", "/tmp/flowglyph-cache-test")

	out, err := run(t, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if got := strings.TrimSpace(out); got != "/tmp/flowglyph-cache-test" {
		t.Errorf("cache path = %q, want the configured dir", got)
	}
}

func TestLogFileFlag(t *testing.T) {
	path := writeFixture(t, fixtureSequence(pictograph.In))
	logPath := filepath.Join(filepath.Dir(path), "logs", "flowglyph.log")

	if _, err := run(t, "--log-file", logPath, "position", path); err != nil {
		t.Fatalf("position: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), "Positioned 2 beats") {
		t.Errorf("log file = %q, want the progress line", data)
	}
}

func TestParseOrientations(t *testing.T) {
	tests := []struct {
		pairs   []string
		want    pictograph.Orientations
		wantErr bool
	}{
		{nil, nil, false},
		{[]string{"blue=in", "red=clock"}, pictograph.Orientations{pictograph.Blue: pictograph.In, pictograph.Red: pictograph.Clock}, false},
		{[]string{"blue"}, nil, true},
		{[]string{"=in"}, nil, true},
		{[]string{"green=in"}, nil, true},
		{[]string{"blue=sideways"}, nil, true},
	}

	for _, tt := range tests {
		got, err := parseOrientations(tt.pairs)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseOrientations(%v) error = %v, wantErr %v", tt.pairs, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseOrientations(%v) = %v, want %v", tt.pairs, got, tt.want)
			continue
		}
		for c, o := range tt.want {
			if got[c] != o {
				t.Errorf("parseOrientations(%v)[%s] = %s, want %s", tt.pairs, c, got[c], o)
			}
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", formatSVG},
		{"out.svg", formatSVG},
		{"out.PNG", formatPNG},
		{"out.dot", formatDOT},
		{"out.gv", formatDOT},
		{"out.txt", formatSVG},
	}

	for _, tt := range tests {
		if got := formatFromPath(tt.path); got != tt.want {
			t.Errorf("formatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("test completed")

	if !strings.Contains(buf.String(), "test completed") {
		t.Errorf("progress output = %q, want the message", buf.String())
	}
}

func TestCompletionCommand(t *testing.T) {
	writeFixture(t, pictograph.Sequence{})
	for shell := range shells {
		out, err := run(t, "completion", shell)
		if err != nil {
			t.Fatalf("completion %s: %v", shell, err)
		}
		if !strings.Contains(out, "flowglyph") {
			t.Errorf("completion %s output does not mention flowglyph", shell)
		}
	}
	if _, err := run(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh should fail")
	}
}

func TestCompleteOrientationPairs(t *testing.T) {
	got, _ := completeOrientationPairs(nil, nil, "red=c")
	want := []string{"red=clock", "red=counter"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("completeOrientationPairs(red=c) = %v, want %v", got, want)
	}
	if all, _ := completeOrientationPairs(nil, nil, ""); len(all) != 8 {
		t.Errorf("empty prefix gave %d pairs, want 8", len(all))
	}
}
