// Package override holds the special placement table: a curated list of
// letter and turn combinations whose prop separation is pinned instead of
// computed.
//
// The table is decoded from TOML into an immutable value. The default table
// is embedded in the binary; callers may load their own with [Load] or
// [Parse] and inject it into the prop positioner.
//
// # Format
//
//	[[override]]
//	letter = "G"
//	blue_turns = 1
//	red_turns = 1
//	offset = [-25.0, 0.0]   # or: swap = true
//	color = "blue"          # optional
package override

import (
	_ "embed"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/flowglyph/pkg/core/geometry"
	"github.com/matzehuels/flowglyph/pkg/core/pictograph"
	"github.com/matzehuels/flowglyph/pkg/errors"
)

//go:embed overrides.toml
var defaultTable []byte

// DefaultTOML returns the embedded default table source.
func DefaultTOML() []byte { return defaultTable }

// Record is one row of the override table.
type Record struct {
	Letter    string           `toml:"letter" json:"letter"`
	BlueTurns float64          `toml:"blue_turns" json:"blue_turns"`
	RedTurns  float64          `toml:"red_turns" json:"red_turns"`
	Color     pictograph.Color `toml:"color,omitempty" json:"color,omitempty"`
	Offset    []float64        `toml:"offset,omitempty" json:"offset,omitempty"`
	Swap      bool             `toml:"swap,omitempty" json:"swap,omitempty"`
}

// Vec returns the record's offset as a vector. Swap records return zero.
func (r Record) Vec() geometry.Vec {
	if len(r.Offset) != 2 {
		return geometry.Vec{}
	}
	return geometry.Vec{X: r.Offset[0], Y: r.Offset[1]}
}

// Key identifies a letter and turn pair.
type Key struct {
	Letter    string
	BlueTurns float64
	RedTurns  float64
}

// NewKey builds a lookup key. Negative turns count as zero, like everywhere
// else in the engine.
func NewKey(letter string, blueTurns, redTurns float64) Key {
	return Key{Letter: letter, BlueTurns: clampTurns(blueTurns), RedTurns: clampTurns(redTurns)}
}

func clampTurns(t float64) float64 {
	if t <= 0 || math.IsNaN(t) {
		return 0
	}
	return t
}

// Resolution is the outcome of a table lookup.
type Resolution struct {
	// Swap means the algorithmic blue and red placements are exchanged.
	Swap bool
	// Offsets holds the pinned offset per color when Swap is false.
	Offsets map[pictograph.Color]geometry.Vec
}

// Method names the override kind for decision events.
func (r Resolution) Method() string {
	if r.Swap {
		return "swap_override"
	}
	return "offset_override"
}

type entry struct {
	colorless *Record
	colored   map[pictograph.Color]*Record
}

// Table is an immutable override table. The zero value and nil are empty
// tables.
type Table struct {
	records []Record
	entries map[Key]*entry
}

type tableFile struct {
	Override []Record `toml:"override"`
}

// Parse decodes and validates a TOML override table.
func Parse(data []byte) (*Table, error) {
	var f tableFile
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "decode override table")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidTable, "unknown override table key %q", undecoded[0].String())
	}
	return New(f.Override)
}

// Load reads and parses an override table from path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "override table %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidTable, err, "read override table %s", path)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

var defaultOnce = sync.OnceValue(func() *Table {
	t, err := Parse(defaultTable)
	if err != nil {
		panic("override: embedded table is invalid: " + err.Error())
	}
	return t
})

// Default returns the embedded table. It is parsed once and shared.
func Default() *Table { return defaultOnce() }

// New builds a table from records, validating each one.
func New(records []Record) (*Table, error) {
	t := &Table{
		records: make([]Record, 0, len(records)),
		entries: make(map[Key]*entry, len(records)),
	}
	for i, r := range records {
		if err := validate(r); err != nil {
			return nil, errors.New(errors.ErrCodeInvalidTable, "override %d: %s", i+1, errors.UserMessage(err))
		}
		r.BlueTurns = clampTurns(r.BlueTurns)
		r.RedTurns = clampTurns(r.RedTurns)
		r.Offset = append([]float64(nil), r.Offset...)
		t.records = append(t.records, r)
	}

	for i := range t.records {
		r := &t.records[i]
		k := NewKey(r.Letter, r.BlueTurns, r.RedTurns)
		e := t.entries[k]
		if e == nil {
			e = &entry{colored: map[pictograph.Color]*Record{}}
			t.entries[k] = e
		}
		if r.Color == "" {
			if e.colorless != nil {
				return nil, errors.New(errors.ErrCodeInvalidTable, "duplicate override for %s", describe(k, ""))
			}
			e.colorless = r
		} else {
			if _, dup := e.colored[r.Color]; dup {
				return nil, errors.New(errors.ErrCodeInvalidTable, "duplicate override for %s", describe(k, r.Color))
			}
			e.colored[r.Color] = r
		}
		if e.colorless != nil && e.colorless.Swap && len(e.colored) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidTable, "swap override for %s conflicts with a color-specific offset", describe(k, ""))
		}
	}
	return t, nil
}

func validate(r Record) error {
	if r.Letter == "" {
		return errors.New(errors.ErrCodeInvalidTable, "letter is required")
	}
	if r.Color != "" {
		if _, ok := pictograph.ParseColor(string(r.Color)); !ok {
			return errors.New(errors.ErrCodeInvalidTable, "invalid color %q", r.Color)
		}
	}
	hasOffset := r.Offset != nil
	switch {
	case r.Swap && hasOffset:
		return errors.New(errors.ErrCodeInvalidTable, "letter %s: swap and offset are mutually exclusive", r.Letter)
	case !r.Swap && !hasOffset:
		return errors.New(errors.ErrCodeInvalidTable, "letter %s: one of swap or offset is required", r.Letter)
	case hasOffset && len(r.Offset) != 2:
		return errors.New(errors.ErrCodeInvalidTable, "letter %s: offset needs 2 values, got %d", r.Letter, len(r.Offset))
	case r.Swap && r.Color != "":
		return errors.New(errors.ErrCodeInvalidTable, "letter %s: swap cannot be color-specific", r.Letter)
	}
	return nil
}

func describe(k Key, c pictograph.Color) string {
	s := k.Letter + " " + formatTurns(k.BlueTurns) + "/" + formatTurns(k.RedTurns)
	if c != "" {
		s += " " + string(c)
	}
	return s
}

func formatTurns(t float64) string {
	return strconv.FormatFloat(t, 'g', -1, 64)
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the table's records ordered by letter, turns
// and color.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	for i, r := range t.records {
		r.Offset = append([]float64(nil), r.Offset...)
		out[i] = r
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Letter != b.Letter {
			return a.Letter < b.Letter
		}
		if a.BlueTurns != b.BlueTurns {
			return a.BlueTurns < b.BlueTurns
		}
		if a.RedTurns != b.RedTurns {
			return a.RedTurns < b.RedTurns
		}
		return a.Color < b.Color
	})
	return out
}

// Letters returns the distinct letters pinned by the table, sorted.
func (t *Table) Letters() []string {
	if t == nil {
		return nil
	}
	seen := map[string]bool{}
	var letters []string
	for k := range t.entries {
		if !seen[k.Letter] {
			seen[k.Letter] = true
			letters = append(letters, k.Letter)
		}
	}
	sort.Strings(letters)
	return letters
}

// Lookup resolves the override for a letter and turn pair.
//
// A color-specific record wins over a colorless one. A colorless offset goes
// to blue as written and to red negated; when only one color is pinned the
// other color gets the antiparallel offset.
func (t *Table) Lookup(letter string, blueTurns, redTurns float64) (Resolution, bool) {
	if t == nil {
		return Resolution{}, false
	}
	e, ok := t.entries[NewKey(letter, blueTurns, redTurns)]
	if !ok {
		return Resolution{}, false
	}
	if e.colorless != nil && e.colorless.Swap {
		return Resolution{Swap: true}, true
	}

	blue, blueOK := pinned(e, pictograph.Blue)
	red, redOK := pinned(e, pictograph.Red)
	switch {
	case blueOK && !redOK:
		red = blue.Neg()
	case redOK && !blueOK:
		blue = red.Neg()
	}
	return Resolution{Offsets: map[pictograph.Color]geometry.Vec{
		pictograph.Blue: blue,
		pictograph.Red:  red,
	}}, true
}

// pinned returns the offset explicitly pinned for c: its own record first,
// then the colorless record (negated for red).
func pinned(e *entry, c pictograph.Color) (geometry.Vec, bool) {
	if r, ok := e.colored[c]; ok {
		return r.Vec(), true
	}
	if e.colorless != nil {
		v := e.colorless.Vec()
		if c == pictograph.Red {
			v = v.Neg()
		}
		return v, true
	}
	return geometry.Vec{}, false
}
