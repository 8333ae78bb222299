package pictograph

import "strings"

// =============================================================================
// Location
// =============================================================================

// Location is one of the 8 compass points of the grid.
type Location string

const (
	North     Location = "n"
	East      Location = "e"
	South     Location = "s"
	West      Location = "w"
	Northeast Location = "ne"
	Southeast Location = "se"
	Southwest Location = "sw"
	Northwest Location = "nw"
)

// Locations lists every compass point, cardinals first.
var Locations = []Location{North, East, South, West, Northeast, Southeast, Southwest, Northwest}

// ParseLocation converts a location name into a Location.
// Long forms ("north", "southeast") are accepted as well.
func ParseLocation(s string) (Location, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "n", "north":
		return North, true
	case "e", "east":
		return East, true
	case "s", "south":
		return South, true
	case "w", "west":
		return West, true
	case "ne", "northeast":
		return Northeast, true
	case "se", "southeast":
		return Southeast, true
	case "sw", "southwest":
		return Southwest, true
	case "nw", "northwest":
		return Northwest, true
	}
	return "", false
}

// IsDiagonal reports whether l is one of the four intercardinal points.
func (l Location) IsDiagonal() bool {
	switch l {
	case Northeast, Southeast, Southwest, Northwest:
		return true
	}
	return false
}

// Valid reports whether l is a known compass point.
func (l Location) Valid() bool {
	for _, known := range Locations {
		if l == known {
			return true
		}
	}
	return false
}

// =============================================================================
// Orientation
// =============================================================================

// Orientation is the rotational facing of a prop.
// In and Out are radial; Clock and Counter are the non-radial forms used in
// static contexts.
type Orientation string

const (
	In      Orientation = "in"
	Out     Orientation = "out"
	Clock   Orientation = "clock"
	Counter Orientation = "counter"
)

// ParseOrientation converts a name into an Orientation.
func ParseOrientation(s string) (Orientation, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in":
		return In, true
	case "out":
		return Out, true
	case "clock", "clockwise":
		return Clock, true
	case "counter", "counterclockwise", "counter_clockwise":
		return Counter, true
	}
	return "", false
}

// Flip returns the opposite orientation. Flip is an involution over all four
// values; unknown values flip to themselves.
func (o Orientation) Flip() Orientation {
	switch o {
	case In:
		return Out
	case Out:
		return In
	case Clock:
		return Counter
	case Counter:
		return Clock
	}
	return o
}

// Radial maps non-radial orientations onto In/Out for calculation:
// Clock becomes In and Counter becomes Out. Unknown values map to In.
func (o Orientation) Radial() Orientation {
	switch o {
	case Out, Counter:
		return Out
	}
	return In
}

// IsRadial reports whether o is In or Out.
func (o Orientation) IsRadial() bool { return o == In || o == Out }

// Valid reports whether o is one of the four known orientations.
func (o Orientation) Valid() bool {
	switch o {
	case In, Out, Clock, Counter:
		return true
	}
	return false
}

// =============================================================================
// MotionType
// =============================================================================

// MotionType classifies how a prop travels between two locations.
type MotionType string

const (
	Pro    MotionType = "pro"
	Anti   MotionType = "anti"
	Static MotionType = "static"
	Dash   MotionType = "dash"
	Float  MotionType = "float"
)

// ParseMotionType converts a name into a MotionType.
func ParseMotionType(s string) (MotionType, bool) {
	switch MotionType(strings.ToLower(strings.TrimSpace(s))) {
	case Pro:
		return Pro, true
	case Anti:
		return Anti, true
	case Static:
		return Static, true
	case Dash:
		return Dash, true
	case Float:
		return Float, true
	}
	return "", false
}

// Valid reports whether t is a known motion type.
func (t MotionType) Valid() bool {
	switch t {
	case Pro, Anti, Static, Dash, Float:
		return true
	}
	return false
}

// =============================================================================
// RotationDirection
// =============================================================================

// RotationDirection is the spin direction of a prop.
type RotationDirection string

const (
	Clockwise        RotationDirection = "cw"
	CounterClockwise RotationDirection = "ccw"
	NoRotation       RotationDirection = "none"
)

// ParseRotationDirection converts a name into a RotationDirection.
// The empty string parses as NoRotation.
func ParseRotationDirection(s string) (RotationDirection, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cw", "clockwise":
		return Clockwise, true
	case "ccw", "counterclockwise", "counter_clockwise":
		return CounterClockwise, true
	case "", "none", "norotation", "no_rotation":
		return NoRotation, true
	}
	return "", false
}

// IsRotating reports whether r names an actual spin.
func (r RotationDirection) IsRotating() bool {
	return r == Clockwise || r == CounterClockwise
}

// =============================================================================
// Color
// =============================================================================

// Color identifies one of the two hands.
type Color string

const (
	Blue Color = "blue"
	Red  Color = "red"
)

// Colors lists both colors in canonical order.
var Colors = []Color{Blue, Red}

// ParseColor converts a name into a Color.
func ParseColor(s string) (Color, bool) {
	switch Color(strings.ToLower(strings.TrimSpace(s))) {
	case Blue:
		return Blue, true
	case Red:
		return Red, true
	}
	return "", false
}

// Other returns the opposite color.
func (c Color) Other() Color {
	if c == Blue {
		return Red
	}
	return Blue
}

// =============================================================================
// GridMode
// =============================================================================

// GridMode selects which four points of the 8-point grid are the main points.
type GridMode string

const (
	Diamond GridMode = "diamond"
	Box     GridMode = "box"
)

// =============================================================================
// Direction
// =============================================================================

// Direction is the 8-way direction in which a prop is pushed to separate it
// from the other prop.
type Direction string

const (
	Up        Direction = "up"
	Down      Direction = "down"
	Left      Direction = "left"
	Right     Direction = "right"
	UpRight   Direction = "upright"
	UpLeft    Direction = "upleft"
	DownRight Direction = "downright"
	DownLeft  Direction = "downleft"
)

// Directions lists all eight separation directions.
var Directions = []Direction{Up, Down, Left, Right, UpRight, UpLeft, DownRight, DownLeft}

// ParseDirection converts a name into a Direction.
func ParseDirection(s string) (Direction, bool) {
	d := Direction(strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)))
	for _, known := range Directions {
		if d == known {
			return d, true
		}
	}
	return "", false
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	case UpRight:
		return DownLeft
	case DownLeft:
		return UpRight
	case UpLeft:
		return DownRight
	case DownRight:
		return UpLeft
	}
	return d
}
