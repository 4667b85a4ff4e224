// Package track builds the tile graph: the stateful recurrence that turns
// a raw heading sequence into per-tile turning angles, twirl parity and
// absolute positions. Tiles are immutable records recomputed in bulk; any
// structural edit replays the whole recurrence from tile 0, because the
// reference heading and the twirl counter thread sequentially through it.
package track

import (
	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/level"
)

// Tile is one segment of the path. All fields are derived by Graph from the
// heading sequence and the flat action list; callers never mutate a Tile.
type Tile struct {
	Index     int
	Direction float64 // raw heading in degrees, or level.MidspinHeading
	Midspin   bool

	// RelativeAngle is the arc the tile subtends, in degrees. Always in
	// (0, 360] for a regular tile; a zero result is forced to 360 because a
	// tile must subtend positive arc. Midspin tiles have 0.
	RelativeAngle float64

	// TwirlParity is the cumulative number of Twirl actions seen at or
	// before this tile, mod 2, at the time this tile's angle was computed.
	TwirlParity int

	// Position is the tile's 2D position, rounded to 8 decimal digits.
	Position core.Vec2

	// IncomingHeading, OutgoingHeading and ClosingHeading feed the mesh
	// generator and the simulator's crossing checks.
	IncomingHeading float64
	OutgoingHeading float64
	ClosingHeading  float64

	// Actions and Decorations registered at this tile, in file order, with
	// the floor index implicit from containment.
	Actions     []level.Action
	Decorations []level.Decoration
}
