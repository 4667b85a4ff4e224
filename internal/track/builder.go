package track

import (
	"slices"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/level"
)

// Graph owns the heading sequence and the derived tile list. It is not
// reentrant: a replay must run to completion before its output is read,
// which the single-threaded step model guarantees.
type Graph struct {
	headings    []float64
	actions     []level.FlatAction
	decorations []level.FlatDecoration
	tiles       []Tile
	index       *ActionIndex
}

// NewGraph builds the tile graph for a parsed level.
func NewGraph(l *level.Level) *Graph {
	g := &Graph{
		headings:    slices.Clone(l.Headings),
		actions:     slices.Clone(l.Actions),
		decorations: slices.Clone(l.Decorations),
	}
	g.replay()
	return g
}

// Len returns the number of tiles.
func (g *Graph) Len() int {
	return len(g.tiles)
}

// Tiles returns the derived tile list. Callers must treat it as read-only.
func (g *Graph) Tiles() []Tile {
	return g.tiles
}

// TileAt returns the tile at index i.
func (g *Graph) TileAt(i int) (Tile, bool) {
	if i < 0 || i >= len(g.tiles) {
		return Tile{}, false
	}
	return g.tiles[i], true
}

// PositionOf returns the position of tile i.
func (g *Graph) PositionOf(i int) (core.Vec2, bool) {
	t, ok := g.TileAt(i)
	return t.Position, ok
}

// ActionsAt returns the actions of the given kind at tile i, in file order.
func (g *Graph) ActionsAt(kind level.EventKind, i int) []level.Action {
	return g.index.At(kind, i)
}

// FilterActionsAt returns the actions at tile i whose kind is in the given
// set, in file order across kinds.
func (g *Graph) FilterActionsAt(i int, kinds level.KindSet) []level.Action {
	if i < 0 || i >= len(g.tiles) {
		return nil
	}
	var out []level.Action
	for _, a := range g.tiles[i].Actions {
		if kinds.Has(a.Kind) {
			out = append(out, a)
		}
	}
	return out
}

// Headings returns a copy of the raw heading sequence.
func (g *Graph) Headings() []float64 {
	return slices.Clone(g.headings)
}

// Level reconstructs the flat level form from the graph's current state,
// for export after edits. Settings are supplied by the caller since the
// graph never holds them.
func (g *Graph) Level(settings *level.Object) *level.Level {
	return &level.Level{
		Headings:    slices.Clone(g.headings),
		Settings:    settings,
		Actions:     slices.Clone(g.actions),
		Decorations: slices.Clone(g.decorations),
	}
}

// replay recomputes every tile from scratch: first the angle recurrence,
// then the position pass. There is no incremental shortcut; the reference
// heading and twirl counter are threaded sequentially from tile 0.
func (g *Graph) replay() {
	actionsByFloor := make(map[int][]level.Action)
	for _, a := range g.actions {
		actionsByFloor[a.Floor] = append(actionsByFloor[a.Floor], a.Action)
	}
	decorationsByFloor := make(map[int][]level.Decoration)
	for _, d := range g.decorations {
		decorationsByFloor[d.Floor] = append(decorationsByFloor[d.Floor], d.Decoration)
	}

	tiles := make([]Tile, len(g.headings))

	// Angle recurrence. angleDir is the absolute reference heading the next
	// tile turns against; twirlCount flips the sign convention.
	angleDir := 0.0
	twirlCount := 0
	for i, h := range g.headings {
		if i == 0 {
			angleDir = 180
		}

		t := Tile{
			Index:       i,
			Direction:   h,
			Actions:     actionsByFloor[i],
			Decorations: decorationsByFloor[i],
		}

		if h == level.MidspinHeading {
			// A midspin inherits the raw heading of its predecessor and
			// subtends no arc. Twirl parity is neither consulted nor
			// advanced here.
			t.Midspin = true
			if i > 0 {
				angleDir = g.headings[i-1]
				t.Direction = g.headings[i-1]
			}
			t.RelativeAngle = 0
			t.TwirlParity = twirlCount % 2
		} else {
			for _, a := range t.Actions {
				if a.Kind == level.KindTwirl {
					twirlCount++
				}
			}
			diff := core.Mod360(angleDir - h)
			rel := diff
			if twirlCount%2 != 0 {
				rel = 360 - diff
			}
			if rel == 0 {
				rel = 360
			}
			t.RelativeAngle = rel
			t.TwirlParity = twirlCount % 2
			angleDir = h + 180
		}

		tiles[i] = t
	}

	g.tiles = tiles
	g.positionPass(actionsByFloor)
	g.index = buildIndex(g.tiles)
}

// positionPass walks a 2D cursor from the origin through the resolved
// heading sequence, one extra closing step past the last tile, and assigns
// positions plus the auxiliary headings the mesh generator and crossing
// checks consume.
func (g *Graph) positionPass(actionsByFloor map[int][]level.Action) {
	n := len(g.headings)
	if n == 0 {
		return
	}

	// Resolve midspin sentinels: a midspin travels opposite to its
	// predecessor's resolved heading. A leading midspin resolves against
	// the implicit start heading 0.
	resolved := make([]float64, n)
	for i, h := range g.headings {
		switch {
		case h != level.MidspinHeading:
			resolved[i] = h
		case i == 0:
			resolved[i] = 180
		default:
			resolved[i] = resolved[i-1] + 180
		}
	}
	closing := resolved[n-1] + 180

	cursor := core.Vec2{}
	for i := 0; i <= n; i++ {
		heading := resolved[n-1]
		if i < n {
			heading = resolved[i]
		}

		if i < n {
			for _, a := range actionsByFloor[i] {
				if a.Kind != level.KindPositionTrack {
					continue
				}
				if x, y, editorOnly, ok := a.TrackOffset(); ok && !editorOnly {
					cursor = cursor.Add(core.Vec2{X: x, Y: y})
				}
			}
		}

		cursor = cursor.Add(core.Heading(heading))

		if i < n {
			g.tiles[i].Position = core.Vec2{X: core.Round8(cursor.X), Y: core.Round8(cursor.Y)}
			g.tiles[i].IncomingHeading = heading
			if i > 0 {
				g.tiles[i].OutgoingHeading = resolved[i-1] - 180
			}
			g.tiles[i].ClosingHeading = closing
		}
	}
}
