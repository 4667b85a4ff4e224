package track

import (
	"slices"

	"github.com/vovakirdan/rail-studio/internal/level"
)

// Floor operations mutate the heading sequence and the floor indices of
// registered actions and decorations, then replay the full recurrence.
// There is deliberately no in-place tile update path.

// InsertFloor inserts a new tile with the given heading before index i.
// i may equal Len(), which is equivalent to AppendFloor.
func (g *Graph) InsertFloor(i int, heading float64) error {
	if i < 0 || i > len(g.headings) {
		return &StructuralError{Op: "insert", Index: i, Len: len(g.headings)}
	}
	g.headings = slices.Insert(g.headings, i, heading)
	for k := range g.actions {
		if g.actions[k].Floor >= i {
			g.actions[k].Floor++
		}
	}
	for k := range g.decorations {
		if g.decorations[k].Floor >= i {
			g.decorations[k].Floor++
		}
	}
	g.replay()
	return nil
}

// AppendFloor adds a new tile with the given heading at the end.
func (g *Graph) AppendFloor(heading float64) {
	g.headings = append(g.headings, heading)
	g.replay()
}

// DeleteFloor removes the tile at index i. Actions and decorations
// registered at that floor are removed with it; later floors shift down.
func (g *Graph) DeleteFloor(i int) error {
	if i < 0 || i >= len(g.headings) {
		return &StructuralError{Op: "delete", Index: i, Len: len(g.headings)}
	}
	g.headings = slices.Delete(g.headings, i, i+1)
	g.actions = slices.DeleteFunc(g.actions, func(a level.FlatAction) bool {
		return a.Floor == i
	})
	for k := range g.actions {
		if g.actions[k].Floor > i {
			g.actions[k].Floor--
		}
	}
	g.decorations = slices.DeleteFunc(g.decorations, func(d level.FlatDecoration) bool {
		return d.Floor == i
	})
	for k := range g.decorations {
		if g.decorations[k].Floor > i {
			g.decorations[k].Floor--
		}
	}
	g.replay()
	return nil
}
