package track

import "github.com/vovakirdan/rail-studio/internal/level"

// ActionIndex answers actionsAt(kind, tile) queries over a built tile
// list. It is rebuilt alongside the tiles and never mutates them.
type ActionIndex struct {
	byKind map[level.EventKind]map[int][]level.Action
}

func buildIndex(tiles []Tile) *ActionIndex {
	ix := &ActionIndex{byKind: make(map[level.EventKind]map[int][]level.Action)}
	for _, t := range tiles {
		for _, a := range t.Actions {
			perFloor := ix.byKind[a.Kind]
			if perFloor == nil {
				perFloor = make(map[int][]level.Action)
				ix.byKind[a.Kind] = perFloor
			}
			perFloor[t.Index] = append(perFloor[t.Index], a)
		}
	}
	return ix
}

// At returns the actions of the given kind at the given tile, preserving
// file order. Nil when there are none.
func (ix *ActionIndex) At(kind level.EventKind, tile int) []level.Action {
	perFloor, ok := ix.byKind[kind]
	if !ok {
		return nil
	}
	return perFloor[tile]
}
