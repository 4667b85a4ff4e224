package track

import (
	"errors"
	"testing"

	"github.com/vovakirdan/rail-studio/internal/level"
)

func TestAppendFloor(t *testing.T) {
	g := NewGraph(mustLevel(t, `{"pathData": "RRR", "settings": {"bpm": 100}}`))

	g.AppendFloor(90)

	if g.Len() != 4 {
		t.Fatalf("expected 4 tiles after append, got %d", g.Len())
	}
	p, _ := g.PositionOf(3)
	if p.X != 3 || p.Y != 1 {
		t.Errorf("appended tile position = %v, expected (3,1)", p)
	}
	// The previously-last tile's angle is recomputed against the new
	// neighbor's heading by the full replay.
	if g.Tiles()[3].RelativeAngle != 90 {
		t.Errorf("appended tile relativeAngle = %v, expected 90", g.Tiles()[3].RelativeAngle)
	}
}

func TestInsertFloorShiftsActions(t *testing.T) {
	g := NewGraph(mustLevel(t, `{
		"pathData": "RRRR",
		"settings": {"bpm": 100},
		"actions": [{"floor": 2, "eventType": "Twirl"}]
	}`))

	if err := g.InsertFloor(1, 90); err != nil {
		t.Fatalf("InsertFloor failed: %v", err)
	}

	if g.Len() != 5 {
		t.Fatalf("expected 5 tiles after insert, got %d", g.Len())
	}
	// The twirl moved from floor 2 to floor 3 along with its tile.
	if got := g.ActionsAt(level.KindTwirl, 2); got != nil {
		t.Errorf("stale twirl still registered at floor 2: %v", got)
	}
	if got := g.ActionsAt(level.KindTwirl, 3); len(got) != 1 {
		t.Errorf("twirl not shifted to floor 3, got %v", got)
	}
}

func TestDeleteFloorDropsItsActions(t *testing.T) {
	g := NewGraph(mustLevel(t, `{
		"pathData": "RRRR",
		"settings": {"bpm": 100},
		"actions": [
			{"floor": 1, "eventType": "Twirl"},
			{"floor": 2, "eventType": "Pause", "duration": 1}
		]
	}`))

	if err := g.DeleteFloor(1); err != nil {
		t.Fatalf("DeleteFloor failed: %v", err)
	}

	if g.Len() != 3 {
		t.Fatalf("expected 3 tiles after delete, got %d", g.Len())
	}
	// The deleted floor's twirl is gone; the pause shifted down.
	for i := 0; i < g.Len(); i++ {
		if got := g.ActionsAt(level.KindTwirl, i); got != nil {
			t.Errorf("deleted floor's twirl survived at floor %d", i)
		}
	}
	if got := g.ActionsAt(level.KindPause, 1); len(got) != 1 {
		t.Errorf("pause not shifted to floor 1, got %v", got)
	}
}

func TestFloorOperationRangeErrors(t *testing.T) {
	g := NewGraph(mustLevel(t, `{"pathData": "RRR", "settings": {"bpm": 100}}`))

	tests := []struct {
		name string
		op   func() error
	}{
		{"insert past end", func() error { return g.InsertFloor(4, 0) }},
		{"insert negative", func() error { return g.InsertFloor(-1, 0) }},
		{"delete past end", func() error { return g.DeleteFloor(3) }},
		{"delete negative", func() error { return g.DeleteFloor(-1) }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.op()
			if err == nil {
				t.Fatal("expected a StructuralError, got nil")
			}
			var se *StructuralError
			if !errors.As(err, &se) {
				t.Errorf("expected *StructuralError, got %T: %v", err, err)
			}
		})
	}

	// Failed operations leave the graph untouched.
	if g.Len() != 3 {
		t.Errorf("failed operations changed the tile count to %d", g.Len())
	}
}

func TestInsertAtEndEqualsAppend(t *testing.T) {
	g1 := NewGraph(mustLevel(t, `{"pathData": "RR", "settings": {"bpm": 100}}`))
	g2 := NewGraph(mustLevel(t, `{"pathData": "RR", "settings": {"bpm": 100}}`))

	if err := g1.InsertFloor(2, 90); err != nil {
		t.Fatalf("InsertFloor at end failed: %v", err)
	}
	g2.AppendFloor(90)

	for i := 0; i < g1.Len(); i++ {
		a, _ := g1.TileAt(i)
		b, _ := g2.TileAt(i)
		if a.RelativeAngle != b.RelativeAngle || a.Position != b.Position {
			t.Errorf("tile %d differs between insert-at-end and append", i)
		}
	}
}
