package track

import (
	"math"
	"reflect"
	"testing"

	"github.com/vovakirdan/rail-studio/internal/level"
)

func mustLevel(t *testing.T, text string) *level.Level {
	t.Helper()
	lvl, err := level.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return lvl
}

func TestStraightTrack(t *testing.T) {
	g := NewGraph(mustLevel(t, `{"pathData": "RRR", "settings": {"bpm": 100}}`))

	if g.Len() != 3 {
		t.Fatalf("expected 3 tiles, got %d", g.Len())
	}
	expectedPos := [][2]float64{{1, 0}, {2, 0}, {3, 0}}
	for i, tile := range g.Tiles() {
		if tile.RelativeAngle != 180 {
			t.Errorf("tile %d relativeAngle = %v, expected 180", i, tile.RelativeAngle)
		}
		if tile.TwirlParity != 0 {
			t.Errorf("tile %d twirlParity = %d, expected 0", i, tile.TwirlParity)
		}
		if tile.Position.X != expectedPos[i][0] || tile.Position.Y != expectedPos[i][1] {
			t.Errorf("tile %d position = %v, expected %v", i, tile.Position, expectedPos[i])
		}
		if tile.IncomingHeading != 0 {
			t.Errorf("tile %d incomingHeading = %v, expected 0", i, tile.IncomingHeading)
		}
		if tile.ClosingHeading != 180 {
			t.Errorf("tile %d closingHeading = %v, expected 180", i, tile.ClosingHeading)
		}
	}
	if g.Tiles()[0].OutgoingHeading != 0 {
		t.Errorf("tile 0 outgoingHeading = %v, expected 0", g.Tiles()[0].OutgoingHeading)
	}
	if g.Tiles()[1].OutgoingHeading != -180 {
		t.Errorf("tile 1 outgoingHeading = %v, expected -180", g.Tiles()[1].OutgoingHeading)
	}
}

func TestMidspinTile(t *testing.T) {
	g := NewGraph(mustLevel(t, `{"angleData": [0, 999, 0], "settings": {"bpm": 100}}`))

	mid := g.Tiles()[1]
	if !mid.Midspin {
		t.Fatal("tile 1 should be a midspin")
	}
	if mid.RelativeAngle != 0 {
		t.Errorf("midspin relativeAngle = %v, expected 0", mid.RelativeAngle)
	}
	if mid.Direction != 0 {
		t.Errorf("midspin direction = %v, expected inherited 0", mid.Direction)
	}

	// The midspin travels opposite its predecessor: back to the origin.
	if mid.Position.X != 0 || mid.Position.Y != 0 {
		t.Errorf("midspin position = %v, expected (0,0)", mid.Position)
	}
	if mid.IncomingHeading != 180 {
		t.Errorf("midspin incomingHeading = %v, expected 180", mid.IncomingHeading)
	}

	// The tile after a midspin turns against the inherited heading: a zero
	// difference is forced to a full circle.
	if g.Tiles()[2].RelativeAngle != 360 {
		t.Errorf("tile 2 relativeAngle = %v, expected 360", g.Tiles()[2].RelativeAngle)
	}
}

func TestTwirlFlipsParity(t *testing.T) {
	plain := NewGraph(mustLevel(t, `{"angleData": [0, 90, 180, 270], "settings": {"bpm": 100}}`))
	twirled := NewGraph(mustLevel(t, `{
		"angleData": [0, 90, 180, 270],
		"settings": {"bpm": 100},
		"actions": [{"floor": 2, "eventType": "Twirl"}]
	}`))

	expectedPlain := []float64{180, 90, 90, 90}
	for i, tile := range plain.Tiles() {
		if tile.RelativeAngle != expectedPlain[i] {
			t.Errorf("plain tile %d relativeAngle = %v, expected %v", i, tile.RelativeAngle, expectedPlain[i])
		}
	}

	// Floors before the twirl are untouched; floors at and after it use
	// the flipped sign convention. Parity toggles exactly once.
	tiles := twirled.Tiles()
	if tiles[1].RelativeAngle != 90 || tiles[1].TwirlParity != 0 {
		t.Errorf("tile 1 = %v/%d, expected 90/parity 0", tiles[1].RelativeAngle, tiles[1].TwirlParity)
	}
	for _, i := range []int{2, 3} {
		if tiles[i].RelativeAngle != 270 {
			t.Errorf("tile %d relativeAngle = %v, expected 270 after twirl", i, tiles[i].RelativeAngle)
		}
		if tiles[i].TwirlParity != 1 {
			t.Errorf("tile %d twirlParity = %d, expected 1", i, tiles[i].TwirlParity)
		}
	}
}

func TestRelativeAngleRange(t *testing.T) {
	// Mixed headings including decimals and midspins: every non-midspin
	// tile must subtend an arc in (0, 360].
	g := NewGraph(mustLevel(t, `{
		"angleData": [0, 15, 345, 999, 165, 12.5, 180, 180, 999, 270, 90.25],
		"settings": {"bpm": 100},
		"actions": [{"floor": 4, "eventType": "Twirl"}, {"floor": 7, "eventType": "Twirl"}]
	}`))

	for _, tile := range g.Tiles() {
		if tile.Midspin {
			if tile.RelativeAngle != 0 {
				t.Errorf("midspin tile %d has relativeAngle %v", tile.Index, tile.RelativeAngle)
			}
			continue
		}
		if tile.RelativeAngle <= 0 || tile.RelativeAngle > 360 {
			t.Errorf("tile %d relativeAngle %v outside (0, 360]", tile.Index, tile.RelativeAngle)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	text := `{
		"angleData": [0, 90, 999, 270, 45],
		"settings": {"bpm": 100},
		"actions": [
			{"floor": 1, "eventType": "Twirl"},
			{"floor": 3, "eventType": "PositionTrack", "positionOffset": [0.5, 0.5]}
		]
	}`
	g1 := NewGraph(mustLevel(t, text))
	g2 := NewGraph(mustLevel(t, text))

	if !reflect.DeepEqual(g1.Tiles(), g2.Tiles()) {
		t.Error("replaying the recurrence on identical input produced different tiles")
	}
}

func TestPositionTrackOffset(t *testing.T) {
	g := NewGraph(mustLevel(t, `{
		"pathData": "RR",
		"settings": {"bpm": 100},
		"actions": [{"floor": 1, "eventType": "PositionTrack", "positionOffset": [2, 3]}]
	}`))

	p1, _ := g.PositionOf(1)
	if p1.X != 4 || p1.Y != 3 {
		t.Errorf("offset tile position = %v, expected (4,3)", p1)
	}

	// The editor-only flag suppresses the offset.
	g2 := NewGraph(mustLevel(t, `{
		"pathData": "RR",
		"settings": {"bpm": 100},
		"actions": [{"floor": 1, "eventType": "PositionTrack", "positionOffset": [2, 3], "editorOnly": "Enabled"}]
	}`))
	p1, _ = g2.PositionOf(1)
	if p1.X != 2 || p1.Y != 0 {
		t.Errorf("editor-only offset moved the cursor: %v", p1)
	}
}

func TestPositionPrecision(t *testing.T) {
	// Eight-decimal rounding keeps diagonal runs stable.
	g := NewGraph(mustLevel(t, `{"pathData": "EEEE", "settings": {"bpm": 100}}`))
	step := math.Sqrt(2) / 2
	for i, tile := range g.Tiles() {
		want := math.Round(float64(i+1)*step*1e8) / 1e8
		if math.Abs(tile.Position.X-want) > 1e-8 {
			t.Errorf("tile %d x = %v, expected about %v", i, tile.Position.X, want)
		}
	}
}

func TestActionIndex(t *testing.T) {
	g := NewGraph(mustLevel(t, `{
		"pathData": "RRRR",
		"settings": {"bpm": 100},
		"actions": [
			{"floor": 2, "eventType": "Twirl"},
			{"floor": 2, "eventType": "SetSpeed", "speedType": "Bpm", "beatsPerMinute": 200},
			{"floor": 2, "eventType": "Pause", "duration": 1}
		]
	}`))

	if got := g.ActionsAt(level.KindTwirl, 2); len(got) != 1 {
		t.Errorf("ActionsAt(Twirl, 2) = %d actions, expected 1", len(got))
	}
	if got := g.ActionsAt(level.KindTwirl, 1); got != nil {
		t.Errorf("ActionsAt(Twirl, 1) = %v, expected nil", got)
	}
	if got := g.ActionsAt(level.KindPause, 2); len(got) != 1 {
		t.Errorf("ActionsAt(Pause, 2) = %d actions, expected 1", len(got))
	}

	filtered := g.FilterActionsAt(2, level.NewKindSet(level.KindTwirl, level.KindPause))
	if len(filtered) != 2 {
		t.Fatalf("FilterActionsAt = %d actions, expected 2", len(filtered))
	}
	// File order is preserved across kinds.
	if filtered[0].Kind != level.KindTwirl || filtered[1].Kind != level.KindPause {
		t.Errorf("filtered order = %v, %v; expected Twirl, Pause", filtered[0].Kind, filtered[1].Kind)
	}
}
