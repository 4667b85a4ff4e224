package orbit

import (
	"math"
	"testing"

	"github.com/vovakirdan/rail-studio/internal/level"
	"github.com/vovakirdan/rail-studio/internal/track"
)

func mustGraph(t *testing.T, text string) *track.Graph {
	t.Helper()
	lvl, err := level.Parse(text)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return track.NewGraph(lvl)
}

// runToCrossing steps the simulator in fixed ticks until the first
// crossing fires, failing if none does within maxTicks.
func runToCrossing(t *testing.T, s *Simulator, dtMs float64, maxTicks int) (StepResult, int) {
	t.Helper()
	for tick := 1; tick <= maxTicks; tick++ {
		res := s.Step(dtMs)
		if len(res.Crossings) > 0 {
			return res, tick
		}
	}
	t.Fatal("no crossing fired")
	return StepResult{}, 0
}

func TestHoldingIsInert(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRR", "settings": {"bpm": 60}}`), 60)

	if s.Phase() != Holding {
		t.Fatalf("fresh simulator phase = %v, expected Holding", s.Phase())
	}
	res := s.Step(1000)
	if len(res.Crossings) != 0 || res.Finished {
		t.Error("Step while Holding produced events")
	}
	if len(s.Markers()) != 0 {
		t.Error("Step while Holding materialized markers")
	}
}

func TestPlaybackSeedsMarkers(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRR", "settings": {"bpm": 60}}`), 60)
	s.SetPlayback(Playing)

	markers := s.Markers()
	if len(markers) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(markers))
	}
	if !markers[0].IsCenter || markers[1].IsCenter {
		t.Error("marker 0 should start as center")
	}
	if markers[0].Angle != 0 || markers[1].Angle != math.Pi {
		t.Errorf("seed angles = %v, %v; expected 0, pi", markers[0].Angle, markers[1].Angle)
	}
	if s.CenterTile() != 0 {
		t.Errorf("center tile = %d, expected 0", s.CenterTile())
	}
	if s.SpinDirection() != 1 {
		t.Errorf("spin = %v, expected 1", s.SpinDirection())
	}
}

func TestOrbitRadiusInvariant(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRRR", "settings": {"bpm": 60}}`), 60)
	s.SetPlayback(Playing)

	for tick := 0; tick < 400; tick++ {
		s.Step(16)
		var center Marker
		for _, m := range s.Markers() {
			if m.IsCenter {
				center = m
			}
		}
		for _, m := range s.Markers() {
			if m.IsCenter {
				continue
			}
			d := m.Position.Dist(center.Position)
			if math.Abs(d-Radius) > 1e-9 {
				t.Fatalf("tick %d: orbiting marker at distance %v from center", tick, d)
			}
		}
	}
}

func TestCrossingTransfersCenter(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRR", "settings": {"bpm": 60}}`), 60)
	s.SetPlayback(Playing)

	// At 60 bpm the orbiter sweeps 2*pi per second. Seeded at angle pi it
	// needs slightly under half a revolution to reach the next tile, so
	// the first crossing lands within the first half second.
	res, tick := runToCrossing(t, s, 16, 60)
	if float64(tick)*16 > 520 {
		t.Errorf("first crossing after %dms, expected under 520ms", tick*16)
	}
	if len(res.Crossings) != 1 {
		t.Fatalf("expected a single crossing, got %d", len(res.Crossings))
	}
	if res.Crossings[0].MarkerID != 1 || res.Crossings[0].Tile != 1 {
		t.Errorf("crossing = %+v, expected marker 1 onto tile 1", res.Crossings[0])
	}
	if s.CenterTile() != 1 {
		t.Errorf("center tile = %d, expected 1", s.CenterTile())
	}
	for _, m := range s.Markers() {
		if m.ID == 1 && !m.IsCenter {
			t.Error("marker 1 did not become center")
		}
		if m.ID == 0 && m.IsCenter {
			t.Error("marker 0 is still center")
		}
	}
}

func TestCentersAlternate(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRRRRR", "settings": {"bpm": 120}}`), 120)
	s.SetPlayback(Playing)

	want := []int{1, 0, 1, 0}
	for i, id := range want {
		res, _ := runToCrossing(t, s, 8, 200)
		c := res.Crossings[0]
		if c.MarkerID != id {
			t.Fatalf("crossing %d by marker %d, expected %d", i, c.MarkerID, id)
		}
		if c.Tile != i+1 {
			t.Fatalf("crossing %d landed on tile %d, expected %d", i, c.Tile, i+1)
		}
	}
}

func TestFinishedOnLastTile(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RR", "settings": {"bpm": 60}}`), 60)
	s.SetPlayback(Playing)

	runToCrossing(t, s, 16, 60)
	if s.CenterTile() != 1 {
		t.Fatalf("center tile = %d, expected the final tile", s.CenterTile())
	}
	// No next tile: stepping keeps running without error and reports the
	// finished state.
	res := s.Step(16)
	if !res.Finished {
		t.Error("expected Finished once the center holds the last tile")
	}
	if len(res.Crossings) != 0 {
		t.Error("crossing fired past the end of the track")
	}
}

func TestSetSpeedAndTwirlApplyOnCrossing(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{
		"pathData": "RRRR",
		"settings": {"bpm": 60},
		"actions": [
			{"floor": 1, "eventType": "SetSpeed", "speedType": "Bpm", "beatsPerMinute": 120},
			{"floor": 1, "eventType": "Twirl"}
		]
	}`), 60)
	s.SetPlayback(Playing)

	if s.BPM() != 60 {
		t.Fatalf("bpm before crossing = %v, expected 60", s.BPM())
	}
	runToCrossing(t, s, 16, 60)

	if s.BPM() != 120 {
		t.Errorf("bpm after crossing = %v, expected 120", s.BPM())
	}
	if s.SpinDirection() != -1 {
		t.Errorf("spin after twirl = %v, expected -1", s.SpinDirection())
	}
}

func TestSetSpeedMultiplier(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{
		"pathData": "RRRR",
		"settings": {"bpm": 100},
		"actions": [{"floor": 1, "eventType": "SetSpeed", "speedType": "Multiplier", "bpmMultiplier": 1.5}]
	}`), 100)
	s.SetPlayback(Playing)

	runToCrossing(t, s, 16, 60)
	if s.BPM() != 150 {
		t.Errorf("bpm after multiplier = %v, expected 150", s.BPM())
	}
}

func TestPauseShiftsOrbiterAngle(t *testing.T) {
	base := `{"pathData": "RRRR", "settings": {"bpm": 60}}`
	paused := `{
		"pathData": "RRRR",
		"settings": {"bpm": 60},
		"actions": [{"floor": 1, "eventType": "Pause", "duration": 1}]
	}`

	plain := NewSimulator(mustGraph(t, base), 60)
	withPause := NewSimulator(mustGraph(t, paused), 60)
	plain.SetPlayback(Playing)
	withPause.SetPlayback(Playing)

	runToCrossing(t, plain, 16, 60)
	runToCrossing(t, withPause, 16, 60)

	// A one-beat pause offsets the non-center marker by half a revolution
	// at the moment of transfer.
	var a0, a1 float64
	for _, m := range plain.Markers() {
		if !m.IsCenter {
			a0 = m.Angle
		}
	}
	for _, m := range withPause.Markers() {
		if !m.IsCenter {
			a1 = m.Angle
		}
	}
	diff := math.Mod(math.Abs(a1-a0), 2*math.Pi)
	if math.Abs(diff-math.Pi) > 1e-9 {
		t.Errorf("pause shifted the orbiter by %v rad, expected pi", diff)
	}
}

func TestReturnToHoldingDiscardsState(t *testing.T) {
	s := NewSimulator(mustGraph(t, `{"pathData": "RRR", "settings": {"bpm": 60}}`), 60)
	s.SetPlayback(Playing)
	runToCrossing(t, s, 16, 60)

	s.SetPlayback(Holding)
	if len(s.Markers()) != 0 || len(s.Trail()) != 0 {
		t.Error("Holding retained marker or trail state")
	}
	if s.CenterTile() != 0 {
		t.Error("Holding retained the center tile")
	}
	if s.BPM() != 60 {
		t.Errorf("bpm while Holding = %v, expected the base tempo", s.BPM())
	}

	// Re-entering Playing starts from scratch.
	s.SetPlayback(Playing)
	if s.CenterTile() != 0 || s.Markers()[1].Angle != math.Pi {
		t.Error("replay did not reseed from the track start")
	}
}

func TestEmptyTrackStaysHolding(t *testing.T) {
	s := NewSimulator(track.NewGraph(&level.Level{}), 60)
	s.SetPlayback(Playing)
	if s.Phase() != Holding {
		t.Error("playback started on an empty track")
	}
}
