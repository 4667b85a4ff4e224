// Package orbit is the discrete-event rotational motion simulator: two
// markers orbit a moving reference tile at tempo-derived angular velocity,
// and tile-triggered effects fire at boundary crossings. The simulator has
// no clock of its own; the caller drives it with per-tick deltas.
package orbit

import (
	"math"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/level"
	"github.com/vovakirdan/rail-studio/internal/track"
)

// Phase is the simulator's lifecycle state.
type Phase int

const (
	// Holding is the inert state; no simulation state exists.
	Holding Phase = iota
	// Playing advances motion on every Step call.
	Playing
)

const (
	// Radius is the fixed orbit radius around the center marker.
	Radius = 3.0
	// CrossingDistance is how close a marker must come to the next tile's
	// position to trigger a crossing.
	CrossingDistance = 0.5
	// trailCap bounds the rendered motion trail.
	trailCap = 256
)

// Marker is one orbiting body. Exactly one marker is the center at any
// instant; ownership transfers atomically at a crossing.
type Marker struct {
	ID       int
	Angle    float64 // radians, relative to the center marker
	IsCenter bool
	Color    core.Color
	Position core.Vec2
}

// Crossing reports one boundary crossing that occurred during a Step.
type Crossing struct {
	MarkerID int
	Tile     int // the tile index the marker landed on
}

// StepResult describes what happened during one Step call.
type StepResult struct {
	Crossings []Crossing
	Finished  bool // the center reached the last tile
}

// Simulator advances the orbit over continuous time. All playing state
// (spin direction, tempo, center tile, markers, trail) exists only while
// the phase is Playing and is discarded entirely on return to Holding.
type Simulator struct {
	graph   *track.Graph
	baseBPM float64

	phase      Phase
	spin       float64 // ±1, clockwise positive
	bpm        float64
	centerTile int
	markers    []Marker
	trail      []core.Vec2
}

// NewSimulator creates a simulator over the given graph with the level's
// base tempo.
func NewSimulator(g *track.Graph, baseBPM float64) *Simulator {
	return &Simulator{graph: g, baseBPM: baseBPM, phase: Holding}
}

// Phase returns the current lifecycle state.
func (s *Simulator) Phase() Phase {
	return s.phase
}

// BPM returns the current tempo while Playing, or the base tempo.
func (s *Simulator) BPM() float64 {
	if s.phase == Playing {
		return s.bpm
	}
	return s.baseBPM
}

// SpinDirection returns the current spin sign while Playing.
func (s *Simulator) SpinDirection() float64 {
	if s.phase == Playing {
		return s.spin
	}
	return 1
}

// CenterTile returns the index of the reference tile while Playing.
func (s *Simulator) CenterTile() int {
	return s.centerTile
}

// Markers returns the live markers. Empty while Holding.
func (s *Simulator) Markers() []Marker {
	return s.markers
}

// Trail returns recent center-relative marker positions for rendering.
func (s *Simulator) Trail() []core.Vec2 {
	return s.trail
}

// SetPlayback transitions between Holding and Playing. Entering Playing
// seeds the markers on the first two tiles with angles 0 and pi, marks
// marker 0 as center, and captures the base tempo. Entering Holding
// discards all marker and trail state.
func (s *Simulator) SetPlayback(p Phase) {
	if p == s.phase {
		return
	}
	if p == Holding {
		s.phase = Holding
		s.markers = nil
		s.trail = nil
		s.centerTile = 0
		return
	}
	if s.graph.Len() == 0 {
		return
	}

	p0, _ := s.tilePos(0)
	p1, ok := s.tilePos(1)
	if !ok {
		p1 = p0
	}
	s.markers = []Marker{
		{ID: 0, Angle: 0, IsCenter: true, Color: core.ColorRed, Position: p0},
		{ID: 1, Angle: math.Pi, IsCenter: false, Color: core.ColorBlue, Position: p1},
	}
	s.centerTile = 0
	s.spin = 1
	s.bpm = s.baseBPM
	s.trail = nil
	s.phase = Playing
}

// Step advances the simulation by dtMs milliseconds of wall time. The
// angular velocity is 2*pi radians per beat interval (60000/bpm ms),
// signed by the spin direction. A no-op while Holding.
func (s *Simulator) Step(dtMs float64) StepResult {
	var result StepResult
	if s.phase != Playing {
		return result
	}

	omega := 2 * math.Pi / (60000 / s.bpm)
	center := s.centerMarker()

	for i := range s.markers {
		m := &s.markers[i]
		if m.IsCenter {
			continue
		}
		m.Angle += omega * dtMs * s.spin
		m.Position = center.Position.Add(core.Vec2{
			X: Radius * math.Cos(m.Angle),
			Y: Radius * math.Sin(m.Angle),
		})
		s.pushTrail(m.Position)
	}

	// Crossing detection: a non-center marker close enough to the next
	// tile becomes the new center. A missing next tile is a no-op, not an
	// error.
	nextPos, ok := s.tilePos(s.centerTile + 1)
	if !ok {
		if s.centerTile == s.graph.Len()-1 {
			result.Finished = true
		}
		return result
	}
	for i := range s.markers {
		m := &s.markers[i]
		if m.IsCenter {
			continue
		}
		if m.Position.Dist(nextPos) >= CrossingDistance {
			continue
		}
		s.cross(i)
		result.Crossings = append(result.Crossings, Crossing{MarkerID: m.ID, Tile: s.centerTile})
		break
	}
	return result
}

// tilePos maps a tile position into orbit space. Tiles are unit-spaced in
// track space while neighboring orbit centers sit one radius apart, so the
// simulator works on positions scaled by the radius; otherwise a marker on
// the radius-3 circle could never come within crossing distance of the
// next tile.
func (s *Simulator) tilePos(i int) (core.Vec2, bool) {
	p, ok := s.graph.PositionOf(i)
	return p.Scale(Radius), ok
}

func (s *Simulator) centerMarker() *Marker {
	for i := range s.markers {
		if s.markers[i].IsCenter {
			return &s.markers[i]
		}
	}
	return &s.markers[0]
}

// cross transfers center ownership to marker i, advances the reference
// tile, re-bases every non-center angle from scratch against the new
// center, and then applies the new tile's effects exactly once in the
// fixed order Pause, SetSpeed, Twirl. The full atan2 re-base, rather than
// an incremental delta, keeps floating-point drift from compounding
// across many crossings; it runs before the effects so a pause's angle
// shift survives the transfer.
func (s *Simulator) cross(i int) {
	old := s.centerMarker()
	old.IsCenter = false
	s.markers[i].IsCenter = true
	s.centerTile++

	newCenter := s.centerMarker()
	for k := range s.markers {
		m := &s.markers[k]
		if m.IsCenter {
			continue
		}
		m.Angle = math.Atan2(m.Position.Y-newCenter.Position.Y, m.Position.X-newCenter.Position.X)
	}

	for _, a := range s.graph.ActionsAt(level.KindPause, s.centerTile) {
		if beats, ok := a.PauseBeats(); ok {
			delta := (beats / 2) * 2 * math.Pi * s.spin
			for k := range s.markers {
				if !s.markers[k].IsCenter {
					s.markers[k].Angle += delta
				}
			}
		}
	}
	for _, a := range s.graph.ActionsAt(level.KindSetSpeed, s.centerTile) {
		if change, ok := a.Speed(); ok {
			if change.Multiply {
				s.bpm *= change.Value
			} else {
				s.bpm = change.Value
			}
		}
	}
	if len(s.graph.ActionsAt(level.KindTwirl, s.centerTile)) > 0 {
		s.spin = -s.spin
	}
}

func (s *Simulator) pushTrail(p core.Vec2) {
	s.trail = append(s.trail, p)
	if len(s.trail) > trailCap {
		s.trail = s.trail[len(s.trail)-trailCap:]
	}
}
