// Package player ties the parsed level, the tile graph, the mesh cache and
// the orbit simulator into the single query surface the presentation layer
// talks to.
package player

import (
	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/level"
	"github.com/vovakirdan/rail-studio/internal/mesh"
	"github.com/vovakirdan/rail-studio/internal/orbit"
	"github.com/vovakirdan/rail-studio/internal/track"
)

// Player owns one loaded level and everything derived from it. Methods are
// not safe for concurrent use; the platform drives Step from its tick loop
// and reads queries in between.
type Player struct {
	settings   *level.Object
	graph      *track.Graph
	sim        *orbit.Simulator
	meshes     map[int]mesh.Mesh
	resolution int
}

// Load parses raw level text and builds a player for it.
func Load(text string) (*Player, error) {
	lvl, err := level.Parse(text)
	if err != nil {
		return nil, err
	}
	return New(lvl)
}

// New builds a player from an already-parsed level.
func New(lvl *level.Level) (*Player, error) {
	bpm, err := lvl.BPM()
	if err != nil {
		return nil, err
	}
	graph := track.NewGraph(lvl)
	return &Player{
		settings:   lvl.Settings,
		graph:      graph,
		sim:        orbit.NewSimulator(graph, bpm),
		meshes:     make(map[int]mesh.Mesh),
		resolution: mesh.DefaultResolution,
	}, nil
}

// SetResolution changes the chamfer fan resolution for subsequently
// generated meshes and drops the cache.
func (p *Player) SetResolution(res int) {
	p.resolution = res
	p.meshes = make(map[int]mesh.Mesh)
}

// Graph exposes the underlying tile graph.
func (p *Player) Graph() *track.Graph {
	return p.graph
}

// TileAt returns the tile at index i.
func (p *Player) TileAt(i int) (track.Tile, bool) {
	return p.graph.TileAt(i)
}

// ActionsAt returns the actions of the given kind at tile i.
func (p *Player) ActionsAt(kind level.EventKind, i int) []level.Action {
	return p.graph.ActionsAt(kind, i)
}

// PositionOf returns the position of tile i.
func (p *Player) PositionOf(i int) (core.Vec2, bool) {
	return p.graph.PositionOf(i)
}

// MeshOf returns the geometry buffers for tile i, generating them on first
// use and memoizing per tile.
func (p *Player) MeshOf(i int) (mesh.Mesh, bool) {
	if m, ok := p.meshes[i]; ok {
		return m, true
	}
	t, ok := p.graph.TileAt(i)
	if !ok {
		return mesh.Mesh{}, false
	}
	m := mesh.GenerateWithResolution(t.IncomingHeading, t.OutgoingHeading, t.Midspin, p.resolution)
	p.meshes[i] = m
	return m, true
}

// Step advances the simulation by dtMs milliseconds.
func (p *Player) Step(dtMs float64) orbit.StepResult {
	return p.sim.Step(dtMs)
}

// SetPlayback switches the simulator between Holding and Playing.
func (p *Player) SetPlayback(phase orbit.Phase) {
	p.sim.SetPlayback(phase)
}

// Phase returns the simulator phase.
func (p *Player) Phase() orbit.Phase {
	return p.sim.Phase()
}

// Markers returns the live orbit markers.
func (p *Player) Markers() []orbit.Marker {
	return p.sim.Markers()
}

// Simulator exposes the underlying simulator for status display.
func (p *Player) Simulator() *orbit.Simulator {
	return p.sim
}

// InsertFloor inserts a tile before index i and replays the recurrence.
// Any running playback stops, since every tile may have moved.
func (p *Player) InsertFloor(i int, heading float64) error {
	if err := p.graph.InsertFloor(i, heading); err != nil {
		return err
	}
	p.afterEdit()
	return nil
}

// AppendFloor appends a tile and replays the recurrence.
func (p *Player) AppendFloor(heading float64) {
	p.graph.AppendFloor(heading)
	p.afterEdit()
}

// DeleteFloor removes the tile at index i and replays the recurrence.
func (p *Player) DeleteFloor(i int) error {
	if err := p.graph.DeleteFloor(i); err != nil {
		return err
	}
	p.afterEdit()
	return nil
}

func (p *Player) afterEdit() {
	p.sim.SetPlayback(orbit.Holding)
	p.meshes = make(map[int]mesh.Mesh)
}

// Export serializes the current level state back to text.
func (p *Player) Export() string {
	return level.Export(p.graph.Level(p.settings))
}

// Settings returns the level's settings object.
func (p *Player) Settings() *level.Object {
	return p.settings
}
