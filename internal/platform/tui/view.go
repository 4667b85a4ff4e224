package tui

import (
	"math"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/orbit"
	"github.com/vovakirdan/rail-studio/internal/player"
)

// camera maps world coordinates to screen cells. The vertical scale is
// halved because terminal cells are roughly twice as tall as they are wide.
type camera struct {
	center core.Vec2 // world position shown at the middle of the screen
	zoom   float64   // cells per world unit horizontally
}

func (c camera) project(p core.Vec2, w, h int) (int, int) {
	x := (p.X-c.center.X)*c.zoom + float64(w)/2
	y := float64(h)/2 - (p.Y-c.center.Y)*c.zoom/2
	return int(math.Round(x)), int(math.Round(y))
}

// drawTrack renders the tile layout, motion trail and orbit markers into
// the screen buffer. Everything is drawn in orbit space, where neighboring
// tiles sit one orbit radius apart, so markers line up with the tiles they
// cross onto.
func drawTrack(s *core.Screen, p *player.Player, cam camera) {
	s.Clear()
	w, h := s.Width(), s.Height()

	// Track origin
	ox, oy := cam.project(core.Vec2{}, w, h)
	s.Set(ox, oy, '+', core.ColorGray)

	sim := p.Simulator()
	playing := sim.Phase() == orbit.Playing

	for i, tile := range p.Graph().Tiles() {
		pos := tile.Position.Scale(orbit.Radius)
		x, y := cam.project(pos, w, h)

		r := 'o'
		c := core.ColorWhite
		switch {
		case tile.Midspin:
			r, c = '*', core.ColorMagenta
		case playing && i == sim.CenterTile():
			r, c = '@', core.ColorYellow
		case len(tile.Actions) > 0:
			c = core.ColorCyan
		}
		s.Set(x, y, r, c)
	}

	for _, pos := range sim.Trail() {
		x, y := cam.project(pos, w, h)
		if s.Get(x, y).Rune == ' ' {
			s.Set(x, y, '.', core.ColorGray)
		}
	}

	for _, m := range sim.Markers() {
		x, y := cam.project(m.Position, w, h)
		r := 'O'
		if m.IsCenter {
			r = '#'
		}
		s.Set(x, y, r, m.Color)
	}
}
