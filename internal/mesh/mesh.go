// Package mesh synthesizes the flat-colored outlined polygon for a single
// tile from its pair of adjacent headings. Generation is a pure function of
// (incoming, outgoing, midspin); the outline effect comes from double
// layering, a black outer shape under a white inner shape shrunk by twice
// the outline thickness, rather than from any blending.
package mesh

import (
	"math"

	"github.com/vovakirdan/rail-studio/internal/core"
)

// Tuning constants. These are load-bearing for visual and numeric
// compatibility with existing levels and must not drift.
const (
	RailHalfWidth = 0.275
	RailLength    = 0.5
	Outline       = 0.025

	// Midspin marker proportions.
	midspinSize = 0.2
	midspinBack = 0.25

	// DefaultResolution is the chamfer fan segment count.
	DefaultResolution = 12
)

// Mesh holds flattened geometry buffers: vertex positions as x,y,z triples,
// faces as index triples, and per-vertex colors as r,g,b triples.
type Mesh struct {
	Vertices []float64
	Faces    []int
	Colors   []float64
}

// rgb is a flat per-vertex color.
type rgb struct {
	r, g, b float64
}

var (
	outlineBlack = rgb{0, 0, 0}
	innerWhite   = rgb{1, 1, 1}
)

// Generate builds the tile polygon for the given heading pair using the
// default fan resolution.
func Generate(incoming, outgoing float64, midspin bool) Mesh {
	return GenerateWithResolution(incoming, outgoing, midspin, DefaultResolution)
}

// GenerateWithResolution is Generate with an explicit chamfer fan
// resolution (number of arc segments, minimum 1).
func GenerateWithResolution(incoming, outgoing float64, midspin bool, resolution int) Mesh {
	if resolution < 1 {
		resolution = 1
	}
	b := &builder{}
	if midspin {
		b.midspinMarker(incoming)
		return b.m
	}
	b.railTile(incoming, outgoing, resolution)
	return b.m
}

type builder struct {
	m Mesh
}

// vertex appends a vertex with its color and returns its index.
func (b *builder) vertex(p core.Vec2, c rgb) int {
	idx := len(b.m.Vertices) / 3
	b.m.Vertices = append(b.m.Vertices, p.X, p.Y, 0)
	b.m.Colors = append(b.m.Colors, c.r, c.g, c.b)
	return idx
}

func (b *builder) tri(i, j, k int) {
	b.m.Faces = append(b.m.Faces, i, j, k)
}

// fan emits a triangle fan: center plus the perimeter points in order.
// The caller closes the perimeter by repeating the first point if needed.
func (b *builder) fan(center core.Vec2, perim []core.Vec2, c rgb) {
	ci := b.vertex(center, c)
	prev := b.vertex(perim[0], c)
	for _, p := range perim[1:] {
		cur := b.vertex(p, c)
		b.tri(ci, prev, cur)
		prev = cur
	}
}

// quad emits a quadrilateral p0-p1-p2-p3 as two triangles with consistent
// winding.
func (b *builder) quad(p0, p1, p2, p3 core.Vec2, c rgb) {
	i0 := b.vertex(p0, c)
	i1 := b.vertex(p1, c)
	i2 := b.vertex(p2, c)
	i3 := b.vertex(p3, c)
	b.tri(i0, i1, i2)
	b.tri(i0, i2, i3)
}

// midspinMarker emits the degenerate-tile marker: a small arrowhead
// pointing along the incoming heading, offset slightly backward from the
// tile origin. Two nested layers: the outer inflated by the outline
// thickness, the inner shrunk by twice that.
func (b *builder) midspinMarker(incoming float64) {
	u := core.Heading(incoming)
	v := u.Perp()
	origin := u.Scale(-midspinBack)

	b.fan(origin, markerOutline(origin, u, v, midspinSize+Outline), outlineBlack)
	b.fan(origin, markerOutline(origin, u, v, midspinSize-Outline), innerWhite)
}

// markerOutline returns the closed arrowhead perimeter for a marker of the
// given half-size, built from the heading's cosine/sine components.
func markerOutline(origin, u, v core.Vec2, s float64) []core.Vec2 {
	side := 0.8 * s
	tip := origin.Add(u.Scale(s))
	right := origin.Add(v.Scale(side))
	backRight := origin.Sub(u.Scale(s)).Add(v.Scale(side))
	backLeft := origin.Sub(u.Scale(s)).Sub(v.Scale(side))
	left := origin.Sub(v.Scale(side))
	return []core.Vec2{tip, right, backRight, backLeft, left, tip}
}

// railTile emits a regular tile: two rail end caps extruded along the
// headings, joined at the origin by either a chamfered fan plus bridging
// hex (curved family) or a plain wedge (wide family). Each shape is built
// twice, black then white.
func (b *builder) railTile(incoming, outgoing float64, resolution int) {
	a0 := core.Mod360(incoming)
	a1 := core.Mod360(outgoing)

	// Normalize so the swept angle is the smaller circular difference.
	delta := core.Mod360(a1 - a0)
	if delta > 180 {
		a0, a1 = a1, a0
		delta = 360 - delta
	}

	if delta <= 120 {
		scale := radiusScale(delta)
		b.curvedLayer(a0, a1, RailHalfWidth, RailLength, RailHalfWidth*scale, resolution, outlineBlack)
		b.curvedLayer(a0, a1, RailHalfWidth-2*Outline, RailLength-2*Outline,
			math.Max(RailHalfWidth*scale-2*Outline, 0), resolution, innerWhite)
		return
	}

	b.wideLayer(a0, a1, RailHalfWidth, RailLength, outlineBlack)
	b.wideLayer(a0, a1, RailHalfWidth-2*Outline, RailLength-2*Outline, innerWhite)
}

// radiusScale is the chamfer radius interpolation over the swept angle, a
// piecewise fit against five breakpoints. Values outside (0, 120] clamp to
// the nearest segment.
func radiusScale(delta float64) float64 {
	switch {
	case delta < 5:
		return 1
	case delta < 30:
		t := (delta - 5) / 25
		return core.Lerp(1, 0.83, math.Sqrt(t))
	case delta < 45:
		t := (delta - 30) / 15
		return core.Lerp(0.83, 0.77, t)
	case delta < 90:
		t := (delta - 45) / 45
		return core.Lerp(0.77, 0.15, math.Pow(t, 0.7))
	case delta < 120:
		t := (delta - 90) / 30
		return core.Lerp(0.15, 0, math.Sqrt(t))
	default:
		return 0
	}
}

// curvedLayer emits one color layer of the curved family: chamfer fan,
// bridging hex, then the end-cap pair.
//
// The two rail rectangles cover the angular sectors a0±90 and a1±90 around
// the origin; the gap between them spans 180-delta degrees on the convex
// side of the turn. The fan rounds that gap at the chamfer radius and the
// hex bridges the fan arc out to the rectangle corners.
func (b *builder) curvedLayer(a0, a1, halfW, length, radius float64, resolution int, c rgb) {
	gapFrom := a1 + 90
	gapTo := a0 + 270

	// Chamfer fan across the gap.
	perim := make([]core.Vec2, 0, resolution+1)
	for i := 0; i <= resolution; i++ {
		ang := core.Lerp(gapFrom, gapTo, float64(i)/float64(resolution))
		perim = append(perim, core.Heading(ang).Scale(radius))
	}
	b.fan(core.Vec2{}, perim, c)

	// Bridging hex between the fan arc and the two rectangle corners.
	gapMid := (gapFrom + gapTo) / 2
	c0 := core.Heading(a0 - 90).Scale(halfW)
	c1 := core.Heading(a1 + 90).Scale(halfW)
	h := core.Heading(gapMid).Scale(halfW)
	arc0 := core.Heading(gapTo).Scale(radius)
	arc1 := core.Heading(gapFrom).Scale(radius)
	g := core.Heading(gapMid).Scale(radius)
	b.hex(c0, h, c1, arc1, g, arc0, c)

	b.endCaps(a0, a1, halfW, length, c)
}

// hex emits a six-vertex bridge polygon as four triangles.
func (b *builder) hex(p0, p1, p2, p3, p4, p5 core.Vec2, c rgb) {
	i0 := b.vertex(p0, c)
	i1 := b.vertex(p1, c)
	i2 := b.vertex(p2, c)
	i3 := b.vertex(p3, c)
	i4 := b.vertex(p4, c)
	i5 := b.vertex(p5, c)
	b.tri(i0, i1, i5)
	b.tri(i1, i4, i5)
	b.tri(i1, i2, i4)
	b.tri(i2, i3, i4)
}

// wideLayer emits one color layer of the wide family: the chamfer fan is
// omitted and a single wedge joins the two heading rays directly.
func (b *builder) wideLayer(a0, a1, halfW, length float64, c rgb) {
	gapMid := (a1 + 90 + a0 + 270) / 2
	c0 := core.Heading(a0 - 90).Scale(halfW)
	c1 := core.Heading(a1 + 90).Scale(halfW)
	h := core.Heading(gapMid).Scale(halfW)
	b.quad(core.Vec2{}, c0, h, c1, c)

	b.endCaps(a0, a1, halfW, length, c)
}

// endCaps emits the rectangular rail pair, one extruded along each heading
// from the origin out to the rail length.
func (b *builder) endCaps(a0, a1, halfW, length float64, c rgb) {
	for _, a := range [2]float64{a0, a1} {
		d := core.Heading(a)
		n := d.Perp().Scale(halfW)
		base0 := n.Scale(-1)
		base1 := n
		far1 := d.Scale(length).Add(n)
		far0 := d.Scale(length).Sub(n)
		b.quad(base0, base1, far1, far0, c)
	}
}
