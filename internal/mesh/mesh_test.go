package mesh

import (
	"math"
	"reflect"
	"testing"
)

// checkBuffers verifies the flat-buffer shape invariants every generated
// mesh must satisfy.
func checkBuffers(t *testing.T, m Mesh) {
	t.Helper()
	if len(m.Vertices) != len(m.Colors) {
		t.Errorf("vertices/colors length mismatch: %d vs %d", len(m.Vertices), len(m.Colors))
	}
	if len(m.Vertices)%3 != 0 {
		t.Errorf("vertex buffer length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Faces)%3 != 0 {
		t.Errorf("face buffer length %d is not a multiple of 3", len(m.Faces))
	}
	vertexCount := len(m.Vertices) / 3
	for i, idx := range m.Faces {
		if idx < 0 || idx >= vertexCount {
			t.Errorf("face index %d at position %d out of range [0,%d)", idx, i, vertexCount)
		}
	}
}

func TestBufferInvariants(t *testing.T) {
	tests := []struct {
		name     string
		incoming float64
		outgoing float64
		midspin  bool
	}{
		{"straight", 0, -180, false},
		{"right angle", 90, -180, false},
		{"shallow turn", 0, 170, false},
		{"hairpin", 0, 15, false},
		{"midspin", 0, 0, true},
		{"odd headings", 12.5, 200.25, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := Generate(tc.incoming, tc.outgoing, tc.midspin)
			checkBuffers(t, m)
			if len(m.Faces) == 0 {
				t.Error("generated mesh has no faces")
			}
		})
	}
}

func TestMidspinMarkerShape(t *testing.T) {
	m := Generate(0, 0, true)
	checkBuffers(t, m)

	// Two nested 7-vertex fans: outer black, inner white.
	if got := len(m.Vertices) / 3; got != 14 {
		t.Errorf("midspin marker has %d vertices, expected 14", got)
	}
	if got := len(m.Faces) / 3; got != 10 {
		t.Errorf("midspin marker has %d triangles, expected 10", got)
	}

	// First layer is the black outline, second the white inset.
	if m.Colors[0] != 0 || m.Colors[1] != 0 || m.Colors[2] != 0 {
		t.Errorf("outer layer color = %v, expected black", m.Colors[:3])
	}
	last := len(m.Colors) - 3
	if m.Colors[last] != 1 || m.Colors[last+1] != 1 || m.Colors[last+2] != 1 {
		t.Errorf("inner layer color = %v, expected white", m.Colors[last:])
	}

	// The marker sits offset backward along the incoming heading: every
	// vertex x stays behind the tile origin plus the marker extent.
	for i := 0; i < len(m.Vertices); i += 3 {
		if m.Vertices[i] > midspinSize+Outline {
			t.Errorf("vertex x=%v extends past the marker envelope", m.Vertices[i])
		}
	}
}

func TestFamilySelection(t *testing.T) {
	// A right-angle turn keeps the chamfer fan; a straight tile drops it
	// for the wedge, so the curved mesh carries strictly more geometry.
	curved := Generate(90, -180, false)
	wide := Generate(0, -180, false)
	checkBuffers(t, curved)
	checkBuffers(t, wide)

	if len(curved.Faces) <= len(wide.Faces) {
		t.Errorf("curved family (%d indices) should out-triangulate wide family (%d)",
			len(curved.Faces), len(wide.Faces))
	}

	wantWide := 12 * 2 // two layers: wedge quad + two end caps
	if got := len(wide.Vertices) / 3; got != wantWide {
		t.Errorf("wide mesh has %d vertices, expected %d", got, wantWide)
	}
}

func TestResolutionScalesFan(t *testing.T) {
	low := GenerateWithResolution(90, -180, false, 4)
	high := GenerateWithResolution(90, -180, false, 32)
	checkBuffers(t, low)
	checkBuffers(t, high)

	if len(high.Faces)-len(low.Faces) != (32-4)*2*3 {
		t.Errorf("fan resolution delta wrong: low=%d high=%d indices", len(low.Faces), len(high.Faces))
	}
}

func TestHeadingOrderIrrelevant(t *testing.T) {
	// The swept angle is normalized, so swapping the headings yields the
	// same amount of geometry.
	a := Generate(30, 150, false)
	b := Generate(150, 30, false)
	if len(a.Vertices) != len(b.Vertices) || len(a.Faces) != len(b.Faces) {
		t.Error("swapping incoming/outgoing changed the mesh size")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(45, 170, false)
	b := Generate(45, 170, false)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different meshes")
	}
}

func TestRadiusScaleBreakpoints(t *testing.T) {
	tests := []struct {
		delta    float64
		expected float64
	}{
		{0, 1},
		{4.9, 1},
		{5, 1},
		{30, 0.83},
		{45, 0.77},
		{90, 0.15},
		{120, 0},
		{180, 0},
	}
	for _, tc := range tests {
		if got := radiusScale(tc.delta); math.Abs(got-tc.expected) > 1e-9 {
			t.Errorf("radiusScale(%v) = %v, expected %v", tc.delta, got, tc.expected)
		}
	}
}

func TestRadiusScaleMonotone(t *testing.T) {
	// The chamfer tightens continuously as the turn sharpens.
	prev := radiusScale(0)
	for d := 0.5; d <= 120; d += 0.5 {
		cur := radiusScale(d)
		if cur > prev+1e-9 {
			t.Fatalf("radiusScale not monotone at delta=%v: %v > %v", d, cur, prev)
		}
		prev = cur
	}
}
