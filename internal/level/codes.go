package level

import "fmt"

// MidspinHeading is the sentinel heading value for a midspin tile. A midspin
// tile has no direction of its own and inherits the previous tile's heading
// during the graph build.
const MidspinHeading = 999

// Reserved path codes decode to out-of-range sentinel headings that this
// viewer does not support. They are rejected at parse time.
var reservedCodes = map[rune]float64{
	'5': 555,
	'6': 666,
	'7': 777,
	'8': 888,
}

// pathCodes maps a single path-code character to a heading in degrees.
// Headings are quantized to multiples of 15 in [0, 345]; '!' marks a midspin.
var pathCodes = map[rune]float64{
	'R': 0,
	'p': 15,
	'J': 30,
	'E': 45,
	'T': 60,
	'o': 75,
	'U': 90,
	'q': 105,
	'G': 120,
	'Q': 135,
	'H': 150,
	'W': 165,
	'L': 180,
	'x': 195,
	'N': 210,
	'Z': 225,
	'F': 240,
	'V': 255,
	'D': 270,
	'Y': 285,
	'B': 300,
	'C': 315,
	'M': 330,
	'A': 345,
	'!': MidspinHeading,
}

// headingCodes is the reverse of pathCodes, used when re-encoding a heading
// array back into compact path-code form.
var headingCodes = func() map[float64]rune {
	m := make(map[float64]rune, len(pathCodes))
	for r, deg := range pathCodes {
		m[deg] = r
	}
	return m
}()

// DecodePathData converts a path-code string into a heading array.
// Reserved codes (5, 6, 7, 8) and unknown characters are rejected.
func DecodePathData(s string) ([]float64, error) {
	headings := make([]float64, 0, len(s))
	for i, r := range s {
		if deg, ok := pathCodes[r]; ok {
			headings = append(headings, deg)
			continue
		}
		if _, ok := reservedCodes[r]; ok {
			return nil, &ParseError{Reason: fmt.Sprintf("reserved path code %q at offset %d is not supported", r, i)}
		}
		return nil, &ParseError{Reason: fmt.Sprintf("unknown path code %q at offset %d", r, i)}
	}
	return headings, nil
}

// EncodePathData converts a heading array back into a path-code string.
// Returns false if any heading has no single-character code.
func EncodePathData(headings []float64) (string, bool) {
	out := make([]rune, 0, len(headings))
	for _, deg := range headings {
		r, ok := headingCodes[deg]
		if !ok {
			return "", false
		}
		out = append(out, r)
	}
	return string(out), true
}
