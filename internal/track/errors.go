package track

import "fmt"

// StructuralError reports a floor operation referencing an index outside
// the current tile range. Surfaced to the caller, never retried.
type StructuralError struct {
	Op    string
	Index int
	Len   int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("track: %s: floor %d out of range (have %d tiles)", e.Op, e.Index, e.Len)
}
