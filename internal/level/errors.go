package level

// ParseError reports level text that could not be salvaged: broken syntax
// after repair, or a document missing required top-level keys. A load that
// fails with a ParseError is rejected outright, never retried.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "level: " + e.Reason
}
