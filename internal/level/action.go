package level

// EventKind is the closed enumeration of action kinds the viewer core
// understands. Anything else rides along untouched as KindOther and is
// preserved on export.
type EventKind int

const (
	KindOther EventKind = iota
	KindTwirl
	KindSetSpeed
	KindPause
	KindPositionTrack
)

// eventTags maps the on-disk eventType tag to its kind.
var eventTags = map[string]EventKind{
	"Twirl":         KindTwirl,
	"SetSpeed":      KindSetSpeed,
	"Pause":         KindPause,
	"PositionTrack": KindPositionTrack,
}

// KindOf resolves an eventType tag to a kind, KindOther for unknown tags.
func KindOf(tag string) EventKind {
	if k, ok := eventTags[tag]; ok {
		return k
	}
	return KindOther
}

// String returns the canonical eventType tag for known kinds.
func (k EventKind) String() string {
	switch k {
	case KindTwirl:
		return "Twirl"
	case KindSetSpeed:
		return "SetSpeed"
	case KindPause:
		return "Pause"
	case KindPositionTrack:
		return "PositionTrack"
	default:
		return "Other"
	}
}

// KindSet is a set-based filter over event kinds.
type KindSet map[EventKind]struct{}

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...EventKind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether the set contains k.
func (s KindSet) Has(k EventKind) bool {
	_, ok := s[k]
	return ok
}

// Action is one gameplay event. Inside a tile the floor index is implicit
// from containment; the flat on-disk form carries it explicitly (see
// FlatAction). Fields holds the event-specific payload with the floor and
// eventType keys stripped, original key order preserved.
type Action struct {
	Kind   EventKind
	Tag    string
	Fields *Object
}

// FlatAction is the on-disk form of an action: the action plus the tile
// index it applies to.
type FlatAction struct {
	Floor int
	Action
}

// Decoration is a visual attachment to a tile. The core never interprets
// its payload; it is carried through parse, edit and export untouched.
type Decoration struct {
	Tag    string
	Fields *Object
}

// FlatDecoration is the on-disk form of a decoration.
type FlatDecoration struct {
	Floor int
	Decoration
}

// SpeedChange is the decoded payload of a SetSpeed action.
type SpeedChange struct {
	Multiply bool    // true: scale the current tempo; false: replace it
	Value    float64 // multiplier or absolute BPM, per Multiply
}

// Speed decodes a SetSpeed payload. The speedType field selects the mode;
// a missing speedType defaults to an absolute BPM, matching files written
// before the multiplier mode existed.
func (a Action) Speed() (SpeedChange, bool) {
	if a.Kind != KindSetSpeed {
		return SpeedChange{}, false
	}
	mode, _ := a.Fields.String("speedType")
	if mode == "Multiplier" {
		v, ok := a.Fields.Float("bpmMultiplier")
		return SpeedChange{Multiply: true, Value: v}, ok
	}
	v, ok := a.Fields.Float("beatsPerMinute")
	return SpeedChange{Multiply: false, Value: v}, ok
}

// PauseBeats decodes the duration of a Pause payload, in beats.
func (a Action) PauseBeats() (float64, bool) {
	if a.Kind != KindPause {
		return 0, false
	}
	return a.Fields.Float("duration")
}

// TrackOffset decodes a PositionTrack payload: the 2D offset and whether
// the action is flagged editor-only (editor-only offsets do not move the
// cursor during the position pass).
func (a Action) TrackOffset() (x, y float64, editorOnly bool, ok bool) {
	if a.Kind != KindPositionTrack {
		return 0, 0, false, false
	}
	x, y, ok = a.Fields.FloatPair("positionOffset")
	editorOnly, _ = a.Fields.Bool("editorOnly")
	return x, y, editorOnly, ok
}
