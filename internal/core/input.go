package core

// Action is a semantic viewer action, abstracted from physical key presses.
type Action int

const (
	ActionNone       Action = iota
	ActionTogglePlay        // Space - switch between Holding and Playing
	ActionStop              // S - back to Holding, discard simulation state
	ActionPanLeft           // Left/h - pan the camera
	ActionPanRight          // Right/l
	ActionPanUp             // Up/k
	ActionPanDown           // Down/j
	ActionZoomIn            // + - zoom the track view in
	ActionZoomOut           // - - zoom out
	ActionFollow            // F - toggle following the center marker
	ActionDumpMesh          // M - write the current tile's mesh to a file
	ActionQuit              // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionTogglePlay:
		return "TogglePlay"
	case ActionStop:
		return "Stop"
	case ActionPanLeft:
		return "PanLeft"
	case ActionPanRight:
		return "PanRight"
	case ActionPanUp:
		return "PanUp"
	case ActionPanDown:
		return "PanDown"
	case ActionZoomIn:
		return "ZoomIn"
	case ActionZoomOut:
		return "ZoomOut"
	case ActionFollow:
		return "Follow"
	case ActionDumpMesh:
		return "DumpMesh"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{Actions: make(map[Action]bool)}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
