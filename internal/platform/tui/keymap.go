package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rail-studio/internal/core"
)

// KeyMapper translates Bubble Tea key messages to viewer actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a viewer action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case " ":
		return core.ActionTogglePlay, false
	case "s":
		return core.ActionStop, false
	case "left", "h":
		return core.ActionPanLeft, false
	case "right", "l":
		return core.ActionPanRight, false
	case "up", "k":
		return core.ActionPanUp, false
	case "down", "j":
		return core.ActionPanDown, false
	case "+", "=":
		return core.ActionZoomIn, false
	case "-", "_":
		return core.ActionZoomOut, false
	case "f":
		return core.ActionFollow, false
	case "m":
		return core.ActionDumpMesh, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

