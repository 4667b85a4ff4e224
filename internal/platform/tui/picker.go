package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/storage"
)

// PickerItem represents a selectable level file.
type PickerItem struct {
	Path  string
	Title string
}

// pickerKeyMap defines the picker key bindings.
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("down/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "open"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// PickerModel is the Bubble Tea model for the level picker.
type PickerModel struct {
	items    []PickerItem
	cursor   int
	width    int
	height   int
	config   core.RuntimeConfig
	keys     pickerKeyMap
	quitting bool
	selected *PickerItem // Set when user selects a level
}

// listLevelFiles collects the level files under dir. Recently opened levels
// from the store sort first, the rest alphabetically.
func listLevelFiles(dir string, store *storage.Store) []PickerItem {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	recentRank := map[string]int{}
	if store != nil {
		if recent, err := store.RecentLevels(50); err == nil {
			for i, e := range recent {
				recentRank[e.Path] = i
			}
		}
	}

	var items []PickerItem
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".adofai" && ext != ".json" {
			continue
		}
		items = append(items, PickerItem{
			Path:  filepath.Join(dir, e.Name()),
			Title: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
		})
	}

	sort.Slice(items, func(i, j int) bool {
		ri, iRecent := recentRank[items[i].Path]
		rj, jRecent := recentRank[items[j].Path]
		switch {
		case iRecent && jRecent:
			return ri < rj
		case iRecent != jRecent:
			return iRecent
		default:
			return items[i].Title < items[j].Title
		}
	})
	return items
}

// NewPickerModel creates a picker over the levels directory.
func NewPickerModel(levelsDir string, store *storage.Store, cfg core.RuntimeConfig) PickerModel {
	return PickerModel{
		items:  listLevelFiles(levelsDir, store),
		cursor: 0,
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
		keys:   newPickerKeyMap(),
	}
}

// Init initializes the picker model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the picker.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for picker navigation.
func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Select):
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit picker to open the level
		}
	}

	return m, nil
}

// View renders the picker.
func (m PickerModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("R A I L   S T U D I O", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a level", m.width))
	b.WriteString("\n\n")

	if len(m.items) == 0 {
		b.WriteString(centerText("no level files found", m.width))
		b.WriteString("\n")
	}

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, item.Title), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var parts []string
	for _, bind := range []key.Binding{m.keys.Up, m.keys.Down, m.keys.Select, m.keys.Quit} {
		h := bind.Help()
		parts = append(parts, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	b.WriteString(centerText(strings.Join(parts, "  |  "), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected item, or nil if none selected.
func (m PickerModel) Selected() *PickerItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m PickerModel) IsQuitting() bool {
	return m.quitting
}

// Config returns the current runtime config (may have been updated by resize).
func (m PickerModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// PickerResult holds the result of running the picker.
type PickerResult struct {
	Path   string
	Config core.RuntimeConfig
	Quit   bool
}

// RunPicker runs the picker and returns the selection result.
func RunPicker(levelsDir string, store *storage.Store, cfg core.RuntimeConfig) (PickerResult, error) {
	model := NewPickerModel(levelsDir, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return PickerResult{Config: cfg}, err
	}

	m, ok := finalModel.(PickerModel)
	if !ok {
		return PickerResult{Config: cfg, Quit: true}, nil
	}

	result := PickerResult{Config: m.Config()}
	if m.Selected() != nil {
		result.Path = m.Selected().Path
	} else {
		result.Quit = true
	}
	return result, nil
}
