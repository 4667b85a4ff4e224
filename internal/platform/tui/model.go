package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/orbit"
	"github.com/vovakirdan/rail-studio/internal/player"
	"github.com/vovakirdan/rail-studio/internal/storage"
)

var (
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("236"))
	statusNoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Background(lipgloss.Color("236"))
)

// Model is the Bubble Tea model for the interactive track viewer.
type Model struct {
	player     *player.Player
	screen     *core.Screen
	store      *storage.Store
	levelPath  string
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	keyMapper  *KeyMapper

	cam    camera
	follow bool

	lastTick  time.Time
	playedMs  float64
	crossings int
	finished  bool

	note     string
	quitting bool
}

// NewModel creates a viewer model for an already-loaded level. The bottom
// screen row is reserved for the status bar.
func NewModel(p *player.Player, store *storage.Store, levelPath string, cfg core.RuntimeConfig) Model {
	p.SetResolution(cfg.MeshResolution)
	return Model{
		player:     p,
		screen:     core.NewScreen(cfg.ScreenW, core.Max(cfg.ScreenH-1, 1)),
		store:      store,
		levelPath:  levelPath,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		keyMapper:  NewKeyMapper(),
		cam:        camera{zoom: cfg.Zoom},
		follow:     cfg.FollowCamera,
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keyMapper.MapKeyToFrame(msg, &m.inputFrame) {
		m.recordSession()
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, core.Max(msg.Height-1, 1))
	return m, nil
}

// handleTick advances the simulation by the real time elapsed since the
// previous tick and applies the frame's input.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	dtMs := 1000.0 / float64(m.config.TickRate)
	if !m.lastTick.IsZero() {
		dtMs = float64(now.Sub(m.lastTick)) / float64(time.Millisecond)
	}
	// A stalled terminal must not turn into one giant simulation jump.
	dtMs = core.ClampF(dtMs, 0, 250)
	m.lastTick = now

	m.applyInput()
	m.inputFrame.Clear()

	if m.player.Phase() == orbit.Playing {
		result := m.player.Step(dtMs)
		m.playedMs += dtMs
		m.crossings += len(result.Crossings)
		if result.Finished {
			m.finished = true
		}
		if m.follow {
			for _, mk := range m.player.Markers() {
				if mk.IsCenter {
					m.cam.center = mk.Position
				}
			}
		}
	}

	return m, tickCmd(m.config.TickRate)
}

func (m *Model) applyInput() {
	panStep := 4.0 / m.cam.zoom

	if m.inputFrame.Has(core.ActionTogglePlay) {
		if m.player.Phase() == orbit.Playing {
			m.player.SetPlayback(orbit.Holding)
		} else {
			m.playedMs = 0
			m.crossings = 0
			m.finished = false
			m.player.SetPlayback(orbit.Playing)
		}
	}
	if m.inputFrame.Has(core.ActionStop) {
		m.recordSession()
		m.player.SetPlayback(orbit.Holding)
	}
	if m.inputFrame.Has(core.ActionPanLeft) {
		m.cam.center.X -= panStep
	}
	if m.inputFrame.Has(core.ActionPanRight) {
		m.cam.center.X += panStep
	}
	if m.inputFrame.Has(core.ActionPanUp) {
		m.cam.center.Y += panStep
	}
	if m.inputFrame.Has(core.ActionPanDown) {
		m.cam.center.Y -= panStep
	}
	if m.inputFrame.Has(core.ActionZoomIn) {
		m.cam.zoom = core.ClampF(m.cam.zoom*1.25, 0.25, 16)
	}
	if m.inputFrame.Has(core.ActionZoomOut) {
		m.cam.zoom = core.ClampF(m.cam.zoom/1.25, 0.25, 16)
	}
	if m.inputFrame.Has(core.ActionFollow) {
		m.follow = !m.follow
	}
	if m.inputFrame.Has(core.ActionDumpMesh) {
		m.dumpMesh()
	}
}

// dumpMesh writes the current reference tile's geometry buffers to a JSON
// file in the working directory.
func (m *Model) dumpMesh() {
	tile := m.player.Simulator().CenterTile()
	mesh, ok := m.player.MeshOf(tile)
	if !ok {
		m.note = "no tile to dump"
		return
	}

	data, err := json.MarshalIndent(struct {
		Vertices []float64 `json:"vertices"`
		Faces    []int     `json:"faces"`
		Colors   []float64 `json:"colors"`
	}{mesh.Vertices, mesh.Faces, mesh.Colors}, "", "  ")
	if err != nil {
		m.note = "mesh encode failed"
		return
	}

	path := fmt.Sprintf("mesh_tile_%d.json", tile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		m.note = "mesh write failed"
		return
	}
	m.note = "wrote " + path
}

// recordSession persists the playback outcome. Best effort; viewing works
// without a database.
func (m *Model) recordSession() {
	if m.store == nil || m.playedMs <= 0 {
		return
	}
	//nolint:errcheck // Best-effort save, the viewer continues regardless
	m.store.RecordSession(m.levelPath, int(m.playedMs), m.crossings, m.finished)
	m.playedMs = 0
	m.crossings = 0
}

// statusBar renders the single-line status footer.
func (m Model) statusBar() string {
	sim := m.player.Simulator()

	phase := "holding"
	if sim.Phase() == orbit.Playing {
		phase = "playing"
	}
	spin := "cw"
	if sim.SpinDirection() < 0 {
		spin = "ccw"
	}
	follow := "off"
	if m.follow {
		follow = "on"
	}

	left := fmt.Sprintf(" %s | bpm %.0f | spin %s | tile %d/%d | zoom %.2f | follow %s ",
		phase, sim.BPM(), spin, sim.CenterTile(), m.player.Graph().Len(), m.cam.zoom, follow)
	if m.note != "" {
		return statusStyle.Render(left) + statusNoteStyle.Render(" "+m.note+" ")
	}
	return statusStyle.Render(left)
}

// View renders the track view plus the status bar.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	drawTrack(m.screen, m.player, m.cam)
	return RenderScreen(m.screen) + "\n" + m.statusBar()
}

// Run starts the Bubble Tea program with the given model.
func Run(p *player.Player, store *storage.Store, levelPath string, cfg core.RuntimeConfig) error {
	model := NewModel(p, store, levelPath, cfg)

	prog := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := prog.Run()
	return err
}
