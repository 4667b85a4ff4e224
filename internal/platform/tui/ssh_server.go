package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/rail-studio/internal/core"
	"github.com/vovakirdan/rail-studio/internal/player"
	"github.com/vovakirdan/rail-studio/internal/storage"
)

// SSHServerConfig holds configuration for the SSH viewer server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.railstudio/host_key.
	HostKeyPath string

	// DBPath is the path to the history database.
	DBPath string

	// LevelsDir is the directory the picker lists levels from.
	LevelsDir string

	// Viewer carries the defaults for each session's viewer; screen size
	// comes from the session PTY.
	Viewer core.RuntimeConfig

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// LogLevel sets the server logger level ("debug", "info", ...).
	LogLevel string
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.railstudio/history.db",
		LevelsDir:   "levels",
		Viewer:      core.DefaultConfig(),
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server for the level studio.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "railstudio-ssh",
	})
	if cfg.LogLevel != "" {
		if lvl, lvlErr := log.ParseLevel(cfg.LogLevel); lvlErr == nil {
			logger.SetLevel(lvl)
		}
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".railstudio", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := s.config.Viewer
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height

	// Session model handles picker + viewer flow
	model := NewSessionModel(s.store, cfg, s.config.LevelsDir)

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full session flow: picker -> viewer -> picker.
// This is the top-level model used for SSH sessions.
type SessionModel struct {
	store     *storage.Store
	config    core.RuntimeConfig
	levelsDir string
	picker    PickerModel
	viewer    *Model
	loadErr   string
	inViewer  bool
	quitting  bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, levelsDir string) SessionModel {
	return SessionModel{
		store:     store,
		config:    cfg,
		levelsDir: levelsDir,
		picker:    NewPickerModel(levelsDir, store, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	if m.inViewer && m.viewer != nil {
		return m.updateViewer(msg)
	}
	return m.updatePicker(msg)
}

// updatePicker handles updates when in picker mode.
func (m SessionModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	newPicker, cmd := m.picker.Update(msg)
	if pickerModel, ok := newPicker.(PickerModel); ok {
		m.picker = pickerModel
	}

	if m.picker.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if selected := m.picker.Selected(); selected != nil {
		m.config = m.picker.Config()

		p, err := m.openLevel(selected.Path)
		if err != nil {
			m.loadErr = err.Error()
			m.picker = NewPickerModel(m.levelsDir, m.store, m.config)
			return m, m.picker.Init()
		}

		viewer := NewModel(p, m.store, selected.Path, m.config)
		m.viewer = &viewer
		m.inViewer = true
		m.loadErr = ""
		return m, m.viewer.Init()
	}

	return m, cmd
}

// openLevel reads and parses a level file, recording the open in history.
func (m SessionModel) openLevel(path string) (*player.Player, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read level: %w", err)
	}
	p, err := player.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("cannot parse level: %w", err)
	}

	if m.store != nil {
		title, _ := p.Settings().String("song")
		bpm, _ := p.Settings().Float("bpm")
		//nolint:errcheck // Best-effort history record
		m.store.RecordOpen(path, title, p.Graph().Len(), bpm)
	}
	return p, nil
}

// updateViewer handles updates when in viewer mode.
func (m SessionModel) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Esc returns to the picker; the viewer itself has no back action.
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		m.inViewer = false
		m.viewer = nil
		m.picker = NewPickerModel(m.levelsDir, m.store, m.config)
		return m, m.picker.Init()
	}

	newModel, cmd := m.viewer.Update(msg)
	if viewerModel, ok := newModel.(Model); ok {
		m.viewer = &viewerModel
	}

	if m.viewer.quitting {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inViewer && m.viewer != nil {
		return m.viewer.View()
	}

	view := m.picker.View()
	if m.loadErr != "" {
		view += "\n" + centerText("error: "+m.loadErr, m.config.ScreenW) + "\n"
	}
	return view
}
