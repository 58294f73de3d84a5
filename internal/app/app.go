package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cglprep/blitz/internal/games"
	"github.com/cglprep/blitz/internal/router"
	"github.com/cglprep/blitz/internal/screen"
	"github.com/cglprep/blitz/internal/screens/home"
	sessionscreen "github.com/cglprep/blitz/internal/screens/session"
	"github.com/cglprep/blitz/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Home home.Config
	// Start, when set, opens this game straight away.
	Start *games.Game
	// LogPath receives log output while the TUI owns the terminal.
	// Empty uses DefaultLogPath.
	LogPath string
}

type headerMsg struct {
	streak, played int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	opts   Options
	router *router.Router
	width  int
	height int
	streak int
	played int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	return AppModel{
		opts:   opts,
		router: router.New(home.New(opts.Home)),
	}
}

func (m AppModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.router.Active().Init(), m.loadHeader()}
	if m.opts.Start != nil {
		g, play := *m.opts.Start, m.opts.Home.Play
		cmds = append(cmds, func() tea.Msg {
			return router.PushScreenMsg{Screen: sessionscreen.New(g, play)}
		})
	}
	return tea.Batch(cmds...)
}

// loadHeader fetches the streak and games-played counters.
func (m AppModel) loadHeader() tea.Cmd {
	svc, user := m.opts.Home.Scores, m.opts.Home.UserID
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		st, err := svc.Stats(context.Background(), user)
		if err != nil {
			log.Printf("app: header stats: %v", err)
			return nil
		}
		return headerMsg{streak: st.Streak, played: st.TotalGames}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case headerMsg:
		m.streak, m.played = msg.streak, msg.played
		return m, nil

	case router.PopScreenMsg, router.PopToRootMsg, router.ReplaceScreenMsg:
		cmd := m.router.Update(msg)
		return m, tea.Batch(cmd, m.loadHeader())

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.streak, m.played, m.width)

	var footerHints []layout.KeyHint
	if kh, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kh.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// DefaultLogPath is $XDG_STATE_HOME/blitz/blitz.log, falling back to
// ~/.local/state.
func DefaultLogPath() string {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "blitz.log"
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "blitz", "blitz.log")
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	path := opts.LogPath
	if path == "" {
		path = DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
		if f, err := tea.LogToFile(path, "blitz"); err == nil {
			defer f.Close()
		}
	}

	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
