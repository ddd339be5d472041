package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/screens/history"
	"github.com/abhisek/thinkfast/internal/screens/practice"
	"github.com/abhisek/thinkfast/internal/screens/results"
	"github.com/abhisek/thinkfast/internal/screens/settings"
	"github.com/abhisek/thinkfast/internal/screens/setup"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/layout"
)

// Options configures the interactive program.
type Options struct {
	Machine *session.Machine

	// NewScorer builds a scoring client from a key typed in settings.
	// Nil hides the option.
	NewScorer func(apiKey string) (*scoring.Client, error)

	// SaveSettings persists topics, timer and audience. Nil hides the option.
	SaveSettings func(m *session.Machine) error

	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	machine *session.Machine
	logger  *zap.Logger
	width   int
	height  int
}

// screens builds every screen with its navigation wired to the others.
type screens struct {
	opts Options
}

func (s screens) setup() screen.Screen {
	return setup.New(s.opts.Machine, setup.Navigator{
		Practice: s.practice,
		History:  s.history,
		Settings: s.settings,
	})
}

func (s screens) practice() screen.Screen {
	return practice.New(s.opts.Machine, practice.Navigator{
		Results:  s.results,
		Settings: s.settings,
	})
}

func (s screens) results() screen.Screen {
	return results.New(s.opts.Machine, results.Navigator{
		Practice: s.practice,
		History:  s.history,
	})
}

func (s screens) history() screen.Screen {
	return history.New(s.opts.Machine.History())
}

func (s screens) settings() screen.Screen {
	return settings.New(s.opts.Machine, settings.Options{
		OnAPIKey: s.opts.NewScorer,
		Save:     s.opts.SaveSettings,
	})
}

// NewAppModel creates the root model with the setup screen.
func NewAppModel(opts Options) AppModel {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return AppModel{
		router:  router.New(screens{opts: opts}.setup()),
		machine: opts.Machine,
		logger:  logger,
	}
}

func (m AppModel) Init() tea.Cmd {
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.logger.Info("quit", zap.Int("scored", m.machine.History().Len()))
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

// status summarizes the session for the header.
func (m AppModel) status() string {
	h := m.machine.History()
	if h.Len() == 0 {
		return ""
	}
	return fmt.Sprintf("Scored %d · avg %.1f", h.Len(), h.Average())
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render lays out the header, the active screen and the footer.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if p, ok := active.(screen.KeyHintProvider); ok {
			hints = p.KeyHints()
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, m.status(), m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	if opts.Machine == nil {
		return fmt.Errorf("app: no session machine")
	}
	p := tea.NewProgram(NewAppModel(opts))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
