// Package practice is the timed writing screen. It drives the session
// machine through practicing and submitted, and runs the scoring call.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/thinkfast/internal/llm"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/session"
	"github.com/abhisek/thinkfast/internal/ui/components"
	"github.com/abhisek/thinkfast/internal/ui/layout"
	"github.com/abhisek/thinkfast/internal/ui/theme"
)

// ScoreTimeout bounds a single scoring call made from the UI.
const ScoreTimeout = 2 * time.Minute

// Navigator builds the screens reachable from practice.
type Navigator struct {
	Results  func() screen.Screen
	Settings func() screen.Screen
}

// PracticeScreen shows the prompt, the countdown and the editor.
type PracticeScreen struct {
	machine   *session.Machine
	nav       Navigator
	attemptID string
	tickSeq   int
	editor    components.TextArea
	spinner   spinner.Model
	errMsg    string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.InputCapturer = (*PracticeScreen)(nil)
var _ screen.Refresher = (*PracticeScreen)(nil)

// New creates a practice screen for the machine's current attempt. The
// machine must already be practicing.
func New(m *session.Machine, nav Navigator) *PracticeScreen {
	s := &PracticeScreen{
		machine: m,
		nav:     nav,
		editor:  components.NewTextArea("Start explaining...", 60, 8),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary))),
	}
	if a := m.Attempt(); a != nil {
		s.attemptID = a.ID
	}
	return s
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.editor.Init(), s.tickCmd())
}

// Refresh restarts the countdown ticks after a screen pushed on top of
// this one is popped. The clock itself never stopped.
func (s *PracticeScreen) Refresh() tea.Cmd {
	if s.machine.Phase() != session.PhasePracticing {
		return nil
	}
	return s.tickCmd()
}

func (s *PracticeScreen) Title() string {
	return "Practice"
}

// CapturingInput reports whether keystrokes go to the editor.
func (s *PracticeScreen) CapturingInput() bool {
	return s.machine.Phase() == session.PhasePracticing && !s.machine.InputLocked()
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.machine.Scoring():
		return []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	case s.machine.Phase() == session.PhaseSubmitted:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry scoring"},
			{Key: "Esc", Description: "Discard attempt"},
			{Key: "Ctrl+O", Description: "Settings"},
		}
	case s.machine.InputLocked():
		return []layout.KeyHint{{Key: "Esc", Description: "Back to setup"}}
	default:
		return []layout.KeyHint{
			{Key: "Ctrl+S", Description: "Submit"},
			{Key: "Esc", Description: "Cancel"},
			{Key: "Ctrl+O", Description: "Settings"},
		}
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		return s.handleTick(msg)

	case scoredMsg:
		return s.handleScored(msg)

	case spinner.TickMsg:
		if !s.machine.Scoring() {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.CapturingInput() {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		s.syncExplanation()
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+o" && !s.machine.Scoring() && s.nav.Settings != nil {
		next := s.nav.Settings()
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	switch s.machine.Phase() {
	case session.PhasePracticing:
		switch key {
		case "esc":
			return s.cancel()
		case "ctrl+s":
			return s.submit()
		}
		if s.machine.InputLocked() {
			return s, nil
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		s.syncExplanation()
		return s, cmd

	case session.PhaseSubmitted:
		if s.machine.Scoring() {
			return s, nil
		}
		switch key {
		case "r":
			return s, s.beginScoring()
		case "esc":
			return s.cancel()
		}
	}
	return s, nil
}

func (s *PracticeScreen) syncExplanation() {
	if err := s.machine.SetExplanation(s.editor.Value()); err != nil && errors.Is(err, session.ErrInputLocked) {
		s.editor.Lock()
	}
}

func (s *PracticeScreen) submit() (screen.Screen, tea.Cmd) {
	s.syncExplanation()
	if err := s.machine.Submit(); err != nil {
		s.errMsg = describe(err)
		return s, nil
	}
	s.errMsg = ""
	s.editor.Lock()
	return s, s.beginScoring()
}

func (s *PracticeScreen) cancel() (screen.Screen, tea.Cmd) {
	if err := s.machine.Cancel(); err != nil {
		s.errMsg = describe(err)
		return s, nil
	}
	return s, func() tea.Msg { return router.PopScreenMsg{} }
}

func (s *PracticeScreen) handleTick(msg timerTickMsg) (screen.Screen, tea.Cmd) {
	if msg.attemptID != s.attemptID || msg.seq != s.tickSeq || s.machine.Phase() != session.PhasePracticing {
		return s, nil
	}
	if err := s.machine.Tick(); err != nil {
		return s, nil
	}
	switch {
	case s.machine.Phase() == session.PhaseSubmitted:
		s.editor.Lock()
		return s, s.beginScoring()
	case s.machine.InputLocked():
		s.editor.Lock()
		return s, nil
	}
	return s, s.tickCmd()
}

// beginScoring marks the call in flight and runs it off the update loop.
func (s *PracticeScreen) beginScoring() tea.Cmd {
	in, err := s.machine.BeginScoring()
	if err != nil {
		s.errMsg = describe(err)
		return nil
	}
	s.errMsg = ""
	scorer := s.machine.Scorer()
	id := s.attemptID
	score := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), ScoreTimeout)
		defer cancel()
		res, err := scorer.Score(ctx, in)
		return scoredMsg{attemptID: id, result: res, err: err}
	}
	return tea.Batch(score, s.spinner.Tick)
}

func (s *PracticeScreen) handleScored(msg scoredMsg) (screen.Screen, tea.Cmd) {
	if msg.attemptID != s.attemptID {
		return s, nil
	}
	if err := s.machine.CompleteScoring(msg.result, msg.err); err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	if s.machine.Phase() != session.PhaseScored {
		s.errMsg = describe(s.machine.LastError())
		return s, nil
	}
	if s.nav.Results == nil {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := s.nav.Results()
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *PracticeScreen) tickCmd() tea.Cmd {
	s.tickSeq++
	id, seq := s.attemptID, s.tickSeq
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return timerTickMsg{attemptID: id, seq: seq}
	})
}

// describe turns machine and scoring errors into user-facing text.
func describe(err error) string {
	var se *scoring.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrBlankExplanation):
		return "Write something before submitting."
	case errors.Is(err, session.ErrNoCredential), errors.Is(err, scoring.ErrMissingCredential):
		return "No API key configured. Press Ctrl+O to add one in settings."
	case errors.As(err, &se) && se.Kind == scoring.KindTransport:
		if wait, ok := llm.RetryAfter(err); ok {
			return fmt.Sprintf("Rate limited by the provider. Press R to retry in about %s.", wait)
		}
		return "Scoring failed, press R to retry. " + se.Error()
	case errors.As(err, &se) && se.Kind == scoring.KindMalformedResponse:
		return "The scoring service returned an unreadable response. Press R to try again."
	default:
		return err.Error()
	}
}
