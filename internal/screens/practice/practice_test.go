package practice

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thinkfast/internal/llm"
	"github.com/abhisek/thinkfast/internal/router"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/screen"
	"github.com/abhisek/thinkfast/internal/screens/screentest"
	"github.com/abhisek/thinkfast/internal/session"
)

type stubScreen struct{ title string }

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return s.title }
func (s *stubScreen) Title() string                           { return s.title }

func startPractice(t *testing.T, f *screentest.Fixture) *PracticeScreen {
	t.Helper()
	if err := f.Machine.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	s := New(f.Machine, Navigator{
		Results:  func() screen.Screen { return &stubScreen{title: "Results"} },
		Settings: func() screen.Screen { return &stubScreen{title: "Settings"} },
	})
	s.Init()
	return s
}

func typeText(s *PracticeScreen, text string) {
	for _, r := range text {
		s.Update(screentest.Key(r))
	}
}

func scored(t *testing.T, cmd tea.Cmd) scoredMsg {
	t.Helper()
	for _, msg := range screentest.Drain(cmd) {
		if m, ok := msg.(scoredMsg); ok {
			return m
		}
	}
	t.Fatal("expected a scoredMsg")
	return scoredMsg{}
}

func TestPractice_TypingUpdatesAttempt(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)

	typeText(s, "Shards split data")

	if got := f.Machine.Attempt().Explanation; got != "Shards split data" {
		t.Errorf("explanation = %q", got)
	}
	if f.Machine.WordCount() != 3 {
		t.Errorf("word count = %d, want 3", f.Machine.WordCount())
	}
	if !s.CapturingInput() {
		t.Error("expected editor to capture input")
	}
	view := s.View(100, 30)
	if !strings.Contains(view, "[Databases] Explain sharding to a curious teenager.") {
		t.Errorf("prompt missing from view: %q", view)
	}
	if !strings.Contains(view, "3 words") {
		t.Error("word count missing from view")
	}
}

func TestPractice_SubmitScoresAndShowsResults(t *testing.T) {
	f := screentest.New(t, false, screentest.Report(8, "A-"))
	s := startPractice(t, f)
	typeText(s, "Sharding splits rows across servers.")
	f.Clock.Advance(12 * time.Second)

	_, cmd := s.Update(screentest.Ctrl('s'))
	if f.Machine.Phase() != session.PhaseSubmitted || !f.Machine.Scoring() {
		t.Fatalf("phase = %v scoring = %v", f.Machine.Phase(), f.Machine.Scoring())
	}
	if f.Machine.Attempt().TimeUsed != 12 {
		t.Errorf("time used = %d, want 12", f.Machine.Attempt().TimeUsed)
	}
	if !strings.Contains(s.View(100, 30), "Scoring your explanation") {
		t.Error("expected spinner status while scoring")
	}

	_, cmd = s.Update(scored(t, cmd))
	if f.Machine.Phase() != session.PhaseScored {
		t.Fatalf("phase = %v, want scored", f.Machine.Phase())
	}
	if f.Machine.History().Len() != 1 {
		t.Errorf("history len = %d, want 1", f.Machine.History().Len())
	}
	msg := cmd()
	replace, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if replace.Screen.Title() != "Results" {
		t.Errorf("replacement = %q", replace.Screen.Title())
	}
}

func TestPractice_BlankSubmitRejected(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)
	typeText(s, "   ")

	s.Update(screentest.Ctrl('s'))

	if f.Machine.Phase() != session.PhasePracticing {
		t.Errorf("phase = %v, want practicing", f.Machine.Phase())
	}
	if !strings.Contains(s.errMsg, "Write something") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestPractice_NoCredential(t *testing.T) {
	f := screentest.New(t, true)
	s := startPractice(t, f)
	typeText(s, "text")

	s.Update(screentest.Ctrl('s'))

	if f.Machine.Phase() != session.PhasePracticing {
		t.Errorf("phase = %v, want practicing", f.Machine.Phase())
	}
	if !strings.Contains(s.errMsg, "No API key") {
		t.Errorf("errMsg = %q", s.errMsg)
	}
}

func TestPractice_TimeoutSubmitsNonBlank(t *testing.T) {
	f := screentest.New(t, false, screentest.Report(6, "C"))
	s := startPractice(t, f)
	typeText(s, "partial answer")
	f.Clock.Advance(61 * time.Second)

	_, cmd := s.Update(timerTickMsg{attemptID: s.attemptID, seq: s.tickSeq})

	if f.Machine.Phase() != session.PhaseSubmitted {
		t.Fatalf("phase = %v, want submitted", f.Machine.Phase())
	}
	if f.Machine.Attempt().TimeUsed != 60 {
		t.Errorf("time used = %d, want 60", f.Machine.Attempt().TimeUsed)
	}
	if !s.editor.Locked() {
		t.Error("expected editor locked after timeout")
	}
	s.Update(scored(t, cmd))
	if f.Machine.Phase() != session.PhaseScored {
		t.Errorf("phase = %v, want scored", f.Machine.Phase())
	}
}

func TestPractice_TimeoutOnBlankLocksInput(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)
	f.Clock.Advance(61 * time.Second)

	_, cmd := s.Update(timerTickMsg{attemptID: s.attemptID, seq: s.tickSeq})
	if cmd != nil {
		t.Error("expected ticking to stop once locked")
	}
	if !f.Machine.InputLocked() || s.CapturingInput() {
		t.Fatal("expected input locked")
	}

	typeText(s, "late")
	if f.Machine.Attempt().Explanation != "" {
		t.Error("locked attempt accepted text")
	}

	_, cmd = s.Update(screentest.Special(tea.KeyEscape))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected pop after cancel")
	}
	if f.Machine.Phase() != session.PhaseSetup {
		t.Errorf("phase = %v, want setup", f.Machine.Phase())
	}
}

func TestPractice_StaleTicksIgnored(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)
	f.Clock.Advance(61 * time.Second)

	s.Update(timerTickMsg{attemptID: "other", seq: s.tickSeq})
	s.Update(timerTickMsg{attemptID: s.attemptID, seq: s.tickSeq - 1})

	if f.Machine.InputLocked() {
		t.Error("stale tick should not reach the machine")
	}
}

func TestPractice_ScoringFailureThenRetry(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)
	typeText(s, "an explanation")

	_, cmd := s.Update(screentest.Ctrl('s'))
	s.Update(scored(t, cmd))

	if f.Machine.Phase() != session.PhaseSubmitted || f.Machine.LastError() == nil {
		t.Fatalf("expected submitted with error, phase = %v", f.Machine.Phase())
	}
	if !strings.Contains(s.errMsg, "press R") {
		t.Errorf("errMsg = %q", s.errMsg)
	}

	f.Mock.AddResponse(screentest.Report(9, "A"))
	_, cmd = s.Update(screentest.Key('r'))
	s.Update(scored(t, cmd))

	if f.Machine.Phase() != session.PhaseScored {
		t.Errorf("phase = %v, want scored", f.Machine.Phase())
	}
	if f.Machine.Result().Overall.Score != 9 {
		t.Errorf("score = %d, want 9", f.Machine.Result().Overall.Score)
	}
}

func TestPractice_SettingsRestartsTicks(t *testing.T) {
	f := screentest.New(t, false)
	s := startPractice(t, f)
	before := s.tickSeq

	_, cmd := s.Update(screentest.Ctrl('o'))
	push, ok := cmd().(router.PushScreenMsg)
	if !ok || push.Screen.Title() != "Settings" {
		t.Fatalf("expected push of settings, got %#v", push)
	}

	if s.Refresh() == nil || s.tickSeq != before+1 {
		t.Errorf("expected a new tick chain, seq %d -> %d", before, s.tickSeq)
	}
}

func TestDescribe_RateLimitShowsWait(t *testing.T) {
	err := &scoring.Error{Kind: scoring.KindTransport, Err: &llm.ErrRateLimit{RetryAfter: 20 * time.Second, Err: errors.New("429")}}
	if got := describe(err); !strings.Contains(got, "retry in about 20s") {
		t.Errorf("describe = %q, want the provider's wait", got)
	}

	err = &scoring.Error{Kind: scoring.KindTransport, Err: &llm.ErrRateLimit{Err: errors.New("429")}}
	if got := describe(err); !strings.HasPrefix(got, "Scoring failed, press R to retry.") {
		t.Errorf("describe = %q, want the generic retry message", got)
	}
}
