package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thinkfast/internal/screens/screentest"
)

func sized(t *testing.T, m AppModel) AppModel {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(AppModel)
}

func TestAppModel_StartsOnSetup(t *testing.T) {
	f := screentest.New(t, true)
	m := sized(t, NewAppModel(Options{Machine: f.Machine}))

	if got := m.router.Active().Title(); got != "Setup" {
		t.Errorf("active = %q, want Setup", got)
	}
	view := m.render()
	if !strings.Contains(view, "Pick your topics") {
		t.Error("expected setup content")
	}
	if !strings.Contains(view, "Quit") {
		t.Error("expected footer hints")
	}
}

func TestAppModel_HeaderShowsSessionAverage(t *testing.T) {
	f := screentest.New(t, false, screentest.Report(6, "C"))
	m := f.Machine
	if err := m.Start(); err != nil {
		t.Fatal(err)
	}
	f.Clock.Advance(10 * time.Second)
	if err := m.SetExplanation("short answer"); err != nil {
		t.Fatal(err)
	}
	if err := m.Submit(); err != nil {
		t.Fatal(err)
	}
	if err := m.Score(context.Background()); err != nil {
		t.Fatal(err)
	}

	model := NewAppModel(Options{Machine: m})
	if got := model.status(); got != "Scored 1 · avg 6.0" {
		t.Errorf("status = %q", got)
	}
}

func TestAppModel_EnterPushesPractice(t *testing.T) {
	f := screentest.New(t, true)
	m := sized(t, NewAppModel(Options{Machine: f.Machine}))

	next, cmd := m.Update(screentest.Special(tea.KeyEnter))
	m = next.(AppModel)
	for _, msg := range screentest.Drain(cmd) {
		next, _ = m.Update(msg)
		m = next.(AppModel)
	}

	if got := m.router.Active().Title(); got != "Practice" {
		t.Errorf("active = %q, want Practice", got)
	}
	if m.router.Depth() != 2 {
		t.Errorf("depth = %d, want 2", m.router.Depth())
	}
}

func TestAppModel_CtrlCQuits(t *testing.T) {
	f := screentest.New(t, true)
	m := NewAppModel(Options{Machine: f.Machine})

	_, cmd := m.Update(screentest.Ctrl('c'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected QuitMsg")
	}
}
