// Package screentest builds session machines and key events for screen
// tests.
package screentest

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/llm"
	"github.com/abhisek/thinkfast/internal/promptgen"
	"github.com/abhisek/thinkfast/internal/scoring"
	"github.com/abhisek/thinkfast/internal/session"
)

// CatalogYAML is a two-topic catalog with a single persona and template,
// so generated prompts are predictable.
const CatalogYAML = `
timers:
  default: 60
  options:
    - {label: "30 seconds", seconds: 30}
    - {label: "60 seconds", seconds: 60}
    - {label: "2 minutes", seconds: 120}
personas:
  - a curious teenager
templates:
  - "[{topic}] Explain {concept} to {audience}."
topics:
  - name: Databases
    category: Technology
    concepts: [sharding]
  - name: Python
    category: Technology
    concepts: [decorators]
`

// Clock is a manually advanced time source.
type Clock struct {
	T time.Time
}

func (c *Clock) Now() time.Time          { return c.T }
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Fixture bundles a machine with its clock and mock provider.
type Fixture struct {
	Machine *session.Machine
	Clock   *Clock
	Mock    *llm.MockProvider
}

// New builds a machine with Databases selected. When noScorer is true
// the machine has no credential.
func New(t *testing.T, noScorer bool, responses ...llm.MockResponse) *Fixture {
	t.Helper()
	cat, err := catalog.Parse([]byte(CatalogYAML))
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}

	clock := &Clock{T: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mock := llm.NewMockProvider(responses...)
	opts := session.Options{
		Catalog:   cat,
		Generator: promptgen.NewSeeded(promptgen.ConfigFromCatalog(cat), 1),
		Now:       clock.Now,
		Topics:    []string{"Databases"},
	}
	if !noScorer {
		opts.Scorer = scoring.New(mock, scoring.DefaultConfig(), nil)
	}
	m, err := session.New(opts)
	if err != nil {
		t.Fatalf("new machine: %v", err)
	}
	return &Fixture{Machine: m, Clock: clock, Mock: mock}
}

// Report is a canned score report where every dimension has score.
func Report(score int, grade string) llm.MockResponse {
	body := fmt.Sprintf(`{
  "clarity": {"score": %[1]d, "feedback": "clear enough"},
  "accuracy": {"score": %[1]d, "feedback": "mostly right"},
  "structure": {"score": %[1]d, "feedback": "logical"},
  "completeness": {"score": %[1]d, "feedback": "covers basics"},
  "conciseness": {"score": %[1]d, "feedback": "tight"},
  "overall": {"score": %[1]d, "grade": %[2]q, "summary": "Solid start.", "strengths": ["good analogy"], "improvements": ["define terms"]},
  "model_explanation": "Sharding splits one dataset across several servers."
}`, score, grade)
	return llm.MockResponse{Content: json.RawMessage(body)}
}

// Key is a printable key press.
func Key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

// Special is a non-printable key press such as tea.KeyEnter.
func Special(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// Ctrl is a ctrl+<r> chord.
func Ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

// Drain runs cmd and flattens batches, returning every message produced.
// Tick commands block for their interval, so callers should only drain
// commands they know are immediate.
func Drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, Drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}
