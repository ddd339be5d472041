package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/llm"
	"github.com/abhisek/thinkfast/internal/promptgen"
	"github.com/abhisek/thinkfast/internal/scoring"
)

const testCatalogYAML = `
timers:
  default: 60
  options:
    - {label: "30 seconds", seconds: 30}
    - {label: "60 seconds", seconds: 60}
personas:
  - a curious teenager
templates:
  - "[{topic}] Explain {concept} to {audience}."
topics:
  - name: Databases
    concepts: [sharding]
  - name: Python
    concepts: [decorators]
`

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func report(score int, grade string) llm.MockResponse {
	body := fmt.Sprintf(`Here is my assessment:
{
  "clarity": {"score": %[1]d, "feedback": "ok"},
  "accuracy": {"score": %[1]d, "feedback": "ok"},
  "structure": {"score": %[1]d, "feedback": "ok"},
  "completeness": {"score": %[1]d, "feedback": "ok"},
  "conciseness": {"score": %[1]d, "feedback": "ok"},
  "overall": {"score": %[1]d, "grade": %[2]q, "summary": "fine", "strengths": ["a"], "improvements": ["b"]},
  "model_explanation": "Sharding splits a dataset across several servers."
}`, score, grade)
	return llm.MockResponse{Content: json.RawMessage(body)}
}

type fixture struct {
	m     *Machine
	clock *fakeClock
	mock  *llm.MockProvider
}

func newFixture(t *testing.T, mutate func(*Options), responses ...llm.MockResponse) *fixture {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogYAML))
	require.NoError(t, err)

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mock := llm.NewMockProvider(responses...)
	opts := Options{
		Catalog:   cat,
		Generator: promptgen.NewSeeded(promptgen.ConfigFromCatalog(cat), 7),
		Scorer:    scoring.New(mock, scoring.DefaultConfig(), nil),
		Now:       clock.Now,
		Topics:    []string{"Databases"},
	}
	if mutate != nil {
		mutate(&opts)
	}
	m, err := New(opts)
	require.NoError(t, err)
	return &fixture{m: m, clock: clock, mock: mock}
}

func TestEndToEnd_ScoredAttemptLandsInHistory(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Timer = 30 }, report(7, "B"))
	m := f.m

	require.Equal(t, PhaseSetup, m.Phase())
	require.NoError(t, m.Start())
	require.Equal(t, PhasePracticing, m.Phase())

	a := m.Attempt()
	require.NotNil(t, a)
	assert.Equal(t, "Databases", a.Topic)
	assert.Equal(t, "sharding", a.Concept)
	assert.Equal(t, "[Databases] Explain sharding to a curious teenager.", a.Prompt)
	assert.Equal(t, 30, a.TimerDuration)

	f.clock.Advance(10 * time.Second)
	require.NoError(t, m.SetExplanation("Sharding splits data across nodes."))
	require.NoError(t, m.Submit())
	require.Equal(t, PhaseSubmitted, m.Phase())
	assert.Equal(t, 10, m.Attempt().TimeUsed)

	require.NoError(t, m.Score(context.Background()))
	require.Equal(t, PhaseScored, m.Phase())
	assert.Equal(t, 7, m.Result().Overall.Score)
	assert.Equal(t, "B", m.Result().Overall.Grade)

	entries := m.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 7, entries[0].Score())
	assert.Equal(t, "Sharding splits data across nodes.", entries[0].Attempt.Explanation)
	assert.Equal(t, 10, entries[0].Attempt.TimeUsed)
	assert.Equal(t, f.clock.Now(), entries[0].RecordedAt)
	assert.Equal(t, 1, f.mock.CallCount())
}

func TestResult_MutationDoesNotReachHistory(t *testing.T) {
	f := newFixture(t, nil, report(7, "B"))
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("Sharding splits data across nodes."))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Score(context.Background()))

	res := m.Result()
	res.Overall.Strengths[0] = "rewritten"
	res.Overall.Score = 1

	assert.Equal(t, []string{"a"}, m.Result().Overall.Strengths)
	assert.Equal(t, 7, m.Result().Overall.Score)
	entries := m.History().Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"a"}, entries[0].Result.Overall.Strengths)
	assert.Equal(t, 7, entries[0].Score())
}

func TestRemaining_DerivedFromStartTime(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	require.NoError(t, m.Start())
	assert.Equal(t, 60*time.Second, m.Remaining())

	f.clock.Advance(10*time.Second + 500*time.Millisecond)
	assert.Equal(t, 49*time.Second+500*time.Millisecond, m.Remaining())

	// A late poll sees the true remaining time, never a negative value.
	f.clock.Advance(51 * time.Second)
	assert.Equal(t, time.Duration(0), m.Remaining())
}

func TestTick_TimeoutSubmitsNonBlank(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("partial thoughts"))

	f.clock.Advance(59 * time.Second)
	require.NoError(t, m.Tick())
	assert.Equal(t, PhasePracticing, m.Phase())

	f.clock.Advance(2 * time.Second)
	require.NoError(t, m.Tick())
	assert.Equal(t, PhaseSubmitted, m.Phase())
	assert.Equal(t, 60, m.Attempt().TimeUsed)
}

func TestTick_TimeoutOnBlankLocksInput(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("   "))

	f.clock.Advance(61 * time.Second)
	require.NoError(t, m.Tick())
	assert.Equal(t, PhasePracticing, m.Phase())
	assert.True(t, m.InputLocked())

	assert.ErrorIs(t, m.SetExplanation("too late"), ErrInputLocked)
	assert.ErrorIs(t, m.Submit(), ErrBlankExplanation)

	require.NoError(t, m.Cancel())
	assert.Equal(t, PhaseSetup, m.Phase())
	assert.False(t, m.InputLocked())
	assert.Nil(t, m.Attempt())
	assert.Equal(t, 0, m.History().Len())
}

func TestSubmit_BlankRejected(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation(" \n\t "))

	assert.ErrorIs(t, m.Submit(), ErrBlankExplanation)
	assert.Equal(t, PhasePracticing, m.Phase())
}

func TestSubmit_TimeUsedClamped(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("late but typed"))

	// No tick observed the expiry before submit.
	f.clock.Advance(75 * time.Second)
	require.NoError(t, m.Submit())
	assert.Equal(t, 60, m.Attempt().TimeUsed)
}

func TestStart_RequiresTopics(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Topics = nil })
	m := f.m

	err := m.Start()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoTopics)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, PhaseSetup, m.Phase())
}

func TestCancel_NeverRecorded(t *testing.T) {
	f := newFixture(t, nil, report(8, "A-"))
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("something"))
	require.NoError(t, m.Cancel())
	assert.Equal(t, PhaseSetup, m.Phase())
	assert.Equal(t, 0, m.History().Len())
	assert.Equal(t, 0, f.mock.CallCount())
}

func TestScoringFailure_StaysSubmitted(t *testing.T) {
	f := newFixture(t, nil,
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("connection reset")}},
		report(6, "C"),
	)
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("an explanation"))
	require.NoError(t, m.Submit())

	err := m.Score(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrTransport)
	assert.Equal(t, PhaseSubmitted, m.Phase())
	assert.ErrorIs(t, m.LastError(), scoring.ErrTransport)
	assert.Equal(t, 0, m.History().Len())
	assert.False(t, m.Scoring())

	// Manual retry of the same attempt succeeds.
	require.NoError(t, m.Score(context.Background()))
	assert.Equal(t, PhaseScored, m.Phase())
	assert.Nil(t, m.LastError())
	assert.Equal(t, 1, m.History().Len())
}

func TestScoringFailure_CancelDiscards(t *testing.T) {
	f := newFixture(t, nil, llm.MockResponse{Content: json.RawMessage("not json")})
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("an explanation"))
	require.NoError(t, m.Submit())

	assert.ErrorIs(t, m.Score(context.Background()), scoring.ErrMalformedResponse)
	require.NoError(t, m.Cancel())
	assert.Equal(t, PhaseSetup, m.Phase())
	assert.Equal(t, 0, m.History().Len())
}

func TestNoCredential(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Scorer = nil })
	m := f.m
	assert.False(t, m.ScoringEnabled())

	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("typed anyway"))
	err := m.Submit()
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.True(t, IsConfigurationError(err))
	assert.Equal(t, PhasePracticing, m.Phase())

	// Expiry still submits; scoring then reports the missing key.
	f.clock.Advance(60 * time.Second)
	require.NoError(t, m.Tick())
	require.Equal(t, PhaseSubmitted, m.Phase())
	assert.ErrorIs(t, m.Score(context.Background()), scoring.ErrMissingCredential)
	assert.Equal(t, PhaseSubmitted, m.Phase())

	// Entering a key makes the same attempt scoreable.
	m.SetScorer(scoring.New(llm.NewMockProvider(report(5, "C")), scoring.DefaultConfig(), nil))
	assert.True(t, m.ScoringEnabled())
	require.NoError(t, m.Score(context.Background()))
	assert.Equal(t, PhaseScored, m.Phase())
}

func TestRetryAndNewTopic(t *testing.T) {
	f := newFixture(t, nil, report(7, "B"), report(9, "A"))
	m := f.m
	require.NoError(t, m.Start())
	first := m.Attempt()
	require.NoError(t, m.SetExplanation("first"))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Score(context.Background()))

	require.NoError(t, m.Retry())
	assert.Equal(t, PhasePracticing, m.Phase())
	second := m.Attempt()
	assert.Equal(t, first.Topic, second.Topic)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Empty(t, second.Explanation)
	assert.Nil(t, m.Result())

	require.NoError(t, m.SetExplanation("second"))
	require.NoError(t, m.Submit())
	require.NoError(t, m.Score(context.Background()))
	require.NoError(t, m.NewTopic())
	assert.Equal(t, PhaseSetup, m.Phase())
	assert.Nil(t, m.Attempt())

	recent := m.History().Recent(0)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Attempt.Explanation)
	assert.Equal(t, "first", recent[1].Attempt.Explanation)
}

func TestIllegalTransitions(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m

	ops := map[string]func() error{
		"submit":   m.Submit,
		"tick":     m.Tick,
		"retry":    m.Retry,
		"newtopic": m.NewTopic,
		"cancel":   m.Cancel,
		"edit":     func() error { return m.SetExplanation("x") },
		"score":    func() error { return m.Score(context.Background()) },
	}
	for name, op := range ops {
		err := op()
		var te *TransitionError
		require.True(t, errors.As(err, &te), "%s: got %v", name, err)
		assert.Equal(t, PhaseSetup, te.From, name)
		assert.Equal(t, PhaseSetup, m.Phase(), name)
	}

	require.NoError(t, m.Start())
	var te *TransitionError
	assert.True(t, errors.As(m.Start(), &te))
	assert.True(t, errors.As(m.Retry(), &te))
	assert.Equal(t, PhasePracticing, m.Phase())
}

func TestSingleFlight(t *testing.T) {
	f := newFixture(t, nil, report(7, "B"))
	m := f.m
	require.NoError(t, m.Start())
	require.NoError(t, m.SetExplanation("text"))
	require.NoError(t, m.Submit())

	var te *TransitionError
	assert.True(t, errors.As(m.CompleteScoring(nil, nil), &te))

	in, err := m.BeginScoring()
	require.NoError(t, err)
	assert.Equal(t, "text", in.Explanation)
	assert.True(t, m.Scoring())

	_, err = m.BeginScoring()
	assert.ErrorIs(t, err, ErrScoringInFlight)
	assert.ErrorIs(t, m.Cancel(), ErrScoringInFlight)
	assert.ErrorIs(t, m.Score(context.Background()), ErrScoringInFlight)

	res, err := m.Scorer().Score(context.Background(), in)
	require.NoError(t, err)
	require.NoError(t, m.CompleteScoring(res, nil))
	assert.False(t, m.Scoring())
	assert.Equal(t, PhaseScored, m.Phase())
}

func TestCustomTopicsAndConcepts(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Topics = nil })
	m := f.m

	require.NoError(t, m.AddCustomTopic("  Rust "))
	require.NoError(t, m.AddCustomTopic("Rust"))
	require.NoError(t, m.AddCustomTopic("Python")) // preset, ignored
	assert.Equal(t, []string{"Rust"}, m.Overlay().Topics)
	assert.Equal(t, []string{"Rust"}, m.ActiveTopics())

	require.NoError(t, m.Start())
	assert.Equal(t, "Rust", m.Attempt().Topic)
	assert.Equal(t, promptgen.PlaceholderConcept("Rust"), m.Attempt().Concept)
	require.NoError(t, m.Cancel())

	require.NoError(t, m.AddCustomConcept("Rust", "ownership"))
	require.NoError(t, m.Start())
	assert.Equal(t, "ownership", m.Attempt().Concept)
	require.NoError(t, m.Cancel())

	assert.ErrorIs(t, m.AddCustomConcept("Haskell", "monads"), ErrUnknownTopic)
	assert.ErrorIs(t, m.AddCustomTopic("   "), ErrEmptyName)

	assert.True(t, m.RemoveCustomConcept("Rust", "ownership"))
	assert.False(t, m.RemoveCustomConcept("Rust", "ownership"))
	assert.False(t, m.RemoveCustomConcept("Databases", "sharding"))
}

func TestTopicSelection(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.Topics = []string{"Databases", "Nope"} })
	m := f.m
	assert.Equal(t, []string{"Databases"}, m.SelectedTopics())

	on, err := m.ToggleTopic("Python")
	require.NoError(t, err)
	assert.True(t, on)
	on, err = m.ToggleTopic("Databases")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"Python"}, m.SelectedTopics())

	_, err = m.ToggleTopic("Nope")
	assert.ErrorIs(t, err, ErrUnknownTopic)
	assert.ErrorIs(t, m.SelectTopics([]string{"Nope"}), ErrUnknownTopic)
	assert.Equal(t, []string{"Python"}, m.SelectedTopics())

	require.NoError(t, m.SelectTopics(nil))
	assert.ErrorIs(t, m.Start(), ErrNoTopics)
}

func TestSettings_TimerAndPersona(t *testing.T) {
	f := newFixture(t, nil)
	m := f.m
	assert.Equal(t, 60, m.Timer())

	assert.ErrorIs(t, m.SetTimer(45), ErrInvalidTimer)
	assert.Equal(t, 60, m.Timer())
	require.NoError(t, m.SetTimer(30))

	assert.Equal(t, "a pirate captain", m.SetPersona("a pirate <captain>!!"))
	require.NoError(t, m.Start())
	a := m.Attempt()
	assert.Equal(t, 30, a.TimerDuration)
	assert.Equal(t, "a pirate captain", a.Audience)
	assert.True(t, a.CustomAudience)

	_, err := New(Options{Timer: 45})
	assert.ErrorIs(t, err, ErrInvalidTimer)
}
