// Package session drives one user's practice loop: pick a topic, write an
// explanation against the clock, get it scored, repeat.
package session

import (
	"context"
	"errors"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/thinkfast/internal/attempt"
	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/history"
	"github.com/abhisek/thinkfast/internal/promptgen"
	"github.com/abhisek/thinkfast/internal/scoring"
)

// Options configures a Machine. Zero values fall back to defaults.
type Options struct {
	Catalog   *catalog.Catalog
	Overlay   catalog.Overlay
	Generator *promptgen.Generator
	Scorer    *scoring.Client
	Now       func() time.Time
	Logger    *zap.Logger

	// Timer is the countdown length in seconds; 0 uses the catalog default.
	Timer int

	// Topics are the initially selected preset topics. Unknown names are
	// dropped.
	Topics []string

	// Persona is the raw custom audience text.
	Persona string
}

// Machine is the session state machine. It is owned by a single session
// and is not safe for concurrent use.
type Machine struct {
	base    *catalog.Catalog
	overlay catalog.Overlay
	gen     *promptgen.Generator
	scorer  *scoring.Client
	now     func() time.Time
	logger  *zap.Logger

	selected []string
	persona  string
	timer    int

	phase    Phase
	attempt  *attempt.Attempt
	result   *scoring.Result
	history  *history.Log
	locked   bool
	inFlight bool
	lastErr  error
}

// New creates a machine in the setup phase.
func New(opts Options) (*Machine, error) {
	m := &Machine{
		base:    opts.Catalog,
		overlay: opts.Overlay.Clone(),
		gen:     opts.Generator,
		scorer:  opts.Scorer,
		now:     opts.Now,
		logger:  opts.Logger,
		persona: opts.Persona,
		history: history.New(),
	}
	if m.base == nil {
		m.base = catalog.Default()
	}
	if m.gen == nil {
		m.gen = promptgen.New(promptgen.ConfigFromCatalog(m.base))
	}
	if m.scorer == nil {
		m.scorer = scoring.New(nil, scoring.DefaultConfig(), m.logger)
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}

	m.timer = m.base.DefaultTimer()
	if opts.Timer != 0 {
		if err := m.SetTimer(opts.Timer); err != nil {
			return nil, err
		}
	}

	for _, name := range opts.Topics {
		if _, ok := m.base.Topic(name); !ok {
			m.logger.Warn("ignoring unknown topic", zap.String("topic", name))
			continue
		}
		if !slices.Contains(m.selected, name) {
			m.selected = append(m.selected, name)
		}
	}

	return m, nil
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase { return m.phase }

// Attempt returns a copy of the current attempt, or nil in setup.
func (m *Machine) Attempt() *attempt.Attempt {
	if m.attempt == nil {
		return nil
	}
	a := *m.attempt
	return &a
}

// Result returns a copy of the current attempt's score once scored.
func (m *Machine) Result() *scoring.Result { return m.result.Clone() }

// History returns the session's log of scored attempts.
func (m *Machine) History() *history.Log { return m.history }

// InputLocked reports whether the timer ran out on a blank explanation.
func (m *Machine) InputLocked() bool { return m.locked }

// Scoring reports whether a scoring call is outstanding.
func (m *Machine) Scoring() bool { return m.inFlight }

// LastError returns the most recent scoring failure for this attempt.
func (m *Machine) LastError() error { return m.lastErr }

// ScoringEnabled reports whether a credential is configured.
func (m *Machine) ScoringEnabled() bool { return m.scorer.Enabled() }

// Scorer returns the scoring client.
func (m *Machine) Scorer() *scoring.Client { return m.scorer }

// Remaining returns the time left on the countdown. It is derived from the
// attempt's start time on every call.
func (m *Machine) Remaining() time.Duration {
	if m.phase != PhasePracticing || m.attempt == nil {
		return 0
	}
	return m.attempt.Remaining(m.now())
}

// WordCount returns the word count of the current explanation.
func (m *Machine) WordCount() int {
	if m.attempt == nil {
		return 0
	}
	return m.attempt.Words()
}

// Start picks a topic from the active pool and begins a new attempt.
func (m *Machine) Start() error {
	if m.phase != PhaseSetup {
		return &TransitionError{From: m.phase, Op: "start"}
	}
	pool := m.ActiveTopics()
	if len(pool) == 0 {
		return &ConfigurationError{Err: ErrNoTopics}
	}
	m.begin(m.gen.Pick(pool))
	return nil
}

// SetExplanation replaces the explanation text of the running attempt.
func (m *Machine) SetExplanation(text string) error {
	if m.phase != PhasePracticing {
		return &TransitionError{From: m.phase, Op: "edit explanation"}
	}
	if m.locked {
		return ErrInputLocked
	}
	m.attempt.Explanation = text
	return nil
}

// Tick re-evaluates the countdown. When time is up a non-blank explanation
// is submitted with the full timer as time used; a blank one locks input.
func (m *Machine) Tick() error {
	if m.phase != PhasePracticing {
		return &TransitionError{From: m.phase, Op: "tick"}
	}
	if m.locked || m.attempt.Remaining(m.now()) > 0 {
		return nil
	}
	if m.attempt.Blank() {
		m.locked = true
		m.logger.Debug("timer expired on blank explanation", zap.String("attempt", m.attempt.ID))
		return nil
	}
	m.attempt.TimeUsed = m.attempt.TimerDuration
	m.transition(PhaseSubmitted)
	return nil
}

// Submit ends the countdown early and hands the explanation to scoring.
func (m *Machine) Submit() error {
	if m.phase != PhasePracticing {
		return &TransitionError{From: m.phase, Op: "submit"}
	}
	if m.attempt.Blank() {
		return ErrBlankExplanation
	}
	if !m.scorer.Enabled() {
		return &ConfigurationError{Err: ErrNoCredential}
	}
	m.attempt.TimeUsed = m.attempt.UsedSeconds(m.now())
	m.transition(PhaseSubmitted)
	return nil
}

// Cancel abandons the current attempt and returns to setup. It is allowed
// while practicing, and after a failed scoring call.
func (m *Machine) Cancel() error {
	switch {
	case m.phase == PhasePracticing:
	case m.phase == PhaseSubmitted && !m.inFlight && m.lastErr != nil:
	case m.inFlight:
		return ErrScoringInFlight
	default:
		return &TransitionError{From: m.phase, Op: "cancel"}
	}
	m.reset()
	m.transition(PhaseSetup)
	return nil
}

// BeginScoring marks a scoring call as outstanding and returns its input.
// Exactly one CompleteScoring must follow.
func (m *Machine) BeginScoring() (scoring.Input, error) {
	if m.phase != PhaseSubmitted {
		return scoring.Input{}, &TransitionError{From: m.phase, Op: "score"}
	}
	if m.inFlight {
		return scoring.Input{}, ErrScoringInFlight
	}
	m.inFlight = true
	m.lastErr = nil
	return m.attempt.ScoringInput(), nil
}

// CompleteScoring records the outcome of the outstanding scoring call. On
// success the attempt is appended to history and the machine moves to
// scored; on failure it stays submitted and LastError is set.
func (m *Machine) CompleteScoring(res *scoring.Result, err error) error {
	if !m.inFlight {
		return &TransitionError{From: m.phase, Op: "complete scoring"}
	}
	m.inFlight = false

	if err == nil && res == nil {
		err = &scoring.Error{Kind: scoring.KindMalformedResponse}
	}
	if err != nil {
		m.lastErr = err
		m.logger.Warn("scoring failed", zap.String("attempt", m.attempt.ID), zap.Error(err))
		return nil
	}

	m.result = res.Clone()
	m.history.Append(history.Entry{
		Attempt:    *m.attempt,
		Result:     *res,
		RecordedAt: m.now(),
	})
	m.transition(PhaseScored)
	return nil
}

// Score runs a scoring call synchronously. The returned error is the
// scoring failure, if any; the machine state reflects it either way.
func (m *Machine) Score(ctx context.Context) error {
	in, err := m.BeginScoring()
	if err != nil {
		return err
	}
	res, err := m.scorer.Score(ctx, in)
	if cerr := m.CompleteScoring(res, err); cerr != nil {
		return cerr
	}
	return err
}

// Retry starts a fresh attempt on the same topic.
func (m *Machine) Retry() error {
	if m.phase != PhaseScored {
		return &TransitionError{From: m.phase, Op: "retry"}
	}
	topic := m.attempt.Topic
	m.reset()
	m.begin(topic)
	return nil
}

// NewTopic returns to setup so another topic can be drawn.
func (m *Machine) NewTopic() error {
	if m.phase != PhaseScored {
		return &TransitionError{From: m.phase, Op: "choose a new topic"}
	}
	m.reset()
	m.transition(PhaseSetup)
	return nil
}

func (m *Machine) begin(topic string) {
	preset, custom := m.Catalog().Concepts(topic)
	p := m.gen.Generate(promptgen.Input{
		Topic:          topic,
		PresetConcepts: preset,
		CustomConcepts: custom,
		CustomPersona:  m.persona,
	})
	a := attempt.New(p, m.timer, m.now())
	m.attempt = &a
	m.transition(PhasePracticing)
}

func (m *Machine) reset() {
	m.attempt = nil
	m.result = nil
	m.locked = false
	m.lastErr = nil
}

func (m *Machine) transition(to Phase) {
	m.logger.Debug("phase transition",
		zap.Stringer("from", m.phase),
		zap.Stringer("to", to))
	m.phase = to
}

// IsConfigurationError reports whether err is a *ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
