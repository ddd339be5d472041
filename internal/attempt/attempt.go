// Package attempt holds the record of a single timed explanation.
package attempt

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/thinkfast/internal/promptgen"
	"github.com/abhisek/thinkfast/internal/scoring"
)

// Attempt is one prompt and the explanation written for it. Explanation
// and TimeUsed change only while practicing; an attempt is copied by value
// into the history once scored.
type Attempt struct {
	ID             string
	Topic          string
	Prompt         string
	Concept        string
	Audience       string
	CustomAudience bool
	TimerDuration  int // seconds
	Explanation    string
	TimeUsed       int // seconds, set on submit
	CreatedAt      time.Time
	StartedAt      time.Time
}

// New creates an attempt for a generated prompt, started at now.
func New(p promptgen.Prompt, timerSeconds int, now time.Time) Attempt {
	return Attempt{
		ID:             uuid.New().String(),
		Topic:          p.Topic,
		Prompt:         p.Text,
		Concept:        p.Concept,
		Audience:       p.Audience,
		CustomAudience: p.CustomAudience,
		TimerDuration:  timerSeconds,
		CreatedAt:      now,
		StartedAt:      now,
	}
}

// Blank reports whether the explanation is empty after trimming.
func (a Attempt) Blank() bool {
	return strings.TrimSpace(a.Explanation) == ""
}

// Words returns the explanation's word count.
func (a Attempt) Words() int {
	return scoring.WordCount(a.Explanation)
}

// Elapsed returns the wall-clock time since the attempt started.
func (a Attempt) Elapsed(now time.Time) time.Duration {
	return now.Sub(a.StartedAt)
}

// Remaining returns the time left on the countdown, never negative.
func (a Attempt) Remaining(now time.Time) time.Duration {
	left := time.Duration(a.TimerDuration)*time.Second - a.Elapsed(now)
	return max(left, 0)
}

// UsedSeconds returns whole elapsed seconds clamped to [0, TimerDuration].
func (a Attempt) UsedSeconds(now time.Time) int {
	secs := int(a.Elapsed(now) / time.Second)
	return min(max(secs, 0), a.TimerDuration)
}

// ScoringInput builds the scorer's view of this attempt.
func (a Attempt) ScoringInput() scoring.Input {
	return scoring.Input{
		Prompt:        a.Prompt,
		Topic:         a.Topic,
		Audience:      a.Audience,
		TimerDuration: a.TimerDuration,
		TimeUsed:      a.TimeUsed,
		Explanation:   a.Explanation,
	}
}
