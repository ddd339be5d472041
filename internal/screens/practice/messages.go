package practice

import "github.com/abhisek/thinkfast/internal/scoring"

// timerTickMsg is sent every second while an attempt is running. Ticks
// from a previous attempt or a superseded tick chain are ignored.
type timerTickMsg struct {
	attemptID string
	seq       int
}

// scoredMsg carries the outcome of the scoring call back to Update.
type scoredMsg struct {
	attemptID string
	result    *scoring.Result
	err       error
}
