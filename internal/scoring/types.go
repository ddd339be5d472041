package scoring

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// Input is everything the scorer needs to judge one submitted attempt.
type Input struct {
	Prompt        string
	Topic         string
	Audience      string
	TimerDuration int // seconds allowed
	TimeUsed      int // seconds actually used, 0..TimerDuration
	Explanation   string
}

// WordCount returns the whitespace-delimited word count of the explanation.
func (in Input) WordCount() int {
	return WordCount(in.Explanation)
}

// WordCount counts whitespace-separated tokens in text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Dimension is one rubric dimension: an integer score in [1,10] and
// short feedback.
type Dimension struct {
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Overall is the aggregate assessment of an attempt.
type Overall struct {
	Score        int      `json:"score"`
	Grade        string   `json:"grade"`
	Summary      string   `json:"summary"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`

	// ReportedScore is the overall score exactly as the model returned it,
	// possibly fractional. Score may differ when the weighted score is
	// recomputed locally.
	ReportedScore float64 `json:"-"`
}

// UnmarshalJSON accepts a fractional overall score and rounds it half up
// into Score.
func (o *Overall) UnmarshalJSON(data []byte) error {
	type plain Overall
	var aux struct {
		plain
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = Overall(aux.plain)
	o.ReportedScore = aux.Score
	o.Score = clampScore(int(math.Floor(aux.Score + 0.5)))
	return nil
}

func clampScore(score int) int {
	return min(max(score, 1), 10)
}

// Result is a parsed and validated score report.
type Result struct {
	Clarity          Dimension `json:"clarity"`
	Accuracy         Dimension `json:"accuracy"`
	Structure        Dimension `json:"structure"`
	Completeness     Dimension `json:"completeness"`
	Conciseness      Dimension `json:"conciseness"`
	Overall          Overall   `json:"overall"`
	ModelExplanation string    `json:"model_explanation,omitempty"`
}

// Clone returns a deep copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return nil
	}
	c := *r
	c.Overall.Strengths = slices.Clone(r.Overall.Strengths)
	c.Overall.Improvements = slices.Clone(r.Overall.Improvements)
	return &c
}

// NamedDimension pairs a rubric dimension with its display name and weight.
type NamedDimension struct {
	Name   string
	Weight int // percent
	Dimension
}

// Dimensions returns the five rubric dimensions in display order.
func (r *Result) Dimensions() []NamedDimension {
	return []NamedDimension{
		{Name: "Clarity", Weight: 25, Dimension: r.Clarity},
		{Name: "Accuracy", Weight: 25, Dimension: r.Accuracy},
		{Name: "Structure", Weight: 20, Dimension: r.Structure},
		{Name: "Completeness", Weight: 15, Dimension: r.Completeness},
		{Name: "Conciseness", Weight: 15, Dimension: r.Conciseness},
	}
}

// WeightedScore computes the overall score from the sub-scores:
// clarity 25%, accuracy 25%, structure 20%, completeness 15%,
// conciseness 15%, rounded half up and clamped to [1,10].
func (r *Result) WeightedScore() int {
	total := 0
	for _, d := range r.Dimensions() {
		total += d.Weight * d.Score
	}
	return clampScore((total + 50) / 100)
}
