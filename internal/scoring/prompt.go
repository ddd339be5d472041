package scoring

import (
	"bytes"
	"text/template"
)

type promptData struct {
	Input
	WordCount        int
	TimeContext      string
	CompletenessNote string
}

var scoringTemplate = template.Must(template.New("scoring").Parse(`You are an expert communication coach. Evaluate how well someone explained a concept under time pressure.

## Context
- **Prompt given**: "{{.Prompt}}"
- **Topic**: {{.Topic}}
- **Target audience**: {{.Audience}}
  ⚠️ IMPORTANT: The explanation must be tailored specifically for "{{.Audience}}". Evaluate clarity and appropriateness based on this exact audience persona.
- **Time allowed**: {{.TimerDuration}} seconds ({{.TimeContext}})
- **Time used**: {{.TimeUsed}} seconds
- **Word count**: {{.WordCount}} words

## The Explanation
"""
{{.Explanation}}
"""

## Evaluation Guidelines

**Time-Adjusted Expectations**:
- {{.CompletenessNote}}
- Minor typos, grammar issues, or abrupt endings are acceptable given time pressure
- Prioritize clarity and accuracy over polish
- Judge completeness relative to the time constraint - shorter times should NOT be penalized for brevity

**Scoring Dimensions**:
1. **Clarity**: Is it understandable specifically for "{{.Audience}}"? Consider the vocabulary, examples, and analogies appropriate for this exact persona.
2. **Accuracy**: Are the core concepts technically correct?
3. **Structure**: Is there logical flow (even if brief)?
4. **Completeness**: Does it cover what's reasonable given {{.TimerDuration}} seconds?
5. **Conciseness**: Efficient use of limited time?

Respond with ONLY this JSON (no markdown fences, no preamble):

{
  "clarity": {"score": <1-10>, "feedback": "<2-3 sentences>"},
  "accuracy": {"score": <1-10>, "feedback": "<2-3 sentences>"},
  "structure": {"score": <1-10>, "feedback": "<2-3 sentences>"},
  "completeness": {"score": <1-10>, "feedback": "<2-3 sentences>"},
  "conciseness": {"score": <1-10>, "feedback": "<2-3 sentences>"},
  "overall": {
    "score": <1-10 weighted: clarity 25%, accuracy 25%, structure 20%, completeness 15%, conciseness 15%>,
    "grade": "<A+ to F>",
    "summary": "<2-3 sentence overall assessment>",
    "strengths": ["<strength 1>", "<strength 2>"],
    "improvements": ["<improvement 1>", "<improvement 2>"]
  },
  "model_explanation": "<A concise, well-structured explanation that could realistically be typed within {{.TimerDuration}} seconds. This should demonstrate ideal clarity, accuracy, and structure for the given audience while respecting the time constraint.>"
}`))

// BuildPrompt renders the grading instructions for one attempt.
func BuildPrompt(in Input) (string, error) {
	bucket := BucketFor(in.TimerDuration)
	data := promptData{
		Input:            in,
		WordCount:        in.WordCount(),
		TimeContext:      bucket.TimeContext(),
		CompletenessNote: bucket.CompletenessNote(),
	}

	var buf bytes.Buffer
	if err := scoringTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
