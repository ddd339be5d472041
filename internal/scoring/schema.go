package scoring

import "github.com/abhisek/thinkfast/internal/llm"

func dimensionSchema(description string) map[string]any {
	return map[string]any{
		"type":        "object",
		"description": description,
		"properties": map[string]any{
			"score":    map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			"feedback": map[string]any{"type": "string"},
		},
		"required": []any{"score", "feedback"},
	}
}

// ResultSchema is the JSON contract a score report must satisfy.
var ResultSchema = &llm.Schema{
	Name:        "explanation-score",
	Description: "Rubric assessment of a timed explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"clarity":      dimensionSchema("Is it understandable for the target audience"),
			"accuracy":     dimensionSchema("Are the core concepts technically correct"),
			"structure":    dimensionSchema("Is there logical flow"),
			"completeness": dimensionSchema("Does it cover what is reasonable for the time allowed"),
			"conciseness":  dimensionSchema("Efficient use of limited time"),
			"overall": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"score":   map[string]any{"type": "number", "minimum": 1, "maximum": 10},
					"grade":   map[string]any{"type": "string"},
					"summary": map[string]any{"type": "string"},
					"strengths": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
					"improvements": map[string]any{
						"type":  "array",
						"items": map[string]any{"type": "string"},
					},
				},
				"required": []any{"score", "grade", "summary", "strengths", "improvements"},
			},
			"model_explanation": map[string]any{
				"type":        "string",
				"description": "A reference explanation that could be typed within the time allowed",
			},
		},
		"required": []any{"clarity", "accuracy", "structure", "completeness", "conciseness", "overall"},
	},
}
