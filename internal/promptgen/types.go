package promptgen

// Input holds everything needed to generate one practice prompt.
type Input struct {
	// Topic is the subject the concept is drawn from.
	Topic string

	// PresetConcepts is the catalog pool for Topic.
	PresetConcepts []string

	// CustomConcepts is the user-added pool for Topic. Selection is uniform
	// over PresetConcepts and CustomConcepts combined.
	CustomConcepts []string

	// CustomPersona is raw user text describing the audience. It is
	// sanitized before use; empty (or empty after sanitizing) means a
	// default persona is picked instead.
	CustomPersona string
}

// Prompt is a concrete "explain X to Y" task.
type Prompt struct {
	// Text is the rendered template shown to the user.
	Text string

	// Topic is copied from the Input.
	Topic string

	// Concept is the selected concept, or the placeholder when the topic
	// had no concepts.
	Concept string

	// Audience is the label the explanation must be written for.
	Audience string

	// CustomAudience is true when Audience came from the user's persona.
	CustomAudience bool
}
