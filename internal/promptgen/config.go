package promptgen

import "github.com/abhisek/thinkfast/internal/catalog"

// Config controls the pools the Generator samples from.
type Config struct {
	// Personas are the default audiences used when no custom persona applies.
	Personas []string

	// Templates are format strings with {concept}, {audience} and
	// optionally {topic} placeholders.
	Templates []string
}

// ConfigFromCatalog builds a Config from the catalog's personas and templates.
func ConfigFromCatalog(c *catalog.Catalog) Config {
	return Config{
		Personas:  c.Personas,
		Templates: c.Templates,
	}
}
