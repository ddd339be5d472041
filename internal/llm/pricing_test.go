package llm

import (
	"math"
	"testing"
)

func TestLookupCost(t *testing.T) {
	c := LookupCost("claude-sonnet-4-5-20250929")
	if c == nil {
		t.Fatal("expected pricing for the default scoring model")
	}
	if got := c.Cost(1_000_000, 100_000); math.Abs(got-4.5) > 1e-9 {
		t.Fatalf("expected $4.50, got %v", got)
	}

	if LookupCost("anthropic/claude-sonnet-4.5") == nil {
		t.Fatal("expected OpenRouter ID to resolve by bare model name")
	}
	if LookupCost("mock") != nil {
		t.Fatal("expected nil for unknown model")
	}
}
