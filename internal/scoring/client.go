package scoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/thinkfast/internal/llm"
)

// Purpose labels scoring calls in the usage log.
const Purpose = "scoring"

// Config controls the scoring request.
type Config struct {
	MaxTokens   int
	Temperature float64

	// StructuredOutput asks the provider for native JSON output constrained
	// by ResultSchema instead of relying on the prompt's output contract.
	StructuredOutput bool

	// TrustModelOverall keeps the model's overall score instead of
	// recomputing it from the sub-scores.
	TrustModelOverall bool
}

// DefaultConfig returns the standard scoring configuration.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 2000,
	}
}

// Client grades explanations with an LLM. A Client without a provider is
// valid and reports KindMissingCredential on every call.
type Client struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// New creates a scoring client. provider may be nil when no credential is
// configured; logger may be nil.
func New(provider llm.Provider, cfg Config, logger *zap.Logger) *Client {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{provider: provider, cfg: cfg, logger: logger}
}

// Enabled reports whether a provider is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.provider != nil
}

// ModelID returns the configured model, or "" when disabled.
func (c *Client) ModelID() string {
	if !c.Enabled() {
		return ""
	}
	return c.provider.ModelID()
}

// Score sends one attempt for grading and returns the parsed report.
// It makes exactly one provider call; retrying is up to the caller.
func (c *Client) Score(ctx context.Context, in Input) (*Result, error) {
	if !c.Enabled() {
		return nil, &Error{Kind: KindMissingCredential}
	}

	prompt, err := BuildPrompt(in)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("build scoring prompt: %w", err)}
	}

	req := llm.Request{
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	}
	if c.cfg.StructuredOutput {
		req.Schema = ResultSchema
	}

	resp, err := c.provider.Generate(llm.WithPurpose(ctx, Purpose), req)
	if err != nil {
		var invalid *llm.ErrInvalidResponse
		if errors.As(err, &invalid) {
			return nil, &Error{Kind: KindMalformedResponse, Err: err}
		}
		c.logger.Warn("scoring call failed", zap.String("topic", in.Topic), zap.Error(err))
		return nil, &Error{Kind: KindTransport, Err: err}
	}

	res, err := ParseResult(string(resp.Content))
	if err != nil {
		if resp.StopReason == "max_tokens" {
			err = &Error{Kind: KindMalformedResponse, Err: &llm.ErrMaxTokensExceeded{Content: resp.Content}}
		}
		c.logger.Warn("malformed score report",
			zap.String("topic", in.Topic),
			zap.String("stop_reason", resp.StopReason),
			zap.Error(err))
		return nil, err
	}

	if weighted := res.WeightedScore(); float64(weighted) != res.Overall.ReportedScore {
		c.logger.Info("overall score differs from weighted sub-scores",
			zap.Float64("reported", res.Overall.ReportedScore),
			zap.Int("weighted", weighted))
		if !c.cfg.TrustModelOverall {
			res.Overall.Score = weighted
		}
	}

	return res, nil
}
