package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/thinkfast/internal/persona"
	"github.com/abhisek/thinkfast/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one explanation without the TUI",
	Long: "Score one explanation and print the rubric. The explanation is read from\n" +
		"--file, or from stdin when --file is not given.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, true)
		if err != nil {
			return err
		}
		defer d.Close()

		in, err := scoreInput(cmd, d.catalog.DefaultTimer(), d.defaultAudience())
		if err != nil {
			return err
		}

		if !d.llmConfig.HasCredential() {
			return &scoring.Error{Kind: scoring.KindMissingCredential, Err: d.llmConfig.Validate()}
		}
		scorer, err := d.newScorer(cmd.Context(), d.llmConfig)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), d.llmConfig.Timeout)
		defer cancel()
		res, err := scorer.Score(ctx, in)
		if err != nil {
			d.logger.Warn("scoring failed", zap.Error(err))
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

// scoreInput assembles the scoring input from flags and the explanation
// source. The audience is sanitized like any custom persona; without
// --audience the fallback is used.
func scoreInput(cmd *cobra.Command, defaultTimer int, fallbackAudience string) (scoring.Input, error) {
	flags := cmd.Flags()
	prompt, _ := flags.GetString("prompt")
	audience, _ := flags.GetString("audience")
	used, _ := flags.GetInt("used")
	file, _ := flags.GetString("file")
	topics, _ := flags.GetStringArray("topic")

	timer := defaultTimer
	if flags.Changed("timer") {
		timer, _ = flags.GetInt("timer")
	}
	if timer <= 0 {
		return scoring.Input{}, fmt.Errorf("timer must be positive")
	}
	if strings.TrimSpace(prompt) == "" {
		return scoring.Input{}, fmt.Errorf("--prompt is required")
	}
	if flags.Changed("audience") {
		audience = persona.Sanitize(audience)
		if audience == "" {
			return scoring.Input{}, fmt.Errorf("--audience is empty after removing disallowed characters")
		}
	} else {
		audience = fallbackAudience
	}
	if !flags.Changed("used") {
		used = timer
	}

	var r io.Reader = cmd.InOrStdin()
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return scoring.Input{}, fmt.Errorf("open explanation: %w", err)
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return scoring.Input{}, fmt.Errorf("read explanation: %w", err)
	}
	text := string(data)
	if strings.TrimSpace(text) == "" {
		return scoring.Input{}, fmt.Errorf("explanation is blank")
	}

	in := scoring.Input{
		Prompt:        prompt,
		Audience:      audience,
		TimerDuration: timer,
		TimeUsed:      min(max(used, 0), timer),
		Explanation:   text,
	}
	if len(topics) > 0 {
		in.Topic = topics[0]
	}
	return in, nil
}

// defaultAudience is the --persona flag, then the configured persona,
// then the first catalog persona.
func (d *deps) defaultAudience() string {
	if d.persona != "" {
		if p := persona.Sanitize(d.persona); p != "" {
			return p
		}
	}
	if p := d.file.Practice.Persona; p != nil {
		if s := persona.Sanitize(*p); s != "" {
			return s
		}
	}
	if len(d.catalog.Personas) > 0 {
		return d.catalog.Personas[0]
	}
	return ""
}

func printResult(w io.Writer, res *scoring.Result) {
	fmt.Fprintf(w, "Overall %d/10  Grade %s", res.Overall.Score, res.Overall.Grade)
	if res.Overall.ReportedScore != 0 && res.Overall.ReportedScore != float64(res.Overall.Score) {
		fmt.Fprintf(w, "  (model said %g)", res.Overall.ReportedScore)
	}
	fmt.Fprintln(w)
	if res.Overall.Summary != "" {
		fmt.Fprintln(w, res.Overall.Summary)
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, d := range res.Dimensions() {
		fmt.Fprintf(w, "%-20s %2d/10  %s\n", fmt.Sprintf("%s (%d%%)", d.Name, d.Weight), d.Score, d.Feedback)
	}

	printList(w, "Strengths", res.Overall.Strengths)
	printList(w, "To improve", res.Overall.Improvements)

	if res.ModelExplanation != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Model explanation:")
		fmt.Fprintln(w, "  "+res.ModelExplanation)
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, title+":")
	for _, it := range items {
		fmt.Fprintln(w, "  - "+it)
	}
}

func init() {
	f := scoreCmd.Flags()
	f.String("prompt", "", "The prompt the explanation answers")
	f.String("audience", "", "Audience the explanation was written for")
	f.Int("used", 0, "Seconds used (defaults to the full timer)")
	f.String("file", "", "Read the explanation from this file instead of stdin")
	f.Bool("json", false, "Print the score report as JSON")
}
