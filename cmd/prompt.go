package cmd

import (
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/abhisek/thinkfast/internal/catalog"
	"github.com/abhisek/thinkfast/internal/promptgen"
)

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Print generated practice prompts",
	Long:  "Print generated practice prompts without scoring. Topics default to every\ncatalog and custom topic.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		count, _ := cmd.Flags().GetInt("count")
		seed, _ := cmd.Flags().GetUint64("seed")
		topics, _ := cmd.Flags().GetStringArray("topic")
		persona, _ := cmd.Flags().GetString("persona")
		if !cmd.Flags().Changed("persona") && d.file.Practice.Persona != nil {
			persona = *d.file.Practice.Persona
		}

		cfg := promptgen.ConfigFromCatalog(d.catalog)
		gen := promptgen.New(cfg)
		if seed != 0 {
			gen = promptgen.NewSeeded(cfg, seed)
		}

		layered := catalog.Layered{Base: d.catalog, Custom: d.file.Overlay()}
		prompts, err := generatePrompts(gen, layered, topics, persona, count)
		if err != nil {
			return err
		}
		printPrompts(cmd.OutOrStdout(), prompts)
		return nil
	},
}

// generatePrompts draws count prompts from topics, or from every topic in
// the catalog when topics is empty.
func generatePrompts(gen *promptgen.Generator, cat catalog.Layered, topics []string, persona string, count int) ([]promptgen.Prompt, error) {
	if count < 1 {
		return nil, fmt.Errorf("count must be at least 1")
	}
	all := cat.Topics()
	for _, t := range topics {
		if !slices.Contains(all, t) {
			return nil, fmt.Errorf("unknown topic %q", t)
		}
	}
	if len(topics) == 0 {
		topics = all
	}
	if len(topics) == 0 {
		return nil, fmt.Errorf("the catalog has no topics")
	}

	out := make([]promptgen.Prompt, 0, count)
	for range count {
		topic := gen.Pick(topics)
		preset, custom := cat.Concepts(topic)
		out = append(out, gen.Generate(promptgen.Input{
			Topic:          topic,
			PresetConcepts: preset,
			CustomConcepts: custom,
			CustomPersona:  persona,
		}))
	}
	return out, nil
}

func printPrompts(w io.Writer, prompts []promptgen.Prompt) {
	for i, p := range prompts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, p.Text)
		fmt.Fprintf(w, "  topic: %s  concept: %s  audience: %s\n", p.Topic, p.Concept, p.Audience)
	}
}

func init() {
	promptCmd.Flags().IntP("count", "n", 1, "Number of prompts to print")
	promptCmd.Flags().Uint64("seed", 0, "Seed for reproducible output (0 = random)")
}
