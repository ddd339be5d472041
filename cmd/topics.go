package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/abhisek/thinkfast/internal/catalog"
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List catalog and custom topics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDeps(cmd, false)
		if err != nil {
			return err
		}
		defer d.Close()

		printTopics(cmd.OutOrStdout(), catalog.Layered{Base: d.catalog, Custom: d.file.Overlay()})
		return nil
	},
}

func printTopics(w io.Writer, cat catalog.Layered) {
	fmt.Fprintf(w, "%-28s  %-14s  %6s  %6s\n", "Topic", "Category", "Preset", "Custom")
	for _, name := range cat.Topics() {
		preset, custom := cat.Concepts(name)
		category := "custom"
		if t, ok := cat.Base.Topic(name); ok {
			category = t.Category
		}
		fmt.Fprintf(w, "%-28s  %-14s  %6d  %6d\n", truncate(name, 28), truncate(category, 14), len(preset), len(custom))
	}
}
