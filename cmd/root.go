package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "thinkfast",
	Short: "Timed explanation practice with AI feedback",
	Long: "ThinkFast gives you a random \"explain X to Y\" prompt, a countdown, and a\n" +
		"rubric score for what you wrote.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to config file (overrides THINKFAST_CONFIG env var)")
	pf.String("catalog", "", "Path to a YAML catalog replacing the built-in topics")
	pf.String("db", "", "Path to SQLite usage log (overrides THINKFAST_DB env var)")
	pf.Int("timer", 0, "Countdown length in seconds")
	pf.StringArray("topic", nil, "Topic to practice (repeatable)")
	pf.String("persona", "", "Custom audience for prompts")
	pf.String("log-file", "", "Path to log file")
	pf.Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(topicsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}
