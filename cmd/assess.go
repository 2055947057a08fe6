package cmd

import (
	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess [topic]",
	Short: "Take an adaptive assessment or quick quiz in the terminal",
	Long: `Start the terminal app. With a topic the welcome screen is skipped and
the topic is filled in, so Enter starts the assessment straight away.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var topic string
		if len(args) == 1 {
			topic = args[0]
		}
		subtopic, _ := cmd.Flags().GetString("subtopic")
		return runApp(cmd, topic, subtopic)
	},
}

func init() {
	assessCmd.Flags().String("subtopic", "", "Narrow the assessment to a subtopic")
	assessCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
	assessCmd.Flags().String("log-file", "", "Write logs to this file")
}
