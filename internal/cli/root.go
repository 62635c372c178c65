package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Execute runs the mindguard command line
func Execute(ctx context.Context) error {
	return buildRootCommand().ExecuteContext(ctx)
}

func buildRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "mindguard",
		Short: "Supportive wellness companion with daily mood tracking",
		Long: strings.TrimSpace(`mindguard listens to how you feel, keeps a daily mood log,
and answers with short supportive replies. Messages that signal distress
always get the same safety message encouraging a talk with a trusted adult.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("a subcommand is required")
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file (default ./config.yaml if present)")

	root.AddCommand(newChatCommand(&configPath))
	root.AddCommand(newServeCommand(&configPath))
	root.AddCommand(newMoodsCommand(&configPath))

	return root
}
