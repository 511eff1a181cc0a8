package cmd

import (
	"github.com/spf13/cobra"
)

var countResetFlag bool

// countCmd represents the count command.
var countCmd = newCountCmd()

func newCountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "count",
		Short:       "Show how many prompts were solved",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			if countResetFlag {
				return workflow.ResetCount(ctx)
			}

			return workflow.Count(ctx)
		},
	}
	cmd.Flags().BoolVar(&countResetFlag, "reset", false, "reset the counter to zero")

	return cmd
}

func init() {
	rootCmd.AddCommand(countCmd)
}
