package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
)

var historySessionFlag string
var historyRunsFlag bool
var historyLimitFlag int

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored chat sessions and labeling runs",
		Long: `History lists the stored chat sessions. --session prints the transcript
of one session and --runs lists the most recent labeling runs.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			return workflow.History(ctx, domain.HistoryArgs{
				SessionID: historySessionFlag,
				Runs:      historyRunsFlag,
				Limit:     historyLimitFlag,
			})
		},
	}
	cmd.Flags().StringVarP(&historySessionFlag, "session", "s", "", "print the transcript of a session")
	cmd.Flags().BoolVar(&historyRunsFlag, "runs", false, "list labeling runs")
	cmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "maximum number of runs to list")

	return cmd
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
