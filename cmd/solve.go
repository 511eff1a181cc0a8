package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
)

var solveNoExecFlag bool
var solveNoLabelFlag bool
var solveStreamFlag bool

// solveCmd represents the solve command.
var solveCmd = newSolveCmd()

func newSolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <problem...>",
		Short: "Turn an optimization problem into PuLP code and run it",
		Long: `Solve sends the problem to the solving model, extracts the first python
code block of the answer, runs it and prints what it printed. The same
problem text is then labeled unless --no-label is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			return workflow.Solve(ctx, domain.SolveArgs{
				Prompt:  strings.Join(args, " "),
				NoExec:  solveNoExecFlag,
				NoLabel: solveNoLabelFlag,
				Stream:  solveStreamFlag,
			})
		},
	}
	cmd.Flags().BoolVar(&solveNoExecFlag, "no-exec", false, "do not run the generated code")
	cmd.Flags().BoolVar(&solveNoLabelFlag, "no-label", false, "skip labeling the problem text")
	cmd.Flags().BoolVar(&solveStreamFlag, "stream", false, "print the model answer as it is generated")

	return cmd
}

func init() {
	rootCmd.AddCommand(solveCmd)
}
