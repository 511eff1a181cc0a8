package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
	m "github.com/mouse-blink/optilabel/internal/model"
)

var comparePositionalFlag bool

// compareCmd represents the compare command.
var compareCmd = newCompareCmd()

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <reference> <generated>",
		Short: "Score a tagged file against a reference",
		Long: `Compare reads two tagged files (one token per row, label in the last
column) and reports the share of reference labels found in the generated
file. With --positional rows are compared pairwise instead.`,
		Args:        cobra.ExactArgs(2),
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			return workflow.Compare(ctx, domain.CompareArgs{
				Reference:  m.Path(args[0]),
				Generated:  m.Path(args[1]),
				Positional: comparePositionalFlag,
			})
		},
	}
	cmd.Flags().BoolVar(&comparePositionalFlag, "positional", false, "compare rows pairwise")

	return cmd
}

func init() {
	rootCmd.AddCommand(compareCmd)
}
