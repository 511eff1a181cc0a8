package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
)

var tokenizeFileFlags []string

// tokenizeCmd represents the tokenize command.
var tokenizeCmd = newTokenizeCmd()

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "tokenize [text...]",
		Short:       "Print the tokens the labeler sends to the model",
		Annotations: map[string]string{offlineAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := requestContext(cmd)
			defer cancel()

			return workflow.Tokenize(ctx, domain.TokenizeArgs{
				Texts: args,
				Files: parsePaths(tokenizeFileFlags),
			})
		},
	}
	cmd.Flags().StringArrayVarP(&tokenizeFileFlags, "file", "f", nil, "tokenize the contents of a file (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
}
