package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
)

var chatSessionFlag string

// chatCmd represents the chat command.
var chatCmd = newChatCmd()

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive optimization assistant",
		Long: `Chat opens an interactive session. Every prompt is solved and labeled;
the transcript is stored and can be resumed with --session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return workflow.Chat(cmd.Context(), domain.ChatArgs{SessionID: chatSessionFlag})
		},
	}
	cmd.Flags().StringVarP(&chatSessionFlag, "session", "s", "", "resume a stored session")

	return cmd
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
