package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/domain"
	m "github.com/mouse-blink/optilabel/internal/model"
)

var labelFileFlags []string
var labelModeFlag string
var labelPositionalFlag bool
var labelSaveFlag bool
var labelReportsFlag string
var labelParallelFlag int

// labelCmd represents the label command.
var labelCmd = newLabelCmd()

func newLabelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label [text...]",
		Short: "Tag every word of a problem description",
		Long: `Label asks the labeling model to tag every word of each input with a BIO
label and scores the answer against the reference labels file.

Every argument is one input; --file adds the contents of a file as another
input. With no input at all the reference text itself is labeled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := m.ParseInputMode(labelModeFlag)
			if err != nil {
				return err
			}

			ctx, cancel := requestContext(cmd)
			defer cancel()

			return workflow.Label(ctx, domain.LabelArgs{
				Texts:      args,
				Files:      parsePaths(labelFileFlags),
				Mode:       mode,
				Positional: labelPositionalFlag,
				Save:       labelSaveFlag,
				Reports:    m.Path(reportsDir(labelReportsFlag)),
				Parallel:   labelParallelFlag,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&labelFileFlags, "file", "f", nil, "read an input from a file (can be repeated)")
	cmd.Flags().StringVarP(&labelModeFlag, "mode", "m", string(m.ModeAuto), "input mode: auto, raw or tokenized")
	cmd.Flags().BoolVar(&labelPositionalFlag, "positional", false, "also compare the labels row by row")
	cmd.Flags().BoolVar(&labelSaveFlag, "save", false, "write a YAML report per input")
	cmd.Flags().StringVarP(&labelReportsFlag, "reports", "r", "", "reports directory (default from config)")
	cmd.Flags().IntVarP(&labelParallelFlag, "parallel", "p", 1, "number of inputs labeled concurrently")

	return cmd
}

func init() {
	rootCmd.AddCommand(labelCmd)
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

func reportsDir(flag string) string {
	if flag != "" || appConfig == nil {
		return flag
	}

	return appConfig.Files.ReportsDir
}
