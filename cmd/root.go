// Package cmd provides the root command and CLI setup for optilabel.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/optilabel/internal/config"
	"github.com/mouse-blink/optilabel/internal/controller"
	"github.com/mouse-blink/optilabel/internal/domain"
)

var appConfig *config.Config
var workflow domain.Workflow
var ui controller.UI

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
}

var configFlag string
var logLevelFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optilabel",
		Short: "Solve and label optimization problems with LLMs",
		Long: `optilabel asks a language model to turn a natural-language optimization
problem into PuLP code, runs the code and reports its output. A second model
tags every word of a problem description with a BIO label (variable,
parameter, limit, objective, ...) and the tags are scored against a
reference-labeled text.

Configuration is read from .env, optilabel.yaml (or --config) and
OPTILABEL_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if workflow != nil {
				return nil
			}

			return setup(cmd.Context(), cmd.Annotations[offlineAnnotation] == "")
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to the YAML config file (default optilabel.yaml)")
	cmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn or error")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)

	stop()
	closeDatabase()

	if err != nil {
		os.Exit(1)
	}
}

// requestContext bounds a single command by the configured request timeout.
func requestContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if appConfig == nil {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, appConfig.RequestTimeout)
}
