package main

import (
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"

	"github.com/kubev2v/task-executor/internal/config"
)

// NewRootCommand builds the executor command tree.
func NewRootCommand() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "executor",
		Short:        "Bounded task executor with an admin HTTP API",
		SilenceUsage: true,
		// EXECUTOR_<FLAG_NAME> sets any flag left unset on the command line.
		PersistentPreRunE: cobrautil.CommandStack(
			cobrautil.SyncViperPreRunE(config.EnvPrefix),
		),
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "Path of a YAML/JSON/TOML configuration file")

	root.AddCommand(newRunCommand(&configFile))
	root.AddCommand(newTokenCommand(&configFile))

	return root
}
