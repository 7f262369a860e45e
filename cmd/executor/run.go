package main

import (
	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kubev2v/task-executor/internal/app"
	"github.com/kubev2v/task-executor/internal/config"
	"github.com/kubev2v/task-executor/internal/logger"
)

func newRunCommand(configFile *string) *cobra.Command {
	var flags []cobraflags.Flag
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the worker pool and the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateFlags(flags); err != nil {
				return err
			}
			cfg, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}

			undo, err := logger.Setup(cfg.LogFormat, cfg.LogLevel)
			if err != nil {
				return err
			}
			defer undo()

			a, err := app.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return a.Run(cmd.Context())
		},
	}

	flags = config.RegisterFlags(cmd)
	cobra.CheckErr(config.BindFlags(v, cmd.Flags()))

	return cmd
}
