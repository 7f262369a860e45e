package main

import (
	"fmt"
	"time"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kubev2v/task-executor/internal/config"
	"github.com/kubev2v/task-executor/internal/server"
)

func newTokenCommand(configFile *string) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a bearer token signed with the configured secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configFile)
			if err != nil {
				return err
			}
			if cfg.Authentication.SecretFilePath == "" {
				return fmt.Errorf("--auth-secret-file is required")
			}

			auth, err := server.NewAuthenticatorFromFile(cfg.Authentication.SecretFilePath)
			if err != nil {
				return err
			}

			subject := cobrautil.MustGetString(cmd, "subject")
			ttl := cobrautil.MustGetDuration(cmd, "ttl")
			token, err := auth.GenerateToken(subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	config.RegisterFlags(cmd)
	cobra.CheckErr(config.BindFlags(v, cmd.Flags()))
	cmd.Flags().String("subject", "admin", "Subject of the token")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Lifetime of the token")

	return cmd
}
