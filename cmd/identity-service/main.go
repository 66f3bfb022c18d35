package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/server/identityservice"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("identity-service exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts identityservice.Options
	cmd := &cobra.Command{
		Use:          "identity-service",
		Short:        "Reference HTTP service for character identities",
		Long:         "Serves identities, careers and knowledge records. Settings come from IDENTITY_SERVICE_* environment variables; flags override them.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return identityservice.Run(opts)
		},
	}
	cmd.Flags().IntVar(&opts.HTTPPort, "port", 0, "HTTP port (overrides IDENTITY_SERVICE_HTTP_PORT)")
	cmd.Flags().StringVar(&opts.DBDriver, "db-driver", "", "sqlite or postgres (overrides IDENTITY_SERVICE_DB_DRIVER)")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "debug, info, warn or error")
	return cmd
}
