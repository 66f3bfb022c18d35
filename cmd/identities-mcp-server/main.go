package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/internal/clientconfig"
	"github.com/mycelian/mycelian-identities/mcp"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("MCP server exited with error")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var baseURL, transport, addr, logLevel string
	var dev bool
	cmd := &cobra.Command{
		Use:          "identities-mcp-server",
		Short:        "Expose character identities to agents over MCP",
		Long:         "Tools call the identity service configured by IDENTITIES_* variables. Server settings come from IDENTITIES_MCP_* variables; flags override both.",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			clientCfg, err := clientconfig.Load()
			if err != nil {
				return err
			}
			if baseURL != "" {
				clientCfg.BaseURL = baseURL
			}
			if dev {
				clientCfg.DevMode = true
			}
			if logLevel != "" {
				clientCfg.LogLevel = logLevel
			}
			clientCfg.Init()

			cfg, err := mcp.LoadConfig()
			if err != nil {
				return err
			}
			if transport != "" {
				cfg.Transport = transport
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return mcp.Run(ctx, cfg, clientCfg)
		},
	}
	cmd.Flags().StringVar(&baseURL, "base-url", "", "identity service URL (overrides IDENTITIES_BASE_URL)")
	cmd.Flags().BoolVar(&dev, "dev", false, "use the development token")
	cmd.Flags().StringVar(&transport, "transport", "", "auto, stdio or http (overrides IDENTITIES_MCP_TRANSPORT)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides IDENTITIES_MCP_ADDR)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}
