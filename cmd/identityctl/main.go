// Command identityctl browses and edits character identities from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mycelian/mycelian-identities/client"
	"github.com/mycelian/mycelian-identities/collection"
	"github.com/mycelian/mycelian-identities/internal/clientconfig"
	"github.com/mycelian/mycelian-identities/internal/shardqueue"
	"github.com/mycelian/mycelian-identities/view"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfg    *clientconfig.Config
	client *client.Client
	queue  *collection.Dispatcher
	notes  *collection.Recorder
	out    io.Writer
	errOut io.Writer

	baseURL string
	project string
	token   string
	dev     bool
	debug   bool
	timeout time.Duration
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &app{notes: &collection.Recorder{}}

	rootCmd := &cobra.Command{
		Use:           "identityctl",
		Short:         "Browse and edit character identities, careers and knowledge",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.out, a.errOut = cmd.OutOrStdout(), cmd.ErrOrStderr()
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "identity service URL (overrides IDENTITIES_BASE_URL)")
	rootCmd.PersistentFlags().StringVarP(&a.project, "project", "p", "", "project id (overrides IDENTITIES_PROJECT_ID)")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (overrides IDENTITIES_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&a.dev, "dev", false, "use the development token")
	rootCmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "enable debug logging")
	rootCmd.PersistentFlags().DurationVar(&a.timeout, "timeout", 30*time.Second, "overall command timeout")

	rootCmd.AddCommand(newBrowseCmd(a))
	rootCmd.AddCommand(newIdentitiesCmd(a))
	rootCmd.AddCommand(newCareersCmd(a))
	rootCmd.AddCommand(newKnowledgeCmd(a))
	rootCmd.AddCommand(newCatalogCmd(a))
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := clientconfig.Load()
	if err != nil {
		return err
	}
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.project != "" {
		cfg.ProjectID = a.project
	}
	if a.token != "" {
		cfg.Token = a.token
	}
	if a.dev {
		cfg.DevMode = true
	}
	if a.debug {
		cfg.LogLevel = "debug"
		cfg.Debug = true
	}
	cfg.Init()
	a.cfg = cfg

	c, err := cfg.NewClient()
	if err != nil {
		return err
	}
	a.client = c

	qcfg, err := shardqueue.LoadConfig()
	if err != nil {
		return err
	}
	a.queue = collection.NewDispatcher(qcfg)
	return nil
}

func (a *app) close() error {
	if a.queue != nil {
		_ = a.queue.Close()
	}
	if a.client != nil {
		return a.client.Close()
	}
	return nil
}

// viewOpts wires pages and panels to the shared notifier and dispatcher.
func (a *app) viewOpts() []view.Option {
	return []view.Option{view.WithNotifier(a.notes), view.WithDispatcher(a.queue)}
}

// run wraps a command body with the timeout and prints the notifications
// the view layer raised, whatever the outcome.
func (a *app) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
		defer cancel()
		err := fn(ctx, args)
		renderNotifications(a.errOut, a.notes.Drain())
		return err
	}
}

func (a *app) projectID() (string, error) {
	if a.cfg.ProjectID == "" {
		return "", fmt.Errorf("--project (or IDENTITIES_PROJECT_ID) is required")
	}
	return a.cfg.ProjectID, nil
}
