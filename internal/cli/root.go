// Package cli implements the pactum command line: the dashboard server,
// one-shot risk and agenda reports, and the interactive viewer.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/okian/pactum/internal/adapters/backend"
	service "github.com/okian/pactum/internal/app"
	"github.com/okian/pactum/internal/config"
	"github.com/okian/pactum/pkg/logger"
	"github.com/spf13/cobra"
)

// options holds the persistent flags and what PersistentPreRunE builds from them.
type options struct {
	apiURL   string
	logLevel string

	cfg *config.Config
	log logger.Logger
}

// NewRootCommand builds the pactum command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pactum",
		Short: "Contract compliance risk dashboard",
		Long: `pactum aggregates penalties and overdue deliverables from the
contract-management backend into a single severity-ranked risk list.

Configuration is read from defaults, the YAML file named by PACTUM_CONFIG
and PACTUM_* environment variables; --api-url and --log-level override them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "contract-management backend base URL")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newServeCommand(opts),
		newRisksCommand(opts),
		newAgendaCommand(opts),
		newWatchCommand(opts),
	)
	return root
}

// Execute runs the command tree until it finishes or the process is signalled.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

// setup initializes logging and loads configuration. Logs go to stderr so
// report output on stdout stays machine-readable.
func (o *options) setup(cmd *cobra.Command) error {
	if err := logger.InitWithWriter(cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("%w: logger: %w", ErrSetup, err)
	}
	o.log = logger.Get()

	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api-url") {
		cfg.APIBaseURL = o.apiURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		o.log.Warn(cmd.Context(), "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	o.cfg = cfg
	return nil
}

func (o *options) backend() (*backend.Client, error) {
	client, err := backend.New(o.cfg.APIBaseURL,
		backend.WithTimeout(o.cfg.FetchTimeout()),
		backend.WithLogger(logger.Named("backend")))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSetup, err)
	}
	return client, nil
}

func (o *options) service(opts ...service.Option) (*service.Service, error) {
	client, err := o.backend()
	if err != nil {
		return nil, err
	}
	opts = append([]service.Option{service.WithLogger(logger.Named("service"))}, opts...)
	return service.New(client, opts...), nil
}
