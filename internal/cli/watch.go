package cli

import (
	"io"

	"github.com/okian/pactum/internal/tui"
	"github.com/okian/pactum/pkg/logger"
	"github.com/spf13/cobra"
)

func newWatchCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Browse risks interactively",
		Long: `Opens a terminal viewer over the risk list.

Keys: / search, f cycle severity, r refresh, esc clear search, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The viewer owns the terminal.
			if err := logger.InitWithWriter(io.Discard); err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			return tui.Start(cmd.Context(), svc)
		},
	}
}
