package cli

import (
	"github.com/okian/pactum/internal/domain/types"
	"github.com/spf13/cobra"
)

func newAgendaCommand(opts *options) *cobra.Command {
	var (
		output string
		check  bool
	)
	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Print upcoming and overdue deadlines from the backend's alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := ParseFormat(output)
			if err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}

			var view types.AgendaView
			if check {
				if view, err = svc.CheckAlerts(cmd.Context()); err != nil {
					return err
				}
			} else {
				view = svc.Agenda(cmd.Context())
			}
			return RenderAgenda(cmd.OutOrStdout(), view, format)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(FormatTable), "output format: "+formatList())
	cmd.Flags().BoolVar(&check, "check", false, "ask the backend to re-evaluate alerts first")
	return cmd
}
