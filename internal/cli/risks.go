package cli

import (
	"strings"

	"github.com/okian/pactum/internal/domain/risk"
	"github.com/spf13/cobra"
)

func newRisksCommand(opts *options) *cobra.Command {
	var (
		severity string
		search   string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "risks",
		Short: "Run one aggregation cycle and print the risk list",
		Example: `  pactum risks --severity alto
  pactum risks --search CT-001 --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sev, err := risk.ParseSeverityFilter(severity)
			if err != nil {
				return err
			}
			format, err := ParseFormat(output)
			if err != nil {
				return err
			}
			svc, err := opts.service()
			if err != nil {
				return err
			}
			view := svc.Risks(cmd.Context(), risk.Filter{Severity: sev, Search: search})
			return RenderRisks(cmd.OutOrStdout(), view, format)
		},
	}
	cmd.Flags().StringVarP(&severity, "severity", "s", "all", "severity filter: all, high, medium, low (or todos, alto, médio, baixo)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "case-insensitive text matched against contract, description and category")
	cmd.Flags().StringVarP(&output, "output", "o", string(FormatTable), "output format: "+formatList())
	return cmd
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}
