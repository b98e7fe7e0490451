package commands

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/display"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// SummaryCmd prints domain summaries
var SummaryCmd = &cobra.Command{
	Use:   "summary [domain]",
	Short: "Compute and print domain summaries",
	Long: `Read the store, normalize and aggregate, and print the summary of one domain
(dof, supplier, quality_cost, vehicle, audit) or of every domain.

Examples:
  kys summary dof
  kys summary --json`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"dof", "supplier", "quality_cost", "vehicle", "audit"},
	RunE:      runSummary,
}

func init() {
	SummaryCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runSummary(cmd *cobra.Command, args []string) error {
	domains := quality.Domains
	if len(args) == 1 {
		d, err := quality.ParseDomain(args[0], false)
		if err != nil {
			return err
		}
		domains = []quality.Domain{d}
	}

	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()
	eng, err := rt.newEngine(0, nil)
	if err != nil {
		return err
	}
	defer eng.Close()

	summaries := make(map[quality.Domain]any, len(domains))
	for _, d := range domains {
		summaries[d], _ = eng.Summary(ctx, d)
	}

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		if len(domains) == 1 {
			return display.OutputJSON(out, summaries[domains[0]])
		}
		return display.OutputJSON(out, summaries)
	}
	for _, d := range domains {
		rows, err := summaryRows(summaries[d])
		if err != nil {
			return err
		}
		pterm.DefaultSection.WithWriter(out).Println(string(d))
		if err := renderTable(out, []string{"Metric", "Value"}, rows); err != nil {
			return err
		}
	}
	return nil
}
