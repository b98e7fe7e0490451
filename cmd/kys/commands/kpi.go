package commands

import (
	"context"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/aggregate"
	"github.com/atakanbattal/Kademe-KYS-sub003/display"
	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
	"github.com/atakanbattal/Kademe-KYS-sub003/kpi"
)

// KPICmd evaluates KPI targets
var KPICmd = &cobra.Command{
	Use:   "kpi",
	Short: "Evaluate KPI targets against current summaries",
	Long: `Grade every target in kpi.targets_file (or --targets) as good, warning or critical.

Examples:
  kys kpi
  kys kpi --targets kpi/targets.yaml --json`,
	RunE: runKPI,
}

var (
	kpiTargets string
)

func init() {
	KPICmd.Flags().StringVar(&kpiTargets, "targets", "", "KPI targets YAML (overrides kpi.targets_file)")
	KPICmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runKPI(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	if kpiTargets != "" {
		policy, err := kpi.Load(kpiTargets)
		if err != nil {
			return err
		}
		rt.policy = policy
	}
	if rt.policy == nil {
		return errors.WithHint(errors.New("no KPI targets loaded"),
			"set kpi.targets_file in am.toml or pass --targets")
	}

	eng, err := rt.newEngine(0, nil)
	if err != nil {
		return err
	}
	defer eng.Close()
	results := eng.KPI(ctx)

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, results)
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		name := r.Target.Name
		if name == "" {
			name = r.Target.ID
		}
		current := fmt.Sprintf("%g", r.Current)
		if r.Missing {
			current = "n/a"
		}
		rows = append(rows, []string{
			name,
			string(r.Target.Domain),
			r.Target.Metric,
			fmt.Sprintf("%g", r.Target.Target),
			current,
			healthLabel(r),
		})
	}
	return renderTable(out, []string{"Target", "Domain", "Metric", "Goal", "Current", "Health"}, rows)
}

func healthLabel(r kpi.Result) string {
	switch {
	case r.Missing:
		return pterm.Gray("unknown metric")
	case r.Health == aggregate.HealthGood:
		return pterm.Green(string(r.Health))
	case r.Health == aggregate.HealthWarning:
		return pterm.Yellow(string(r.Health))
	default:
		return pterm.Red(string(r.Health))
	}
}
