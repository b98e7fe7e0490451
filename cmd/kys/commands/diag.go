package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/display"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// DiagCmd runs one sync pass and prints engine diagnostics
var DiagCmd = &cobra.Command{
	Use:   "diag",
	Short: "Show engine diagnostics after one sync pass",
	Long: `Run a single sync pass against the configured store and report what it saw:
records and skipped records per domain, classification misses, store keys, and
domains that failed.`,
	RunE: runDiag,
}

func init() {
	DiagCmd.Flags().BoolP("json", "j", false, "Output as JSON")
}

func runDiag(cmd *cobra.Command, args []string) error {
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

	if _, err := eng.ForceResync(ctx); err != nil {
		return err
	}
	diag := eng.Diagnostics()

	out := cmd.OutOrStdout()
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(out, diag)
	}

	rows := make([][]string, 0, len(quality.Domains))
	for _, d := range quality.Domains {
		stats := diag.Normalization[d]
		status := "ok"
		if msg, failed := diag.LastErrors[d]; failed {
			status = pterm.Red(msg)
		}
		rows = append(rows, []string{
			string(d),
			fmt.Sprint(diag.RecordCounts[d]),
			fmt.Sprint(stats.Skipped),
			fmt.Sprint(stats.Misses),
			fmt.Sprint(stats.Invalid),
			strings.Join(diag.StoreKeys[d], ", "),
			status,
		})
	}
	if err := renderTable(out, []string{"Domain", "Records", "Skipped", "Misses", "Invalid", "Keys", "Status"}, rows); err != nil {
		return err
	}
	pterm.Info.WithWriter(out).Printf("Sync pass took %dms, %d unreadable store keys\n", diag.LastSyncMS, diag.StoreReadFailures)
	return nil
}
