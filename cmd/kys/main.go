package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/cmd/kys/commands"
	"github.com/atakanbattal/Kademe-KYS-sub003/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kys",
	Short: "KYS - quality metrics sync and aggregation engine",
	Long: `KYS - quality management metrics engine.

KYS reads the raw records quality modules keep in a shared key-value store (DÖF/8D
corrective actions, suppliers, cost of quality, vehicle inspections, internal audits),
normalizes them, and serves per-domain summaries that stay current through a periodic
sync pass.

Available commands:
  serve    - Run the sync scheduler and the HTTP/WebSocket API
  summary  - Compute and print domain summaries
  diag     - Show engine diagnostics after one sync pass
  kpi      - Evaluate KPI targets against current summaries
  store    - Read and write raw record arrays
  seed     - Write deterministic demo records to the store
  am       - Show and edit configuration

Examples:
  kys summary dof            # DÖF/8D summary as a table
  kys summary --json         # Every domain as JSON
  kys seed --seed 42         # Fill the store with demo data
  kys serve                  # Start the API on server.port`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Machine-readable output must stay clean
		if cmd.Name() == "show" || cmd.Name() == "version" {
			return nil
		}
		if err := commands.InitLogger(cmd); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")

	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SummaryCmd)
	rootCmd.AddCommand(commands.DiagCmd)
	rootCmd.AddCommand(commands.KPICmd)
	rootCmd.AddCommand(commands.StoreCmd)
	rootCmd.AddCommand(commands.SeedCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
