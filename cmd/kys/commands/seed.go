package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/atakanbattal/Kademe-KYS-sub003/internal/fixtures"
	"github.com/atakanbattal/Kademe-KYS-sub003/quality"
)

// SeedCmd writes demo records
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write deterministic demo records to the store",
	Long: `Generate demo records for every domain and write them to each domain's primary key,
replacing what is there. The same --seed always produces the same records.

Examples:
  kys seed
  kys seed --seed 7 --scale 3`,
	RunE: runSeed,
}

var (
	seedValue int64
	seedScale int
)

func init() {
	SeedCmd.Flags().Int64Var(&seedValue, "seed", 42, "Random seed")
	SeedCmd.Flags().IntVar(&seedScale, "scale", 1, "Multiply the default record counts")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedScale < 1 {
		return fmt.Errorf("--scale must be at least 1, got %d", seedScale)
	}
	ctx := context.Background()
	rt, err := openRuntime(ctx, false)
	if err != nil {
		return err
	}
	defer rt.Close()

	sizes := fixtures.DefaultSizes
	sizes.CorrectiveActions *= seedScale
	sizes.Suppliers *= seedScale
	sizes.QualityCosts *= seedScale
	sizes.VehicleInspections *= seedScale
	sizes.Audits *= seedScale

	data := fixtures.New(seedValue, time.Now()).All(sizes)
	if err := fixtures.Seed(ctx, rt.adapter, data); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	rows := make([][]string, 0, len(quality.Domains))
	for _, d := range quality.Domains {
		rows = append(rows, []string{string(d), rt.adapter.KeyMap().Primary(d), fmt.Sprint(len(data[d]))})
	}
	if err := renderTable(out, []string{"Domain", "Key", "Records"}, rows); err != nil {
		return err
	}
	pterm.Success.WithWriter(out).Printf("Seeded store with seed %d\n", seedValue)
	return nil
}
