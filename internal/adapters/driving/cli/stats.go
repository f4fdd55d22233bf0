package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show query metrics per domain",
	Long:  `Aggregates recorded query metrics: volume, failures, and averages per domain.`,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if metricsStore == nil {
		return errors.New("metrics store not configured")
	}

	stats, err := metricsStore.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	if len(stats) == 0 {
		cmd.Println("No queries recorded.")
		return nil
	}

	cmd.Printf("%-12s %8s %8s %12s %12s\n", "DOMAIN", "QUERIES", "FAILED", "AVG CONF", "AVG TIME")
	for i := range stats {
		cmd.Printf("%-12s %8d %8d %12.2f %12s\n",
			stats[i].Domain, stats[i].Queries, stats[i].Failures,
			stats[i].AvgConfidence, stats[i].AvgDuration.Round(time.Millisecond))
	}

	return nil
}
