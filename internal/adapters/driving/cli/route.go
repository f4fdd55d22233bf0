package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route [query]",
	Short: "Show how a query would be routed",
	Long: `Scores a query against every specialist domain without generating an
answer. Useful for inspecting routing decisions.`,
	Args: cobra.ExactArgs(1),
	RunE: runRoute,
}

func init() {
	rootCmd.AddCommand(routeCmd)
}

func runRoute(cmd *cobra.Command, args []string) error {
	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	scores, err := assistantService.Route(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("route failed: %w", err)
	}

	cmd.Println("Routing scores:")
	for i := range scores {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		cmd.Printf("  %s %-12s %.2f\n", marker, scores[i].Domain, scores[i].Confidence)
	}

	return nil
}
