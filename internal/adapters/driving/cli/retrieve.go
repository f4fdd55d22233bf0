package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

var (
	retrieveLimit int
	retrieveJSON  bool
)

var retrieveCmd = &cobra.Command{
	Use:   "retrieve [domain] [query]",
	Short: "Search a knowledge base directly",
	Long: `Runs a similarity search against one domain's knowledge base without
involving an agent. Useful for inspecting what a specialist would see.`,
	Args: cobra.ExactArgs(2),
	RunE: runRetrieve,
}

func init() {
	retrieveCmd.Flags().IntVarP(&retrieveLimit, "limit", "n", 5, "maximum number of passages")
	retrieveCmd.Flags().BoolVar(&retrieveJSON, "json", false, "output passages as JSON")
	rootCmd.AddCommand(retrieveCmd)
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dom := domain.Domain(args[0])
	query := args[1]

	results, err := knowledgeService.Search(context.Background(), dom, query, retrieveLimit)
	if err != nil {
		return fmt.Errorf("retrieve failed: %w", err)
	}

	if retrieveJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No passages found.")
		return nil
	}

	cmd.Println("Passages:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] %s#%d (%.2f)\n",
			i+1, results[i].Source, results[i].Position, results[i].Score)
		cmd.Printf("      %s\n", results[i].Text)
		cmd.Println()
	}

	return nil
}
