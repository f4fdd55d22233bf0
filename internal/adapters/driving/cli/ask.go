package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
	"github.com/switchboard-labs/switchboard-cli/internal/core/ports/driving"
)

var (
	askSession string
	askDomain  string
	askTopK    int
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [query]",
	Short: "Ask a question",
	Long: `Routes a question to the best specialist agent and prints the answer.
Ambiguous questions are dispatched to several specialists and the
answers are synthesised into one.

Use --session to keep conversation context across questions, and
--domain to force a specific specialist instead of routing.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSession, "session", "s", "", "session ID for multi-turn context")
	askCmd.Flags().StringVarP(&askDomain, "domain", "d", "", "force dispatch to this domain")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 = default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	query := args[0]

	if assistantService == nil {
		return errors.New("assistant service not configured")
	}

	ctx := context.Background()
	opts := driving.AskOptions{
		SessionID: askSession,
		Domain:    domain.Domain(askDomain),
		TopK:      askTopK,
	}

	answer, err := assistantService.Ask(ctx, query, opts)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}

	return outputAskText(cmd, answer)
}

func outputAskJSON(cmd *cobra.Command, answer domain.AgentAnswer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputAskText(cmd *cobra.Command, answer domain.AgentAnswer) error {
	cmd.Println(answer.Text)
	cmd.Println()
	cmd.Printf("[%s | %s | confidence %.2f]\n", answer.Domain, answer.Outcome, answer.Confidence)

	if len(answer.Sources) > 0 {
		cmd.Println("Sources:")
		for i := range answer.Sources {
			cmd.Printf("  [%d] %s#%d (%.2f)\n",
				i+1, answer.Sources[i].Source, answer.Sources[i].Position, answer.Sources[i].Score)
		}
	}

	return nil
}
