package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the specialist agents",
	Long:  `Lists the specialist registry: one agent per domain, with its tools.`,
	RunE:  runAgents,
}

func init() {
	rootCmd.AddCommand(agentsCmd)
}

func runAgents(cmd *cobra.Command, _ []string) error {
	if len(specialists) == 0 {
		return errors.New("specialist registry not configured")
	}

	cmd.Println("Specialists:")
	cmd.Println()
	for i := range specialists {
		spec := &specialists[i]
		cmd.Printf("  %-12s %s\n", spec.Domain, spec.DisplayName)
		cmd.Printf("  %-12s %s\n", "", spec.Description)
		if len(spec.Tools) > 0 {
			cmd.Printf("  %-12s tools: %s\n", "", strings.Join(spec.Tools, ", "))
		}
		if spec.Retrieval {
			cmd.Printf("  %-12s retrieval: enabled\n", "")
		}
		cmd.Println()
	}

	return nil
}
