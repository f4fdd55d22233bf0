package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/adapters/driving/watcher"
	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Watch a dataset directory and keep knowledge bases in sync",
	Long: `Watches a directory tree with one subdirectory per domain. Files
dropped into datasets/medical/ are ingested into the medical knowledge
base; deleted files are removed. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	domains := make([]domain.Domain, 0, len(specialists))
	for i := range specialists {
		if specialists[i].Retrieval {
			domains = append(domains, specialists[i].Domain)
		}
	}
	if len(domains) == 0 {
		return errors.New("no retrieval-enabled domains configured")
	}

	w, err := watcher.New(knowledgeService, args[0], domains)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	cmd.Printf("Watching %s (ctrl-c to stop)\n", args[0])
	return w.Run(cmd.Context())
}
