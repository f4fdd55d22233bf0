package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage knowledge-base sources",
}

var sourcesListCmd = &cobra.Command{
	Use:   "list [domain]",
	Short: "List the ingested sources for a domain",
	Args:  cobra.ExactArgs(1),
	RunE:  runSourcesList,
}

var sourcesRemoveCmd = &cobra.Command{
	Use:   "remove [domain] [source]",
	Short: "Remove a source and its chunks from a domain",
	Args:  cobra.ExactArgs(2),
	RunE:  runSourcesRemove,
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)
	sourcesCmd.AddCommand(sourcesRemoveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func runSourcesList(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dom := domain.Domain(args[0])
	sources, err := knowledgeService.Sources(context.Background(), dom)
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}

	if len(sources) == 0 {
		cmd.Printf("No sources in %s.\n", dom)
		return nil
	}

	cmd.Printf("Sources in %s:\n", dom)
	for i := range sources {
		cmd.Printf("  %s (%d chunks, %d bytes)\n",
			sources[i].Source, sources[i].ChunkCount, sources[i].TotalSize)
	}

	return nil
}

func runSourcesRemove(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	dom := domain.Domain(args[0])
	source := args[1]

	removed, err := knowledgeService.Remove(context.Background(), dom, source)
	if err != nil {
		return fmt.Errorf("removing %s: %w", source, err)
	}
	if !removed {
		cmd.Printf("No source %s in %s\n", source, dom)
		return nil
	}

	cmd.Printf("Removed %s from %s\n", source, dom)
	return nil
}
