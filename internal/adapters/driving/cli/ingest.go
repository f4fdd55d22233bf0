package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/switchboard-labs/switchboard-cli/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [domain] [path]",
	Short: "Ingest a document into a knowledge base",
	Long: `Chunks, embeds, and indexes a document into a domain's knowledge base.
Re-ingesting an existing source replaces its chunks.

When path is a directory, every supported file in it is ingested;
unsupported formats are skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	dom := domain.Domain(args[0])
	path := args[1]

	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	ctx := context.Background()
	if info.IsDir() {
		return ingestDir(ctx, cmd, dom, path)
	}
	return ingestFile(ctx, cmd, dom, path)
}

func ingestFile(ctx context.Context, cmd *cobra.Command, dom domain.Domain, path string) error {
	report, err := knowledgeService.IngestFile(ctx, dom, path)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", path, err)
	}

	action := "Ingested"
	if report.Replaced {
		action = "Replaced"
	}
	cmd.Printf("%s %s into %s (%d chunks)\n", action, report.Source, report.Domain, report.Chunks)
	return nil
}

func ingestDir(ctx context.Context, cmd *cobra.Command, dom domain.Domain, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}

	var ingested, skipped int
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		report, err := knowledgeService.IngestFile(ctx, dom, path)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				cmd.Printf("  skipped %s (unsupported format)\n", entry.Name())
				skipped++
				continue
			}
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("  %s: %d chunks\n", report.Source, report.Chunks)
		ingested++
	}

	cmd.Printf("Ingested %d file(s) into %s (%d skipped)\n", ingested, dom, skipped)
	return nil
}
