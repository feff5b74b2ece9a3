package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zoomrx/agastya/internal/progress"
	"github.com/zoomrx/agastya/internal/research"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [directory]",
	Short: "Load a research corpus into the vector store",
	Long: `Reads .txt and .md files from the given directory, chunks them by
paragraph, embeds the chunks, and persists the vector index. Files may
start with Title:/Source:/Date:/URL: header lines followed by a blank
line; re-ingesting a file replaces its previous chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		store, err := loadVectorStore(cfg, embedder)
		if err != nil {
			return err
		}

		stats, err := research.Ingest(ctx, store, args[0], progress.NewReporter())
		if err != nil {
			return fmt.Errorf("ingesting corpus: %w", err)
		}

		vectorDir := vectorDirFor(cfg)
		if err := store.Persist(ctx, vectorDir); err != nil {
			return fmt.Errorf("persisting vector store: %w", err)
		}

		fmt.Printf("Ingested %d files (%d chunks). Index now holds %d documents.\n",
			stats.Files, stats.Chunks, store.Count())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}
