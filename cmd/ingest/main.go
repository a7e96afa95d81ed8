package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftlabs/flowmcp/internal/config"
	"github.com/driftlabs/flowmcp/internal/docs/cache"
	"github.com/driftlabs/flowmcp/internal/docs/embedder"
	"github.com/driftlabs/flowmcp/internal/docs/fetcher"
	"github.com/driftlabs/flowmcp/internal/docs/pipeline"
	"github.com/driftlabs/flowmcp/internal/docs/vectorstore"
)

var (
	flagConfig  string
	flagWorkers int
	flagReset   bool
	flagNoCache bool
)

func main() {
	log.SetOutput(os.Stderr)

	rootCmd := &cobra.Command{
		Use:   "ingest [test|prod]",
		Short: "Ingest platform documentation into the vector store",
		Long: `Ingest fetches the documentation sitemap, chunks every page, embeds the
chunks and upserts them into the vector store.

Without arguments the run writes to the testing namespace, as does "test" or
any other mode value. Only "prod" writes to the production namespace.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runIngest,

		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a YAML config file")
	rootCmd.Flags().IntVar(&flagWorkers, "workers", 0, "concurrent page workers (default: CPU count)")
	rootCmd.Flags().BoolVar(&flagReset, "reset", false, "delete the target namespace before ingesting")
	rootCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "bypass the fetch+chunk cache")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runIngest(cmd *cobra.Command, args []string) error {
	prodMode := prodModeFromArgs(args)

	var cfg *config.Config
	var err error
	if flagConfig != "" {
		cfg, err = config.Load(flagConfig)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.ValidateForIngest(); err != nil {
		return err
	}

	namespace := cfg.NamespaceFor(prodMode)
	log.Printf("ingest: mode=%s namespace=%s", modeName(prodMode), namespace)

	store, err := vectorstore.NewTurbopufferStore(cfg.VectorStore)
	if err != nil {
		return fmt.Errorf("initialize vector store: %w", err)
	}

	emb, err := embedder.New(cfg.Embedding)
	if err != nil {
		return fmt.Errorf("initialize embedder: %w", err)
	}
	defer func() { _ = emb.Close() }()

	var chunkCache cache.Cache
	if flagNoCache {
		chunkCache = cache.NewNoop()
	} else {
		chunkCache, err = cache.NewSQLiteCache(cfg.Docs.CachePath)
		if err != nil {
			return fmt.Errorf("open chunk cache: %w", err)
		}
	}
	defer func() { _ = chunkCache.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := pipeline.New(fetcher.New(), chunkCache, emb, store)
	stats, err := p.Run(ctx, cfg.Docs.SitemapURL, &pipeline.Options{
		Namespace:    namespace,
		CacheVersion: cfg.Docs.CacheVersion,
		Workers:      flagWorkers,
		Reset:        flagReset,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Ingestion complete (namespace %s)\n", namespace)
	fmt.Printf("  processed: %d\n", stats.Processed)
	fmt.Printf("  cached:    %d\n", stats.Skipped)
	fmt.Printf("  failed:    %d\n", stats.Failed)
	fmt.Printf("  chunks:    %d\n", stats.ChunksUpserted)
	fmt.Printf("  duration:  %s\n", stats.Duration.Round(time.Millisecond))
	for _, msg := range stats.ErrorMessages {
		fmt.Printf("  error: %s\n", msg)
	}
	return nil
}

// prodModeFromArgs reads the optional run-mode argument. Only the literal
// "prod" selects the production namespace; anything else, including "test"
// and no argument at all, is a test run.
func prodModeFromArgs(args []string) bool {
	return len(args) == 1 && args[0] == "prod"
}

func modeName(prodMode bool) string {
	if prodMode {
		return "prod"
	}
	return "test"
}
