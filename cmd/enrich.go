package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/laundrymap/enrich-cli/internal/enrich"
	"github.com/laundrymap/enrich-cli/internal/pipeline"
)

var enrichOutputDir string

var enrichCmd = &cobra.Command{
	Use:   "enrich <file>...",
	Short: "Enrich listing files synchronously",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		enricher, err := newEnricher()
		if err != nil {
			return err
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(maxConcurrentFiles())

		results := make([]*pipeline.Result, len(args))
		for i, input := range args {
			g.Go(func() error {
				results[i] = runOne(gctx, input, enricher)
				return nil // per-file failures are reported, not fatal to the batch
			})
		}
		if err := g.Wait(); err != nil {
			return eris.Wrap(err, "enrich")
		}

		failed := 0
		for i, res := range results {
			if res.Success {
				fmt.Printf("%s: %s -> %s\n", args[i], res.Message, res.EnrichedPath)
			} else {
				failed++
				fmt.Printf("%s: %s\n", args[i], res.Message)
			}
		}
		if failed > 0 {
			return eris.Errorf("enrich: %d of %d files failed", failed, len(args))
		}
		return nil
	},
}

// runOne enriches a single file and folds the outcome into a Result.
func runOne(ctx context.Context, input string, enricher *enrich.Enricher) *pipeline.Result {
	outputPath := outputPathFor(input)

	stats, err := pipeline.Run(ctx, pipeline.Options{
		InputPath:  input,
		OutputPath: outputPath,
		Enricher:   enricher,
		ChunkSize:  cfg.Enrich.ChunkSize,
	})
	if err != nil {
		zap.L().Error("enrich: file failed", zap.String("input", input), zap.Error(err))
		return &pipeline.Result{Success: false, Message: err.Error()}
	}

	return &pipeline.Result{
		Success: true,
		Message: fmt.Sprintf("enriched %d of %d records (%d duplicates, %d errors)",
			stats.EnrichedRecords, stats.TotalRecords,
			stats.DuplicatesRemoved, len(stats.Errors)),
		EnrichedPath: outputPath,
		Stats:        stats,
	}
}

// maxConcurrentFiles guards the configured limit: zero or negative
// would make every errgroup Go call block forever.
func maxConcurrentFiles() int {
	if n := cfg.Enrich.MaxConcurrentFiles; n > 0 {
		return n
	}
	return 4
}

// outputPathFor honors --output-dir and the configured output
// directory, falling back to a sibling of the input file.
func outputPathFor(input string) string {
	dir := enrichOutputDir
	if dir == "" {
		dir = cfg.Enrich.OutputDir
	}
	if dir == "" || dir == "." {
		return pipeline.DefaultOutputPath(input)
	}
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+"_enriched.csv")
}

func init() {
	enrichCmd.Flags().StringVar(&enrichOutputDir, "output-dir", "", "directory for enriched output (default next to input)")
	rootCmd.AddCommand(enrichCmd)
}
