// Package pipeline streams listing records from an input file through
// deduplication and enrichment into an output CSV.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laundrymap/enrich-cli/internal/enrich"
	"github.com/laundrymap/enrich-cli/internal/model"
	"github.com/laundrymap/enrich-cli/internal/source"
)

// Options configures one pipeline run.
type Options struct {
	InputPath  string
	OutputPath string // defaults to "<input>_enriched.csv" next to the input
	Enricher   *enrich.Enricher
	ChunkSize  int // records per progress callback, default 100

	// OnProgress, when set, is called after every chunk with the number
	// of records processed so far and the precomputed total (0 when the
	// total is unknown).
	OnProgress func(processed, total int)
	Total      int
}

// Result is the synchronous run outcome surfaced to callers.
type Result struct {
	Success      bool                   `json:"success"`
	Message      string                 `json:"message"`
	EnrichedPath string                 `json:"enriched_path,omitempty"`
	Stats        *model.EnrichmentStats `json:"stats,omitempty"`
}

// DefaultOutputPath derives the output file name from the input path.
func DefaultOutputPath(inputPath string) string {
	ext := filepath.Ext(inputPath)
	return strings.TrimSuffix(inputPath, ext) + "_enriched.csv"
}

// Run processes the input file record by record in input order:
// deduplicate, enrich, write. Per-record failures are recorded in the
// stats and the original row is emitted unenriched; only input-level
// problems (missing file, unreadable output) abort the run.
func Run(ctx context.Context, opts Options) (*model.EnrichmentStats, error) {
	if _, err := os.Stat(opts.InputPath); err != nil {
		return nil, eris.Wrapf(err, "pipeline: input file not found: %s", opts.InputPath)
	}
	if opts.Enricher == nil {
		return nil, eris.New("pipeline: enricher is required")
	}
	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath(opts.InputPath)
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 100
	}

	log := zap.L().With(zap.String("input", opts.InputPath))
	start := time.Now()

	src, err := source.Open(opts.InputPath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	out, err := newWriter(outputPath, src.Header())
	if err != nil {
		return nil, err
	}

	stats := &model.EnrichmentStats{}
	deduper := enrich.NewDeduper()
	processed := 0

	for {
		if err := ctx.Err(); err != nil {
			out.Close()
			return stats, eris.Wrap(err, "pipeline: cancelled")
		}

		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		var rowErr *source.RowError
		if err != nil && !errors.As(err, &rowErr) {
			// The stream itself broke; repeated reads would not advance.
			out.Close()
			return stats, eris.Wrap(err, "pipeline: read input")
		}

		processed++
		stats.TotalRecords++

		if err != nil {
			// Malformed row: record and move on.
			stats.Errors = append(stats.Errors,
				fmt.Sprintf("row %d: %s", stats.TotalRecords, err.Error()))
			reportProgress(opts, processed, chunkSize)
			continue
		}

		key := enrich.NormalizeAddress(rec.Address, rec.City, rec.State, rec.Zip)
		if deduper.Seen(key) {
			stats.DuplicatesRemoved++
			reportProgress(opts, processed, chunkSize)
			continue
		}

		enriched, err := opts.Enricher.Enrich(rec)
		if err != nil {
			stats.Errors = append(stats.Errors,
				fmt.Sprintf("row %d: %s", stats.TotalRecords, err.Error()))
			// The original record is still emitted, never silently dropped.
			if werr := out.writeRaw(rec); werr != nil {
				out.Close()
				return stats, werr
			}
			reportProgress(opts, processed, chunkSize)
			continue
		}

		if werr := out.writeEnriched(enriched); werr != nil {
			out.Close()
			return stats, werr
		}
		stats.EnrichedRecords++
		reportProgress(opts, processed, chunkSize)
	}

	if err := out.Close(); err != nil {
		return stats, err
	}

	if opts.OnProgress != nil {
		opts.OnProgress(processed, opts.Total)
	}

	log.Info("pipeline: run complete",
		zap.String("output", outputPath),
		zap.Int("total", stats.TotalRecords),
		zap.Int("enriched", stats.EnrichedRecords),
		zap.Int("duplicates", stats.DuplicatesRemoved),
		zap.Int("errors", len(stats.Errors)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return stats, nil
}

func reportProgress(opts Options, processed, chunkSize int) {
	if opts.OnProgress != nil && processed%chunkSize == 0 {
		opts.OnProgress(processed, opts.Total)
	}
}
