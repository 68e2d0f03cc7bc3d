package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/laundrymap/enrich-cli/internal/job"
	"github.com/laundrymap/enrich-cli/internal/model"
)

var batchPollInterval time.Duration

var batchCmd = &cobra.Command{
	Use:   "batch <file>...",
	Short: "Enrich listing files as background jobs",
	Long:  "Submits each file as a background job, polls progress until all jobs finish, and prints a summary table. Job state lives in this process only.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		enricher, err := newEnricher()
		if err != nil {
			return err
		}
		controller := job.NewController(job.NewMemoryStore(), enricher, cfg.Enrich.ChunkSize)

		ids := make([]string, 0, len(args))
		for _, input := range args {
			id, err := controller.Submit(input, outputPathFor(input))
			if err != nil {
				zap.L().Error("batch: submit failed", zap.String("file", input), zap.Error(err))
				fmt.Printf("%s: %v\n", input, err)
				continue
			}
			ids = append(ids, id)
		}
		if len(ids) == 0 {
			return fmt.Errorf("batch: no jobs submitted")
		}

		waitForJobs(controller, ids)

		rows := make([][]string, 0, len(ids))
		failed := 0
		for _, id := range ids {
			j, err := controller.Status(id)
			if err != nil {
				continue
			}
			rows = append(rows, jobRow(j))
			if j.Status == model.JobStatusFailed {
				failed++
			}
		}
		fmt.Println(renderTable(
			[]string{"File", "Status", "Total", "Enriched", "Dupes", "Errors"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight},
		))

		if failed > 0 {
			return fmt.Errorf("batch: %d of %d jobs failed", failed, len(ids))
		}
		return nil
	},
}

// waitForJobs polls until every job reaches a terminal state.
func waitForJobs(controller *job.Controller, ids []string) {
	for {
		done := 0
		for _, id := range ids {
			j, err := controller.Status(id)
			if err != nil || j.Status.Terminal() {
				done++
			}
		}
		if done == len(ids) {
			return
		}
		time.Sleep(batchPollInterval)
	}
}

func jobRow(j *model.BatchJob) []string {
	if j.Status == model.JobStatusFailed {
		return []string{j.FilePath, string(j.Status), "", "", "", j.Error}
	}
	stats := j.Stats
	if stats == nil {
		stats = &model.EnrichmentStats{}
	}
	return []string{
		j.FilePath,
		string(j.Status),
		strconv.Itoa(stats.TotalRecords),
		strconv.Itoa(stats.EnrichedRecords),
		strconv.Itoa(stats.DuplicatesRemoved),
		strconv.Itoa(len(stats.Errors)),
	}
}

func init() {
	batchCmd.Flags().DurationVar(&batchPollInterval, "poll-interval", 200*time.Millisecond, "job status poll interval")
	rootCmd.AddCommand(batchCmd)
}
