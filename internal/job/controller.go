package job

import (
	"context"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/laundrymap/enrich-cli/internal/enrich"
	"github.com/laundrymap/enrich-cli/internal/model"
	"github.com/laundrymap/enrich-cli/internal/pipeline"
	"github.com/laundrymap/enrich-cli/internal/source"
)

// Controller submits enrichment runs as background jobs and answers
// status polls. Each job is mutated by exactly one goroutine; readers
// only ever see store snapshots. There is no cancellation: a submitted
// job runs to completion or failure.
type Controller struct {
	store     Store
	enricher  *enrich.Enricher
	chunkSize int
}

// NewController wires a controller to its job store and enricher.
func NewController(store Store, enricher *enrich.Enricher, chunkSize int) *Controller {
	if chunkSize <= 0 {
		chunkSize = 100
	}
	return &Controller{store: store, enricher: enricher, chunkSize: chunkSize}
}

// Submit validates the input file, registers a pending job, and starts
// processing in the background. Validation failures register nothing.
func (c *Controller) Submit(filePath, outputPath string) (string, error) {
	if _, err := os.Stat(filePath); err != nil {
		return "", eris.Wrapf(err, "job: input file not found: %s", filePath)
	}
	if outputPath == "" {
		outputPath = pipeline.DefaultOutputPath(filePath)
	}

	id := uuid.NewString()
	job := &model.BatchJob{
		ID:         id,
		FilePath:   filePath,
		OutputPath: outputPath,
		Status:     model.JobStatusPending,
		StartTime:  time.Now(),
	}
	if err := c.store.Create(job); err != nil {
		return "", err
	}

	go c.run(id, filePath, outputPath)

	zap.L().Info("job: submitted",
		zap.String("job_id", id),
		zap.String("file", filePath),
	)
	return id, nil
}

// Status returns a snapshot of the job. Unknown ids surface ErrNotFound.
func (c *Controller) Status(id string) (*model.BatchJob, error) {
	return c.store.Get(id)
}

// List returns snapshots of all known jobs, newest first.
func (c *Controller) List() []*model.BatchJob {
	return c.store.List()
}

// run executes one job. Concurrent jobs targeting the same output path
// are serialized with an advisory file lock so they cannot interleave
// writes.
func (c *Controller) run(id, filePath, outputPath string) {
	log := zap.L().With(zap.String("job_id", id), zap.String("file", filePath))

	lock := flock.New(outputPath + ".lock")
	if err := lock.Lock(); err != nil {
		c.fail(id, eris.Wrap(err, "job: acquire output lock"))
		return
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("job: release output lock", zap.Error(err))
		}
	}()

	c.transition(id, func(job *model.BatchJob) {
		job.Status = model.JobStatusProcessing
	})

	total, err := source.Count(filePath)
	if err != nil {
		c.fail(id, err)
		return
	}

	stats, err := pipeline.Run(context.Background(), pipeline.Options{
		InputPath:  filePath,
		OutputPath: outputPath,
		Enricher:   c.enricher,
		ChunkSize:  c.chunkSize,
		Total:      total,
		OnProgress: func(processed, total int) {
			c.setProgress(id, processed, total)
		},
	})
	if err != nil {
		c.fail(id, err)
		return
	}

	now := time.Now()
	c.transition(id, func(job *model.BatchJob) {
		job.Status = model.JobStatusCompleted
		job.Stats = stats.Clone()
		job.Progress = 100
		job.EndTime = &now
	})

	log.Info("job: completed",
		zap.Int("total", stats.TotalRecords),
		zap.Int("enriched", stats.EnrichedRecords),
		zap.Int("duplicates", stats.DuplicatesRemoved),
	)
}

// setProgress advances progress monotonically, capped at 99 while the
// job is still processing. Only the completed transition writes 100.
func (c *Controller) setProgress(id string, processed, total int) {
	if total <= 0 {
		return
	}
	pct := processed * 100 / total
	if pct > 99 {
		pct = 99
	}
	c.transition(id, func(job *model.BatchJob) {
		if pct > job.Progress {
			job.Progress = pct
		}
	})
}

// fail marks the job failed. Partial output already written is left in
// place; nothing is rolled back.
func (c *Controller) fail(id string, err error) {
	now := time.Now()
	c.transition(id, func(job *model.BatchJob) {
		job.Status = model.JobStatusFailed
		job.Error = err.Error()
		job.EndTime = &now
	})
	zap.L().Error("job: failed", zap.String("job_id", id), zap.Error(err))
}

// transition applies fn unless the job already reached a terminal
// state. Terminal states are never exited.
func (c *Controller) transition(id string, fn func(*model.BatchJob)) {
	err := c.store.Update(id, func(job *model.BatchJob) {
		if job.Status.Terminal() {
			return
		}
		fn(job)
	})
	if err != nil {
		zap.L().Warn("job: update failed", zap.String("job_id", id), zap.Error(err))
	}
}
