package model

import "time"

// JobStatus represents the lifecycle state of a batch enrichment job.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Terminal reports whether a job in this status will never transition
// again.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// BatchJob tracks one asynchronous enrichment run. A job is owned by a
// single background goroutine; everything readers see is a snapshot.
type BatchJob struct {
	ID         string           `json:"id"`
	FilePath   string           `json:"file_path"`
	OutputPath string           `json:"output_path"`
	Status     JobStatus        `json:"status"`
	Progress   int              `json:"progress"`
	Stats      *EnrichmentStats `json:"stats,omitempty"`
	Error      string           `json:"error,omitempty"`
	StartTime  time.Time        `json:"start_time"`
	EndTime    *time.Time       `json:"end_time,omitempty"`
}

// Clone returns a deep copy of the job.
func (j *BatchJob) Clone() *BatchJob {
	if j == nil {
		return nil
	}
	out := *j
	out.Stats = j.Stats.Clone()
	if j.EndTime != nil {
		t := *j.EndTime
		out.EndTime = &t
	}
	return &out
}
