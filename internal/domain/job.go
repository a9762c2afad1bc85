package domain

import (
	"time"

	"github.com/samber/mo"
)

// JobID is a unique identifier for a download job.
type JobID string

// String returns the string representation of the JobID.
func (id JobID) String() string {
	return string(id)
}

// JobStatus represents the current state of a download job.
type JobStatus string

const (
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// DownloadJob tracks one in-flight download. BytesExpected is None when the
// upstream did not declare a Content-Length, and Percent stays None while
// such a download is in flight. MarkCompleted always sets Percent to 100.
type DownloadJob struct {
	ID             JobID
	SourceURL      string
	TargetFilename string
	BytesExpected  mo.Option[int64]
	BytesReceived  int64
	Percent        mo.Option[int]
	Status         JobStatus
	Error          string
	StartedAt      time.Time
	FinishedAt     *time.Time
}

// NewDownloadJob creates an active job for the given source and filename.
func NewDownloadJob(id JobID, sourceURL, filename string) *DownloadJob {
	return &DownloadJob{
		ID:             id,
		SourceURL:      sourceURL,
		TargetFilename: filename,
		BytesExpected:  mo.None[int64](),
		Percent:        mo.None[int](),
		Status:         JobStatusActive,
		StartedAt:      time.Now(),
	}
}

// SetExpected records the declared size. Non-positive sizes are unknown.
func (j *DownloadJob) SetExpected(size int64) {
	if size > 0 {
		j.BytesExpected = mo.Some(size)
		j.Percent = mo.Some(0)
	}
}

// AddBytes folds a received chunk into the job. While the transfer is in
// flight the percentage is capped at 99 and never decreases; 100 is only
// reported by MarkCompleted.
func (j *DownloadJob) AddBytes(n int) {
	if n <= 0 {
		return
	}
	j.BytesReceived += int64(n)

	expected, ok := j.BytesExpected.Get()
	if !ok {
		return
	}
	pct := int(j.BytesReceived * 100 / expected)
	if pct > 99 {
		pct = 99
	}
	if pct < j.Percent.OrElse(0) {
		return
	}
	j.Percent = mo.Some(pct)
}

// IsActive reports whether the job still occupies the download slot.
func (j *DownloadJob) IsActive() bool {
	return j.Status == JobStatusActive
}

// MarkCompleted finishes the job at 100%.
func (j *DownloadJob) MarkCompleted() {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.Percent = mo.Some(100)
	j.FinishedAt = &now
}

// MarkFailed finishes the job with an error message.
func (j *DownloadJob) MarkFailed(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.Error = err
	j.FinishedAt = &now
}
