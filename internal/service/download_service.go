package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/iconidentify/clipgrab/internal/config"
	"github.com/iconidentify/clipgrab/internal/domain"
)

const (
	defaultBaseName  = "download"
	defaultExtension = ".mp4"
	partSuffix       = ".part"
)

// ProgressFunc receives a snapshot of the job after every change.
type ProgressFunc func(job domain.DownloadJob)

// DownloadService streams one media file at a time into the download
// directory.
type DownloadService struct {
	relay     RelayClient
	fs        afero.Fs
	dir       string
	hold      time.Duration
	chunkSize int
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	active *domain.DownloadJob
}

// NewDownloadService creates a download service writing into cfg.Dir on fs.
func NewDownloadService(
	relay RelayClient,
	fs afero.Fs,
	cfg config.DownloadConfig,
	logger *slog.Logger,
) *DownloadService {
	return &DownloadService{
		relay:     relay,
		fs:        fs,
		dir:       cfg.Dir,
		hold:      cfg.CompletionHold,
		chunkSize: cfg.ChunkSize,
		logger:    logger,
		now:       time.Now,
	}
}

// Dir returns the download directory.
func (s *DownloadService) Dir() string {
	return s.dir
}

// Active returns a snapshot of the job occupying the download slot.
func (s *DownloadService) Active() (domain.DownloadJob, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return domain.DownloadJob{}, false
	}
	return *s.active, true
}

// Download fetches entry through the relay and saves it under a timestamped
// name. It returns domain.ErrDownloadBusy without side effects when another
// download holds the slot. onProgress may be nil.
func (s *DownloadService) Download(ctx context.Context, entry domain.DownloadEntry, onProgress ProgressFunc) (*domain.DownloadJob, error) {
	filename := TimestampedFilename(entry.Filename, s.now())

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, domain.ErrDownloadBusy
	}
	job := domain.NewDownloadJob(domain.JobID(uuid.New().String()), entry.URL, filename)
	s.active = job
	s.mu.Unlock()

	emit := func() domain.DownloadJob {
		s.mu.Lock()
		snapshot := *job
		s.mu.Unlock()
		if onProgress != nil {
			onProgress(snapshot)
		}
		return snapshot
	}

	s.logger.Info("download started", "job_id", job.ID, "filename", filename)

	stream, err := s.relay.OpenStream(ctx, entry.URL, filename)
	if err != nil {
		return s.fail(job, emit, fmt.Errorf("%w: %w", domain.ErrDownloadFailed, err))
	}
	if !stream.OK() {
		if stream.Body != nil {
			stream.Body.Close()
		}
		if cause, ok := stream.TransportFailure(); ok {
			return s.fail(job, emit, fmt.Errorf("%w: %w: %s", domain.ErrDownloadFailed, domain.ErrNetworkFailure, cause))
		}
		upstream := &domain.UpstreamError{Status: stream.Status, Body: envelopeMessage(stream.ErrorBody)}
		return s.fail(job, emit, fmt.Errorf("%w: status %d: %w", domain.ErrDownloadFailed, stream.Status, upstream))
	}
	defer stream.Body.Close()

	s.mu.Lock()
	job.SetExpected(stream.ContentLength)
	s.mu.Unlock()
	emit()

	if err := s.fs.MkdirAll(s.dir, 0755); err != nil {
		return s.fail(job, emit, fmt.Errorf("%w: create download dir: %w", domain.ErrDownloadFailed, err))
	}

	finalPath := filepath.Join(s.dir, filename)
	partPath := finalPath + partSuffix

	f, err := s.fs.Create(partPath)
	if err != nil {
		return s.fail(job, emit, fmt.Errorf("%w: create file: %w", domain.ErrDownloadFailed, err))
	}

	for chunk, readErr := range Chunks(stream.Body, s.chunkSize) {
		if readErr != nil {
			f.Close()
			s.fs.Remove(partPath)
			s.logger.Warn("download stream broke", "job_id", job.ID, "error", readErr)
			return s.fail(job, emit, domain.ErrDownloadStreamFailure)
		}
		if _, err := f.Write(chunk); err != nil {
			f.Close()
			s.fs.Remove(partPath)
			return s.fail(job, emit, fmt.Errorf("%w: write file: %w", domain.ErrDownloadFailed, err))
		}

		s.mu.Lock()
		job.AddBytes(len(chunk))
		s.mu.Unlock()
		emit()
	}

	if err := f.Close(); err != nil {
		s.fs.Remove(partPath)
		return s.fail(job, emit, fmt.Errorf("%w: close file: %w", domain.ErrDownloadFailed, err))
	}
	if err := s.fs.Rename(partPath, finalPath); err != nil {
		s.fs.Remove(partPath)
		return s.fail(job, emit, fmt.Errorf("%w: save file: %w", domain.ErrDownloadFailed, err))
	}

	s.mu.Lock()
	job.MarkCompleted()
	s.mu.Unlock()
	final := emit()

	s.logger.Info("download completed",
		"job_id", job.ID,
		"path", finalPath,
		"bytes", final.BytesReceived,
	)

	// Keep the finished job visible briefly before freeing the slot.
	if s.hold > 0 {
		time.AfterFunc(s.hold, func() { s.release(job) })
	} else {
		s.release(job)
	}

	return &final, nil
}

// Path returns where a finished job's file lives.
func (s *DownloadService) Path(job domain.DownloadJob) string {
	return filepath.Join(s.dir, job.TargetFilename)
}

func (s *DownloadService) fail(job *domain.DownloadJob, emit func() domain.DownloadJob, err error) (*domain.DownloadJob, error) {
	s.mu.Lock()
	job.MarkFailed(err.Error())
	s.mu.Unlock()
	final := emit()
	s.release(job)

	s.logger.Warn("download failed", "job_id", job.ID, "error", err)
	return &final, err
}

func (s *DownloadService) release(job *domain.DownloadJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == job {
		s.active = nil
	}
}

// Chunks yields successive reads from r. Each chunk is only valid until
// the next iteration. A read error is yielded once and ends the sequence.
func Chunks(r io.Reader, size int) iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		buf := make([]byte, size)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				if !yield(buf[:n], nil) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}

// TimestampedFilename derives the saved filename from an entry filename:
// <base>_<UTC yyyymmddThhmmssSSS><ext>. The base defaults to "download"
// and the extension to ".mp4".
func TimestampedFilename(name string, t time.Time) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	if ext == "." {
		ext = ""
	}
	if base == "" {
		base = defaultBaseName
	}
	if ext == "" {
		ext = defaultExtension
	}

	t = t.UTC()
	stamp := fmt.Sprintf("%s%03d", t.Format("20060102T150405"), t.Nanosecond()/int(time.Millisecond))
	return base + "_" + stamp + ext
}

// envelopeMessage extracts the error text of a relay error body.
func envelopeMessage(body json.RawMessage) string {
	var env domain.ErrorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Error == "" {
		return string(body)
	}
	return env.Error
}
