package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/Sl0thC0der/yt-download-ng/internal/entity"
	"github.com/Sl0thC0der/yt-download-ng/internal/hub"
	"github.com/Sl0thC0der/yt-download-ng/internal/profiles"
	"github.com/Sl0thC0der/yt-download-ng/internal/runner"
	"github.com/Sl0thC0der/yt-download-ng/internal/store"
)

var (
	ErrEmptyURL       = errors.New("url is required")
	ErrUnknownProfile = errors.New("unknown profile")
	ErrBadSettings    = errors.New("invalid settings")
	ErrNotCancellable = errors.New("job not cancellable in current state")
	ErrNotRetryable   = errors.New("job not retryable in current state")
)

// auto_retry gives up after this many attempts per lineage.
const maxAutoRetries = 3

// Runner executes the external download tool for one job.
type Runner interface {
	Run(ctx context.Context, url, profile string, onLine func(string)) (runner.Status, error)
}

// Profiles answers whether a profile name is known.
type Profiles interface {
	Exists(name string) bool
}

// Scheduler admits pending jobs under the concurrency cap, dispatches them
// to the runner and records every transition in the store, publishing each
// one to the hub. Admission is FIFO over pending jobs.
type Scheduler struct {
	store    *store.Store
	hub      *hub.Hub
	runner   Runner
	profiles Profiles

	mu       sync.Mutex
	settings entity.Settings
	pending  []uuid.UUID
	running  int
	cancels  map[uuid.UUID]context.CancelFunc
	wake     chan struct{}
}

func New(st *store.Store, h *hub.Hub, r Runner, p Profiles, settings entity.Settings) *Scheduler {
	if settings.MaxConcurrent < 1 {
		settings.MaxConcurrent = 1
	}
	return &Scheduler{
		store:    st,
		hub:      h,
		runner:   r,
		profiles: p,
		settings: settings,
		cancels:  make(map[uuid.UUID]context.CancelFunc),
		wake:     make(chan struct{}, 1),
	}
}

// Start launches the admission loop; it exits when ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.wake:
			}
			s.admit(ctx)
		}
	}()
}

// Submit validates the request and enqueues a new pending job.
// An unknown profile creates no job record.
func (s *Scheduler) Submit(url, profile string) (uuid.UUID, error) {
	if strings.TrimSpace(url) == "" {
		return uuid.Nil, ErrEmptyURL
	}
	if profile == "" {
		profile = profiles.DefaultProfile
	}
	if !s.profiles.Exists(profile) {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownProfile, profile)
	}

	job := s.store.Create(url, profile, nil, 0)
	s.enqueue(job)
	return job.ID, nil
}

// Retry creates a brand-new pending job with the failed job's url and
// profile. The original record is left untouched.
func (s *Scheduler) Retry(id uuid.UUID) (uuid.UUID, error) {
	orig, err := s.store.Get(id)
	if err != nil {
		return uuid.Nil, err
	}
	if orig.Status != entity.StatusFailed {
		return uuid.Nil, ErrNotRetryable
	}

	origID := orig.ID
	job := s.store.Create(orig.URL, orig.Profile, &origID, orig.RetryCount+1)
	log.Printf("[scheduler] job_id=%s retry_of=%s attempt=%d", job.ID, origID, job.RetryCount)
	s.enqueue(job)
	return job.ID, nil
}

func (s *Scheduler) enqueue(job *entity.Job) {
	s.mu.Lock()
	s.pending = append(s.pending, job.ID)
	s.mu.Unlock()

	log.Printf("[scheduler] job_id=%s status=pending url=%s profile=%s", job.ID, job.URL, job.Profile)
	s.publish(job, job.Logs...)
	s.kick()
}

// Cancel stops a pending or running job. A pending job goes straight to
// failed without the runner ever being invoked; a running job is signalled
// and reaches failed only once its process has actually terminated.
func (s *Scheduler) Cancel(id uuid.UUID) error {
	s.mu.Lock()
	for i, pid := range s.pending {
		if pid != id {
			continue
		}
		s.pending = append(s.pending[:i], s.pending[i+1:]...)
		s.mu.Unlock()

		job, err := s.store.Update(id, func(j *entity.Job) {
			j.Status = entity.StatusFailed
			j.Cancelled = true
			j.Logs = append(j.Logs, "cancelled before start")
		})
		if err != nil {
			return err
		}
		log.Printf("[scheduler] job_id=%s status=failed cancelled=true (was pending)", id)
		s.publish(job, "cancelled before start")
		return nil
	}
	cancel, ok := s.cancels[id]
	s.mu.Unlock()

	if ok {
		cancel()
		return nil
	}
	if _, err := s.store.Get(id); err != nil {
		return err
	}
	return ErrNotCancellable
}

// Settings returns the current settings snapshot.
func (s *Scheduler) Settings() entity.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies a partial update; the new cap takes effect on the
// next admission decision.
func (s *Scheduler) UpdateSettings(patch entity.SettingsPatch) (entity.Settings, error) {
	if patch.MaxConcurrent != nil && *patch.MaxConcurrent < 1 {
		return entity.Settings{}, fmt.Errorf("%w: max_concurrent must be at least 1", ErrBadSettings)
	}
	if patch.CleanupDays != nil && *patch.CleanupDays < 0 {
		return entity.Settings{}, fmt.Errorf("%w: cleanup_days must not be negative", ErrBadSettings)
	}

	s.mu.Lock()
	if patch.MaxConcurrent != nil {
		s.settings.MaxConcurrent = *patch.MaxConcurrent
	}
	if patch.AutoRetry != nil {
		s.settings.AutoRetry = *patch.AutoRetry
	}
	if patch.CleanupDays != nil {
		s.settings.CleanupDays = *patch.CleanupDays
	}
	out := s.settings
	s.mu.Unlock()

	log.Printf("[scheduler] settings max_concurrent=%d auto_retry=%v cleanup_days=%d",
		out.MaxConcurrent, out.AutoRetry, out.CleanupDays)
	s.kick()
	return out, nil
}

// admit promotes pending jobs to running while capacity allows.
func (s *Scheduler) admit(ctx context.Context) {
	for {
		s.mu.Lock()
		if s.running >= s.settings.MaxConcurrent || len(s.pending) == 0 {
			s.mu.Unlock()
			return
		}
		id := s.pending[0]
		s.pending = s.pending[1:]
		s.running++
		jctx, cancel := context.WithCancel(ctx)
		s.cancels[id] = cancel
		s.mu.Unlock()

		job, err := s.store.Update(id, func(j *entity.Job) {
			j.Status = entity.StatusRunning
			j.Logs = append(j.Logs, "download started")
		})
		if err != nil {
			s.release(id, cancel)
			continue
		}

		log.Printf("[scheduler] job_id=%s status=running", id)
		s.publish(job, "download started")

		go func() {
			defer cancel()
			s.runJob(jctx, job.ID, job.URL, job.Profile)
		}()
	}
}

func (s *Scheduler) runJob(ctx context.Context, id uuid.UUID, url, profile string) {
	defer func() {
		if r := recover(); r != nil {
			job, err := s.store.Update(id, func(j *entity.Job) {
				j.Status = entity.StatusFailed
				j.Logs = append(j.Logs, fmt.Sprintf("internal error: %v", r))
			})
			log.Printf("[scheduler] job_id=%s panic=%v", id, r)
			if err == nil {
				s.publish(job)
			}
			s.finish(id, runner.StatusFailed, 0)
		}
	}()

	status, runErr := s.runner.Run(ctx, url, profile, func(line string) {
		job, err := s.store.Update(id, func(j *entity.Job) {
			j.Logs = append(j.Logs, line)
			if p, ok := runner.ParseProgress(line); ok && p > j.Progress {
				j.Progress = p
			}
		})
		if err == nil {
			s.publish(job, line)
		}
	})

	var note string
	job, err := s.store.Update(id, func(j *entity.Job) {
		switch status {
		case runner.StatusCompleted:
			j.Status = entity.StatusCompleted
			j.Progress = 100
			note = "download completed"
		case runner.StatusCancelled:
			j.Status = entity.StatusFailed
			j.Cancelled = true
			note = "download cancelled"
		default:
			j.Status = entity.StatusFailed
			note = fmt.Sprintf("download failed: %v", runErr)
		}
		j.Logs = append(j.Logs, note)
	})
	if err == nil {
		log.Printf("[scheduler] job_id=%s status=%s", id, job.Status)
		s.publish(job, note)
	}

	retryCount := 0
	if job != nil {
		retryCount = job.RetryCount
	}
	s.finish(id, status, retryCount)
}

// finish releases the job's slot and, when auto_retry is on, requeues a
// non-cancelled failure.
func (s *Scheduler) finish(id uuid.UUID, status runner.Status, retryCount int) {
	s.mu.Lock()
	s.running--
	delete(s.cancels, id)
	autoRetry := s.settings.AutoRetry
	s.mu.Unlock()

	if autoRetry && status == runner.StatusFailed && retryCount < maxAutoRetries {
		if nid, err := s.Retry(id); err == nil {
			log.Printf("[scheduler] job_id=%s auto_retry new_job_id=%s", id, nid)
		}
	}
	s.kick()
}

func (s *Scheduler) release(id uuid.UUID, cancel context.CancelFunc) {
	cancel()
	s.mu.Lock()
	s.running--
	delete(s.cancels, id)
	s.mu.Unlock()
}

func (s *Scheduler) publish(job *entity.Job, lines ...string) {
	s.hub.Publish(entity.Event{
		JobID:       job.ID,
		Status:      job.Status,
		Progress:    job.Progress,
		NewLogLines: lines,
	})
}

func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}
