package batch

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ISRAEL-DUFF/fabulae-pictae/internal/model"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var batchSaves = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "batch_saves_total",
		Help: "Expansions saved by batch jobs",
	},
	[]string{"status"},
)

// Job status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusStopped   = "stopped"
)

type Expander interface {
	ExpandWords(ctx context.Context, input string) ([]model.WordExpansion, error)
}

type Saver interface {
	Save(ctx context.Context, word, expansion string) ([]model.SavedExpansion, error)
}

// Progress is called after every completed save with the number of rows
// saved so far and the total.
type Progress func(saved, total int)

type Job struct {
	JobID      string     `json:"jobId"`
	Status     string     `json:"status"`
	Words      []string   `json:"words"`
	Total      int        `json:"total"`
	Saved      int        `json:"saved"`
	Progress   float64    `json:"progress"`
	Errors     []JobError `json:"errors"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

type JobError struct {
	Word  string `json:"word,omitempty"`
	Error string `json:"error"`
}

// Runner expands a word list and saves the results one row at a time.
type Runner struct {
	expander Expander
	saver    Saver

	mu        sync.RWMutex
	jobs      map[string]*Job
	cancelFns map[string]context.CancelFunc
}

func NewRunner(expander Expander, saver Saver) *Runner {
	return &Runner{
		expander:  expander,
		saver:     saver,
		jobs:      make(map[string]*Job),
		cancelFns: make(map[string]context.CancelFunc),
	}
}

// Run expands every word (fail-fast; nothing is saved if any expansion
// fails), then saves the expansions in input order. A failed save stops the
// loop; rows already saved stay.
func (r *Runner) Run(ctx context.Context, words []string, onProgress Progress) ([]model.SavedExpansion, error) {
	expansions, err := r.expander.ExpandWords(ctx, strings.Join(words, ","))
	if err != nil {
		return nil, err
	}

	saved := make([]model.SavedExpansion, 0, len(expansions))
	for i, exp := range expansions {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		rows, err := r.saver.Save(ctx, exp.Word, exp.Expansion)
		if err != nil {
			batchSaves.WithLabelValues("error").Inc()
			return saved, fmt.Errorf("save %q: %w", exp.Word, err)
		}
		batchSaves.WithLabelValues("success").Inc()
		saved = append(saved, rows...)
		if onProgress != nil {
			onProgress(i+1, len(expansions))
		}
	}
	return saved, nil
}

// Start runs words as a background job and returns a snapshot of it.
func (r *Runner) Start(words []string) Job {
	job := &Job{
		JobID:     uuid.New().String(),
		Status:    StatusRunning,
		Words:     words,
		Total:     len(words),
		Errors:    []JobError{},
		StartedAt: time.Now(),
	}

	ctx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	r.jobs[job.JobID] = job
	r.cancelFns[job.JobID] = cancel
	snapshot := r.snapshotLocked(job)
	r.mu.Unlock()

	go r.runJob(ctx, job)

	return snapshot
}

func (r *Runner) runJob(ctx context.Context, job *Job) {
	log.Printf("[Batch] Job %s started: %d words", job.JobID, job.Total)

	_, err := r.Run(ctx, job.Words, func(saved, total int) {
		r.mu.Lock()
		job.Saved = saved
		job.Total = total
		job.Progress = float64(saved) / float64(total) * 100
		r.mu.Unlock()
	})

	now := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	job.FinishedAt = &now
	delete(r.cancelFns, job.JobID)
	switch {
	case err == nil:
		job.Status = StatusCompleted
		job.Progress = 100
		log.Printf("[Batch] Job %s completed: %d saved", job.JobID, job.Saved)
	case job.Status == StatusStopped:
		log.Printf("[Batch] Job %s stopped after %d saves", job.JobID, job.Saved)
	default:
		job.Status = StatusFailed
		job.Errors = append(job.Errors, JobError{Error: err.Error()})
		log.Printf("[Batch] Job %s failed after %d saves: %v", job.JobID, job.Saved, err)
	}
}

// Get returns a snapshot of a job.
func (r *Runner) Get(id string) (Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return Job{}, false
	}
	return r.snapshotLocked(job), true
}

// Stop cancels a running job. Rows already saved stay.
func (r *Runner) Stop(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	cancel, ok := r.cancelFns[id]
	if !ok {
		return false
	}
	cancel()
	delete(r.cancelFns, id)
	r.jobs[id].Status = StatusStopped
	return true
}

func (r *Runner) snapshotLocked(job *Job) Job {
	s := *job
	s.Words = append([]string(nil), job.Words...)
	s.Errors = append([]JobError{}, job.Errors...)
	return s
}
