// Package jobs holds the scheduled maintenance work and runs it on cron
// schedules or on demand.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	applog "commerce/internal/log"
)

var (
	ErrUnknownJob   = errors.New("unknown job")
	ErrDuplicateJob = errors.New("duplicate job")
)

// Job is a named unit of work and the standard five-field cron schedule it
// runs on.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

type Registry struct {
	mu   sync.Mutex
	jobs map[string]Job
}

func NewRegistry() *Registry {
	return &Registry{jobs: map[string]Job{}}
}

// Register adds a job. Names are case-insensitive and the schedule must parse.
func (r *Registry) Register(name, schedule string, run func(context.Context) error) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || run == nil {
		return fmt.Errorf("register job: name and run are required")
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("register job %s: schedule %q: %w", name, schedule, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}
	r.jobs[name] = Job{Name: name, Schedule: schedule, Run: run}
	return nil
}

func (r *Registry) Get(name string) (Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[strings.ToLower(strings.TrimSpace(name))]
	return j, ok
}

// Jobs returns the registered jobs sorted by name.
func (r *Registry) Jobs() []Job {
	r.mu.Lock()
	out := make([]Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, j)
	}
	r.mu.Unlock()
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// RunNow runs one job by name in the caller's goroutine.
func (r *Registry) RunNow(ctx context.Context, name string) error {
	j, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return run(ctx, j)
}

func run(ctx context.Context, j Job) error {
	start := time.Now()
	err := j.Run(ctx)
	fields := map[string]any{"job": j.Name, "ms": time.Since(start).Milliseconds()}
	if err != nil {
		applog.Error(nil, "job.fail", err, fields)
		return err
	}
	applog.Info(nil, "job.done", fields)
	return nil
}

// Start schedules every registered job and starts the scheduler. Scheduled
// runs share ctx; cancel it and call Stop on the returned scheduler to shut
// down.
func (r *Registry) Start(ctx context.Context) (*cron.Cron, error) {
	c := cron.New()
	for _, j := range r.Jobs() {
		if _, err := c.AddFunc(j.Schedule, func() { _ = run(ctx, j) }); err != nil {
			return nil, fmt.Errorf("schedule %s: %w", j.Name, err)
		}
		log.Printf("[cron] %s scheduled %q", j.Name, j.Schedule)
	}
	c.Start()
	return c, nil
}
