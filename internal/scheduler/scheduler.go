// Package scheduler fires registered jobs on wall-clock minutes evaluated in
// each job's own timezone, at most once per job per minute.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/chris/nudge/internal/clock"
)

// Job is one recurring action. Registering a Job with an existing ID
// replaces the earlier one.
type Job struct {
	ID         string
	Name       string
	Recurrence RecurrenceSpec
	Action     func(ctx context.Context)
}

// JobInfo is a read-only view of a registered job.
type JobInfo struct {
	ID       string
	Name     string
	Spec     string
	Timezone string
	Next     time.Time
}

type entry struct {
	job       Job
	run       cron.Job
	lastFired time.Time
}

type Scheduler struct {
	cron   *cron.Cron
	clock  clock.Clock
	log    *zap.Logger
	logger cron.Logger

	mu      sync.Mutex
	jobs    map[string]*entry
	tickID  cron.EntryID
	stopped bool
	wg      sync.WaitGroup
}

func New(clk clock.Clock, log *zap.Logger) *Scheduler {
	l := cronLogger{log.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(l)),
		clock:  clk,
		log:    log,
		logger: l,
		jobs:   make(map[string]*entry),
	}
}

// Register validates job and inserts or replaces it by ID. The replacement
// keeps the last fired minute of the job it replaces.
func (s *Scheduler) Register(job Job) error {
	if job.ID == "" {
		return errors.New("registering job: id is required")
	}
	if job.Action == nil {
		return fmt.Errorf("registering %s: action is required", job.ID)
	}
	if err := job.Recurrence.Validate(); err != nil {
		return fmt.Errorf("registering %s: %w", job.ID, err)
	}

	s.mu.Lock()
	e := &entry{job: job, run: s.wrap(job)}
	prev, replaced := s.jobs[job.ID]
	if replaced {
		e.lastFired = prev.lastFired
	}
	s.jobs[job.ID] = e
	s.mu.Unlock()

	s.log.Info("job registered",
		zap.String("job", job.ID),
		zap.String("spec", job.Recurrence.String()),
		zap.String("tz", job.Recurrence.Timezone),
		zap.Time("next", job.Recurrence.Next(s.clock.Now())),
		zap.Bool("replaced", replaced),
	)
	return nil
}

// Remove unregisters a job and reports whether it existed.
func (s *Scheduler) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return false
	}
	delete(s.jobs, id)
	return true
}

// Jobs lists registered jobs sorted by ID.
func (s *Scheduler) Jobs() []JobInfo {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]JobInfo, 0, len(s.jobs))
	for _, e := range s.jobs {
		out = append(out, JobInfo{
			ID:       e.job.ID,
			Name:     e.job.Name,
			Spec:     e.job.Recurrence.String(),
			Timezone: e.job.Recurrence.Timezone,
			Next:     e.job.Recurrence.Next(now),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Start begins minute ticks. The tick engine is a cron entry that fires at
// second zero of every minute.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return errors.New("scheduler is shut down")
	}
	if s.tickID != 0 {
		return nil
	}
	id, err := s.cron.AddFunc("* * * * *", func() { s.Tick(s.clock.Now()) })
	if err != nil {
		return fmt.Errorf("adding tick entry: %w", err)
	}
	s.tickID = id
	s.cron.Start()
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Tick evaluates every job against the minute containing now and dispatches
// the ones that match and have not fired for that minute. It never waits
// for actions and returns how many it dispatched.
func (s *Scheduler) Tick(now time.Time) int {
	minute := now.Truncate(time.Minute)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return 0
	}
	fired := 0
	for _, e := range s.jobs {
		if !minute.After(e.lastFired) {
			continue
		}
		if !e.job.Recurrence.Matches(minute) {
			continue
		}
		e.lastFired = minute
		fired++
		s.wg.Add(1)
		go func(run cron.Job) {
			defer s.wg.Done()
			run.Run()
		}(e.run)
	}
	return fired
}

// Shutdown stops ticking and dispatching. It does not wait: the returned
// context is done once in-flight actions have finished.
func (s *Scheduler) Shutdown() context.Context {
	s.mu.Lock()
	s.stopped = true
	s.mu.Unlock()

	cronDone := s.cron.Stop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-cronDone.Done()
		s.Wait()
		cancel()
	}()
	s.log.Info("scheduler stopped")
	return ctx
}

// Wait blocks until every dispatched action has returned.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// wrap guards an action so a panic is logged and a slow run of a job is
// never overlapped by the next one.
func (s *Scheduler) wrap(job Job) cron.Job {
	id := job.ID
	action := job.Action
	return cron.NewChain(
		cron.Recover(s.logger),
		cron.SkipIfStillRunning(s.logger),
	).Then(cron.FuncJob(func() {
		start := time.Now()
		action(context.Background())
		s.log.Debug("job finished", zap.String("job", id), zap.Duration("took", time.Since(start)))
	}))
}

// cronLogger routes robfig/cron's logging into zap. Cron's info lines fire
// every minute, so they go to debug.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
