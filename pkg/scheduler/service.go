// Package scheduler re-runs preprocessing on a cron schedule so the persisted
// transform follows the latest training data.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Latif-Arib/ML-Project/pkg/logger"
	"github.com/Latif-Arib/ML-Project/pkg/preprocess"
)

// Runner is the preprocessing step a job executes
type Runner interface {
	Transform(trainPath, testPath string) (*preprocess.Result, error)
}

// Job is one scheduled refit over a train/test pair
type Job struct {
	Name      string
	Schedule  string
	TrainPath string
	TestPath  string

	LastRun   *time.Time
	NextRun   *time.Time
	LastRunID string
	LastError string
	Runs      int
}

// Service provides job scheduling operations
type Service struct {
	runner Runner
	log    *logger.Logger
	cron   *cron.Cron

	mu   sync.Mutex
	jobs map[string]*entry // Maps job name to its cron entry

	runMu sync.Mutex // one refit at a time across jobs and RunNow
}

type entry struct {
	id  cron.EntryID
	job *Job
}

// NewService creates a new scheduler service. Runs of the same job never
// overlap: a tick that fires while the previous run is busy is skipped, so a
// single writer owns the artifact path at any time.
func NewService(runner Runner, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	return &Service{
		runner: runner,
		log:    log.WithFields(logger.Component("scheduler")),
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		jobs:   make(map[string]*entry),
	}
}

// Start starts the scheduler
func (s *Service) Start() {
	s.cron.Start()
	s.log.Info("Job scheduler started", logger.Int("jobs", len(s.List())))
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Service) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("Job scheduler stopped")
}

// Schedule adds a job, replacing any job with the same name
func (s *Service) Schedule(job Job) (*Job, error) {
	if err := validateJob(&job); err != nil {
		return nil, err
	}
	schedule, err := cron.ParseStandard(job.Schedule)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobs[job.Name]; ok {
		s.cron.Remove(old.id)
		delete(s.jobs, job.Name)
	}

	j := &job
	next := schedule.Next(time.Now())
	j.NextRun = &next

	id := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.execute(j, schedule)
	}))
	s.jobs[j.Name] = &entry{id: id, job: j}

	s.log.Info("Scheduled job",
		logger.String("job", j.Name),
		logger.String("schedule", j.Schedule))
	return j, nil
}

// Remove unschedules a job
func (s *Service) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[name]
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}
	s.cron.Remove(e.id)
	delete(s.jobs, name)
	return nil
}

// Get returns a snapshot of a job
func (s *Service) Get(name string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.jobs[name]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", name)
	}
	snapshot := *e.job
	return &snapshot, nil
}

// List returns snapshots of every job
func (s *Service) List() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, e := range s.jobs {
		snapshot := *e.job
		jobs = append(jobs, &snapshot)
	}
	return jobs
}

// RunNow executes a job immediately, outside its schedule
func (s *Service) RunNow(name string) error {
	s.mu.Lock()
	e, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("job not found: %s", name)
	}

	schedule, err := cron.ParseStandard(e.job.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}
	return s.execute(e.job, schedule)
}

// execute runs one refit and records its outcome on the job
func (s *Service) execute(job *Job, schedule cron.Schedule) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.log.Info("Executing scheduled job", logger.String("job", job.Name))

	res, err := s.runner.Transform(job.TrainPath, job.TestPath)

	s.mu.Lock()
	now := time.Now()
	next := schedule.Next(now)
	job.LastRun = &now
	job.NextRun = &next
	job.Runs++
	if err != nil {
		job.LastError = err.Error()
		job.LastRunID = ""
	} else {
		job.LastError = ""
		job.LastRunID = res.RunID
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("Scheduled job failed", err, logger.String("job", job.Name))
		return err
	}
	s.log.Info("Scheduled job completed",
		logger.String("job", job.Name),
		logger.String("run_id", res.RunID),
		logger.Int("features", len(res.FeatureNames)))
	return nil
}

func validateJob(job *Job) error {
	if job.Name == "" {
		return fmt.Errorf("job name is required")
	}
	if job.Schedule == "" {
		return fmt.Errorf("job schedule is required")
	}
	if job.TrainPath == "" || job.TestPath == "" {
		return fmt.Errorf("job needs both a train and a test path")
	}
	return nil
}
