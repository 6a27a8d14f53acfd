package tasks

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"smartlib.id/backend/internal/metrics"
)

// Job is a scheduled maintenance sweep. Run returns the number of rows it
// touched so the scheduler can report and meter uniformly.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) (int, error)
}

// Scheduler wraps cron and runs the registered jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   []Job
	logger *zap.Logger
}

func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		jobs:   make([]Job, 0),
		logger: logger,
	}
}

func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		s.run(job)
	})
	if err != nil {
		s.logger.Error("failed to schedule job",
			zap.String("job", job.Name()),
			zap.String("schedule", job.Schedule()),
			zap.Error(err))
		return
	}

	s.logger.Info("scheduled job",
		zap.String("job", job.Name()),
		zap.String("schedule", job.Schedule()))
}

func (s *Scheduler) run(job Job) {
	metrics.SweepRuns.WithLabelValues(job.Name()).Inc()

	affected, err := job.Run(context.Background())
	if err != nil {
		s.logger.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
		return
	}

	metrics.SweepRowsAffected.WithLabelValues(job.Name()).Add(float64(affected))
	if affected > 0 {
		s.logger.Info("job completed",
			zap.String("job", job.Name()),
			zap.Int("rows_affected", affected))
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.logger.Info("scheduler stopped")
}

// RunJobByName triggers a single job outside its schedule.
func (s *Scheduler) RunJobByName(ctx context.Context, name string) (int, error) {
	for _, job := range s.jobs {
		if job.Name() == name {
			return job.Run(ctx)
		}
	}
	return 0, nil
}
