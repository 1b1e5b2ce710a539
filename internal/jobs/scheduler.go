package jobs

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Job is a named unit of background work with a cron schedule.
type Job interface {
	Name() string
	Schedule() string
	Run(ctx context.Context) error
}

// Scheduler runs registered jobs on their cron schedules.
type Scheduler struct {
	cron *cron.Cron
	jobs []Job
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		jobs: make([]Job, 0),
	}
}

func (s *Scheduler) Register(job Job) {
	s.jobs = append(s.jobs, job)

	_, err := s.cron.AddFunc(job.Schedule(), func() {
		log.Printf("job %s: starting", job.Name())
		if err := job.Run(context.Background()); err != nil {
			log.Printf("job %s: failed: %v", job.Name(), err)
			return
		}
		log.Printf("job %s: completed", job.Name())
	})
	if err != nil {
		log.Printf("job %s: invalid schedule %q: %v", job.Name(), job.Schedule(), err)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("scheduler started with %d job(s)", len(s.jobs))
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("scheduler stopped")
}
