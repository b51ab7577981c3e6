package scheduler

import (
	"context"
	"fmt"

	"github.com/ChiefVishPat/payroll-sentinel/internal/service"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler periodically re-assesses every monitored company
type Scheduler struct {
	cron *cron.Cron
	svc  *service.Service
	log  *logrus.Logger
}

// NewScheduler initializes a new scheduler
func NewScheduler(svc *service.Service, log *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		svc:  svc,
		log:  log,
	}
}

// Start registers the assessment sweep on the given cron spec and starts the
// scheduler in its own goroutine.
func (s *Scheduler) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.log.Info("Starting scheduled assessment sweep")
		s.svc.AssessAllCompanies(context.Background())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule assessments: %w", err)
	}
	s.cron.Start()
	s.log.Infof("Assessment scheduler started with spec %q", spec)
	return nil
}

// Stop halts the scheduler and waits for a running sweep to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("Assessment scheduler stopped")
}
