// Package scheduler drives the periodic refresh and the weekly trend report.
package scheduler

import (
	"context"

	"github.com/robfig/cron/v3"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/notify"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
)

type Scheduler struct {
	cron   *cron.Cron
	report *report.Service
	notify *notify.Service
}

func New(rep *report.Service, not *notify.Service) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		report: rep,
		notify: not,
	}
}

// Register wires the two jobs: the refresh poll, which notifies subscribers
// only when it actually swapped in new data, and the weekly trend report.
func (s *Scheduler) Register(refreshSpec, weeklySpec string) error {
	if _, err := s.cron.AddFunc(refreshSpec, s.runRefresh); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(weeklySpec, s.runWeekly); err != nil {
		return err
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runRefresh() {
	ctx := context.Background()

	outcome, err := s.report.Refresh(ctx)
	if err != nil {
		logger.Errorf(ctx, "scheduled refresh: %v", err)
		return
	}
	if !outcome.Updated {
		logger.Infof(ctx, "scheduled refresh: %s", outcome.Reason)
		return
	}

	if err := s.notify.NotifyRefresh(ctx); err != nil {
		logger.Errorf(ctx, "scheduled refresh notification: %v", err)
	}
}

func (s *Scheduler) runWeekly() {
	ctx := context.Background()

	if err := s.notify.NotifyWeekly(ctx); err != nil {
		logger.Errorf(ctx, "scheduled weekly notification: %v", err)
	}
}
