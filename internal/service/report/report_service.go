// Package report implements the refresh pipeline and every query over the
// persisted datasets. The snapshot loader fetches and parses; this package
// decides whether the data is new, swaps it in, and aggregates it.
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/domain/dto"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
)

// Loader fetches a parsed snapshot of the three source datasets.
type Loader interface {
	Load(ctx context.Context) (*dto.Snapshot, error)
}

type Service struct {
	store  store.Store
	loader Loader

	now func() time.Time
}

func NewService(st store.Store, loader Loader) *Service {
	return &Service{
		store:  st,
		loader: loader,
		now:    time.Now,
	}
}

// RefreshOutcome reports what a refresh attempt did.
type RefreshOutcome struct {
	Updated    bool      `json:"updated"`
	Reason     string    `json:"reason"`
	ReportDate time.Time `json:"report_date,omitempty"`
}

// Refresh loads a snapshot and, if its fingerprint differs from the stored
// one, replaces every dataset, the menus and the weekly rollups. The meta
// singleton doubles as an advisory lock: it is flipped to locked before the
// heavy work starts so that overlapping attempts bail out. A crash mid-swap
// leaves the lock held until an operator unlocks it.
func (s *Service) Refresh(ctx context.Context) (*RefreshOutcome, error) {
	runID := uuid.NewString()
	logger.Infof(ctx, "refresh %s: start", runID)

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: %w", runID, err)
	}

	reportDate, err := snap.ReportDate()
	if err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: %w", runID, err)
	}

	meta, err := s.store.GetMeta(ctx)
	if err != nil && !errors.Is(err, constants.ErrDBNotFound) {
		return nil, fmt.Errorf("report.Refresh, run-%s: GetMeta: %w", runID, err)
	}

	next := &domain.RefreshMeta{
		Fingerprint: snap.Fingerprint,
		ReportDate:  reportDate,
		Locked:      true,
		UpdatedAt:   s.now(),
	}

	switch {
	case meta == nil:
		// First run, nothing to race with.
		if err := s.store.ReplaceMeta(ctx, next); err != nil {
			return nil, fmt.Errorf("report.Refresh, run-%s: ReplaceMeta: %w", runID, err)
		}
	case meta.Fingerprint == snap.Fingerprint:
		logger.Infof(ctx, "refresh %s: fingerprint unchanged, skipping", runID)
		return &RefreshOutcome{Reason: "already up to date", ReportDate: meta.ReportDate}, nil
	case meta.Locked:
		logger.Warnf(ctx, "refresh %s: lock held, skipping", runID)
		return &RefreshOutcome{Reason: "refresh in progress", ReportDate: meta.ReportDate}, nil
	default:
		acquired, err := s.store.AcquireLock(ctx, next)
		if err != nil {
			return nil, fmt.Errorf("report.Refresh, run-%s: AcquireLock: %w", runID, err)
		}
		if !acquired {
			logger.Warnf(ctx, "refresh %s: lost lock race, skipping", runID)
			return &RefreshOutcome{Reason: "refresh in progress", ReportDate: meta.ReportDate}, nil
		}
	}

	if err := s.store.ReplaceNation(ctx, snap.Nation); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: ReplaceNation: %w", runID, err)
	}
	if err := s.store.ReplaceRegions(ctx, snap.Regions); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: ReplaceRegions: %w", runID, err)
	}
	if err := s.store.ReplaceProvinces(ctx, snap.Provinces); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: ReplaceProvinces: %w", runID, err)
	}

	if err := s.rebuildMenus(ctx); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: %w", runID, err)
	}
	if err := s.rebuildWeekly(ctx); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: %w", runID, err)
	}

	if err := s.store.Unlock(ctx, s.now()); err != nil {
		return nil, fmt.Errorf("report.Refresh, run-%s: Unlock: %w", runID, err)
	}

	logger.Infof(ctx, "refresh %s: done, report date %s", runID, reportDate.Format("2006-01-02"))
	return &RefreshOutcome{Updated: true, Reason: "updated", ReportDate: reportDate}, nil
}

// Unlock force-releases a stuck advisory lock. Operator recovery path.
func (s *Service) Unlock(ctx context.Context) error {
	if err := s.store.Unlock(ctx, s.now()); err != nil {
		return fmt.Errorf("report.Unlock: %w", err)
	}
	logger.Info(ctx, "refresh lock released by operator")
	return nil
}

// Meta exposes the current refresh metadata, nil when no refresh ever ran.
func (s *Service) Meta(ctx context.Context) (*domain.RefreshMeta, error) {
	meta, err := s.store.GetMeta(ctx)
	if err != nil {
		return nil, fmt.Errorf("report.Meta: %w", err)
	}
	return meta, nil
}
