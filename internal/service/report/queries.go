package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
)

// weeklyDepth is how many recent weeks are fetched per area: the latest week
// plus the two needed to derive its delta and delta-of-delta.
const weeklyDepth = 3

// NationalCases returns the last `days` national records, oldest first.
func (s *Service) NationalCases(ctx context.Context, days int) ([]domain.NationRecord, error) {
	window, err := s.store.NationWindow(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report.NationalCases: %w", err)
	}
	return window, nil
}

// RegionCases returns the last `days` records of one region, oldest first.
func (s *Service) RegionCases(ctx context.Context, region string, days int) ([]domain.RegionRecord, error) {
	window, err := s.store.RegionWindow(ctx, region, days)
	if err != nil {
		return nil, fmt.Errorf("report.RegionCases, region-%s: %w", region, err)
	}
	return window, nil
}

// ProvinceCases returns the last `days` records of one province, oldest first.
func (s *Service) ProvinceCases(ctx context.Context, province string, days int) ([]domain.ProvinceRecord, error) {
	window, err := s.store.ProvinceWindow(ctx, province, days)
	if err != nil {
		return nil, fmt.Errorf("report.ProvinceCases, province-%s: %w", province, err)
	}
	return window, nil
}

// DeltaOptions selects the scope and page of a TotalCasesDelta query. With
// Region set the ranking covers that region's provinces; with AllProvinces
// it covers every province except the pending pseudo-province; otherwise it
// covers the regions.
type DeltaOptions struct {
	Region       string
	AllProvinces bool
	Offset       int
	Limit        int
}

// TotalCasesDelta ranks areas by their increase in total cases since the day
// before the current report date, largest first. When no refresh ever ran
// the result is empty.
func (s *Service) TotalCasesDelta(ctx context.Context, opts DeltaOptions) ([]domain.AreaDelta, error) {
	meta, err := s.store.GetMeta(ctx)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return []domain.AreaDelta{}, nil
		}
		return nil, fmt.Errorf("report.TotalCasesDelta: GetMeta: %w", err)
	}

	cutoff := midnightBefore(meta.ReportDate)

	var deltas []domain.AreaDelta
	switch {
	case opts.Region != "" || opts.AllProvinces:
		records, err := s.store.ProvincesSince(ctx, cutoff, opts.Region)
		if err != nil {
			return nil, fmt.Errorf("report.TotalCasesDelta: ProvincesSince: %w", err)
		}
		deltas = provinceDeltas(records, opts.AllProvinces)
	default:
		records, err := s.store.RegionsSince(ctx, cutoff)
		if err != nil {
			return nil, fmt.Errorf("report.TotalCasesDelta: RegionsSince: %w", err)
		}
		deltas = regionDeltas(records)
	}

	sort.Slice(deltas, func(i, j int) bool {
		return deltas[i].Delta > deltas[j].Delta
	})

	return page(deltas, opts.Offset, opts.Limit), nil
}

// midnightBefore is the start of the day preceding the given timestamp:
// records at or after it span exactly yesterday and today.
func midnightBefore(t time.Time) time.Time {
	y, m, d := t.AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

type areaSpan struct {
	first domain.AreaDelta
	last  domain.AreaDelta
}

func regionDeltas(records []domain.RegionRecord) []domain.AreaDelta {
	spans := make(map[string]*areaSpan)
	order := make([]string, 0)
	for _, rec := range records {
		point := domain.AreaDelta{
			Name:       rec.RegionName,
			ReportDate: rec.ReportDate,
			TotalCases: rec.TotalCases,
		}
		span, ok := spans[rec.RegionName]
		if !ok {
			spans[rec.RegionName] = &areaSpan{first: point, last: point}
			order = append(order, rec.RegionName)
			continue
		}
		span.last = point
	}
	return collectDeltas(spans, order)
}

func provinceDeltas(records []domain.ProvinceRecord, excludePending bool) []domain.AreaDelta {
	spans := make(map[string]*areaSpan)
	order := make([]string, 0)
	for _, rec := range records {
		if excludePending && rec.ProvinceName == domain.PendingProvince {
			continue
		}
		point := domain.AreaDelta{
			Name:       rec.ProvinceName,
			ReportDate: rec.ReportDate,
			TotalCases: rec.TotalCases,
		}
		span, ok := spans[rec.ProvinceName]
		if !ok {
			spans[rec.ProvinceName] = &areaSpan{first: point, last: point}
			order = append(order, rec.ProvinceName)
			continue
		}
		span.last = point
	}
	return collectDeltas(spans, order)
}

func collectDeltas(spans map[string]*areaSpan, order []string) []domain.AreaDelta {
	deltas := make([]domain.AreaDelta, 0, len(order))
	for _, name := range order {
		span := spans[name]
		row := span.last
		row.Delta = span.last.TotalCases - span.first.TotalCases
		deltas = append(deltas, row)
	}
	return deltas
}

func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// CurrentlyPositiveRanking returns every region on the current report date,
// ordered by currently positive cases descending. Empty before any refresh.
func (s *Service) CurrentlyPositiveRanking(ctx context.Context) ([]domain.RegionRecord, error) {
	meta, err := s.store.GetMeta(ctx)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return []domain.RegionRecord{}, nil
		}
		return nil, fmt.Errorf("report.CurrentlyPositiveRanking: GetMeta: %w", err)
	}

	records, err := s.store.RegionsAt(ctx, meta.ReportDate)
	if err != nil {
		return nil, fmt.Errorf("report.CurrentlyPositiveRanking: RegionsAt: %w", err)
	}
	return records, nil
}

// WeeklyCases returns the most recent `limit` weekly aggregates of one area,
// newest first, each enriched with its week-over-week delta and the change
// of that delta where the preceding weeks exist. A non-positive limit returns
// every stored week. excludeInProgress drops the still-accumulating week
// (day count under seven).
func (s *Service) WeeklyCases(ctx context.Context, area string, limit int, excludeInProgress bool) ([]domain.WeeklyAggregate, error) {
	// Fetch two extra weeks so the oldest requested ones still get deltas.
	fetch := 0
	if limit > 0 {
		fetch = limit + 2
	}
	weeks, err := s.store.WeeklyByArea(ctx, area, fetch, excludeInProgress)
	if err != nil {
		return nil, fmt.Errorf("report.WeeklyCases, area-%s: %w", area, err)
	}

	enrichDeltas(weeks)

	if limit > 0 && limit < len(weeks) {
		weeks = weeks[:limit]
	}
	return weeks, nil
}

// enrichDeltas fills Delta and DeltaOfDelta on a newest-first week list by
// looking at the following (older) entries.
func enrichDeltas(weeks []domain.WeeklyAggregate) {
	for i := range weeks {
		if i+1 >= len(weeks) {
			break
		}
		delta := weeks[i].NewCases - weeks[i+1].NewCases
		weeks[i].Delta = &delta

		if i+2 < len(weeks) {
			prev := weeks[i+1].NewCases - weeks[i+2].NewCases
			dd := delta - prev
			weeks[i].DeltaOfDelta = &dd
		}
	}
}

// WeeklyTrend classifies the latest complete week of an area. Nil when the
// area has no complete week with a computable delta yet.
func (s *Service) WeeklyTrend(ctx context.Context, area string) (*domain.Trend, error) {
	weeks, err := s.store.WeeklyByArea(ctx, area, weeklyDepth, true)
	if err != nil {
		return nil, fmt.Errorf("report.WeeklyTrend, area-%s: %w", area, err)
	}
	enrichDeltas(weeks)

	if len(weeks) == 0 || weeks[0].Delta == nil {
		return nil, nil
	}
	var dd int64
	if weeks[0].DeltaOfDelta != nil {
		dd = *weeks[0].DeltaOfDelta
	}
	trend := domain.ClassifyTrend(*weeks[0].Delta, dd)
	return &trend, nil
}

// WeeklySummary builds the condensed weekly report: the latest national week
// plus, per macro-area, the latest week of each region. With includeCurrent
// false only complete weeks count, matching the weekly notification cadence.
// Regions without an eligible week yet are skipped.
func (s *Service) WeeklySummary(ctx context.Context, includeCurrent bool) (*domain.WeeklySummary, error) {
	fullOnly := !includeCurrent

	nation, err := s.latestWeek(ctx, domain.NationArea, fullOnly)
	if err != nil {
		return nil, fmt.Errorf("report.WeeklySummary: %w", err)
	}
	if nation == nil {
		return nil, fmt.Errorf("report.WeeklySummary: no eligible week yet: %w", constants.ErrDBNotFound)
	}

	summary := &domain.WeeklySummary{Nation: *nation}
	for _, macro := range domain.MacroAreas {
		block := domain.MacroAreaSummary{Name: macro.Name}
		for _, region := range macro.Regions {
			week, err := s.latestWeek(ctx, region, fullOnly)
			if err != nil {
				return nil, fmt.Errorf("report.WeeklySummary: %w", err)
			}
			if week == nil {
				continue
			}
			block.Regions = append(block.Regions, domain.RegionWeekly{Region: region, Week: *week})
		}
		summary.Areas = append(summary.Areas, block)
	}

	return summary, nil
}

func (s *Service) latestWeek(ctx context.Context, area string, fullOnly bool) (*domain.WeeklyAggregate, error) {
	weeks, err := s.store.WeeklyByArea(ctx, area, weeklyDepth, fullOnly)
	if err != nil {
		return nil, fmt.Errorf("latestWeek, area-%s: %w", area, err)
	}
	if len(weeks) == 0 {
		return nil, nil
	}
	enrichDeltas(weeks)
	return &weeks[0], nil
}

// SelectionMenu returns the stored sorted value list of one menu, nil when
// the menu does not exist.
func (s *Service) SelectionMenu(ctx context.Context, name string) ([]string, error) {
	values, err := s.store.Menu(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("report.SelectionMenu, menu-%s: %w", name, err)
	}
	return values, nil
}
