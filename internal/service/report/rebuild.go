package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
)

// rebuildMenus derives the selection menus from the freshly swapped series:
// one menu listing every region, one per region listing its provinces, each
// sorted. Stale menus disappear because the whole set is replaced.
func (s *Service) rebuildMenus(ctx context.Context) error {
	regions, err := s.store.RegionNames(ctx)
	if err != nil {
		return fmt.Errorf("rebuildMenus: RegionNames: %w", err)
	}
	sort.Strings(regions)

	pairs, err := s.store.ProvincePairs(ctx)
	if err != nil {
		return fmt.Errorf("rebuildMenus: ProvincePairs: %w", err)
	}

	byRegion := make(map[string][]string, len(regions))
	for _, pair := range pairs {
		byRegion[pair.RegionName] = append(byRegion[pair.RegionName], pair.ProvinceName)
	}

	menus := make([]domain.SelectionMenu, 0, len(regions)+1)
	menus = append(menus, domain.SelectionMenu{Name: domain.MenuItaly, Values: regions})
	for _, region := range regions {
		provinces := byRegion[region]
		sort.Strings(provinces)
		menus = append(menus, domain.SelectionMenu{Name: region, Values: provinces})
	}

	if err := s.store.ReplaceMenus(ctx, menus); err != nil {
		return fmt.Errorf("rebuildMenus: ReplaceMenus: %w", err)
	}
	return nil
}

// rebuildWeekly recomputes every ISO-week rollup from scratch from the daily
// series and swaps the table. The national series is stored under its own
// area key alongside the per-region ones.
func (s *Service) rebuildWeekly(ctx context.Context) error {
	nation, err := s.store.NationAll(ctx)
	if err != nil {
		return fmt.Errorf("rebuildWeekly: NationAll: %w", err)
	}
	regions, err := s.store.RegionsAll(ctx)
	if err != nil {
		return fmt.Errorf("rebuildWeekly: RegionsAll: %w", err)
	}

	buckets := make(map[weekKey]*domain.WeeklyAggregate)
	for _, rec := range nation {
		addToWeek(buckets, domain.NationArea, rec.ReportDate, rec.NewCases)
	}
	for _, rec := range regions {
		addToWeek(buckets, rec.RegionName, rec.ReportDate, rec.NewCases)
	}

	aggregates := make([]domain.WeeklyAggregate, 0, len(buckets))
	for _, agg := range buckets {
		aggregates = append(aggregates, *agg)
	}
	sort.Slice(aggregates, func(i, j int) bool {
		a, b := aggregates[i], aggregates[j]
		if a.Area != b.Area {
			return a.Area < b.Area
		}
		if a.ISOYear != b.ISOYear {
			return a.ISOYear < b.ISOYear
		}
		return a.ISOWeek < b.ISOWeek
	})

	if err := s.store.ReplaceWeekly(ctx, aggregates); err != nil {
		return fmt.Errorf("rebuildWeekly: ReplaceWeekly: %w", err)
	}
	return nil
}

type weekKey struct {
	area string
	year int
	week int
}

func addToWeek(buckets map[weekKey]*domain.WeeklyAggregate, area string, date time.Time, newCases int64) {
	year, week := date.ISOWeek()
	key := weekKey{area: area, year: year, week: week}

	day := date.Truncate(24 * time.Hour)

	agg, ok := buckets[key]
	if !ok {
		buckets[key] = &domain.WeeklyAggregate{
			Area:      area,
			ISOYear:   year,
			ISOWeek:   week,
			NewCases:  newCases,
			DayCount:  1,
			WeekStart: day,
			WeekEnd:   day,
		}
		return
	}

	agg.NewCases += newCases
	agg.DayCount++
	if day.Before(agg.WeekStart) {
		agg.WeekStart = day
	}
	if day.After(agg.WeekEnd) {
		agg.WeekEnd = day
	}
}
