package report

import (
	"context"
	"sort"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
)

// fakeStore is an in-memory Store for service tests. The embedded interface
// panics on anything a test touches without overriding.
type fakeStore struct {
	store.Store

	meta      *domain.RefreshMeta
	nation    []domain.NationRecord
	regions   []domain.RegionRecord
	provinces []domain.ProvinceRecord
	weekly    []domain.WeeklyAggregate
	menus     map[string][]string
	subs      []domain.Subscriber

	acquireLockResult  *bool // overrides the CAS outcome when set
	failReplaceRegions error

	replaceCount int
	unlocked     bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{menus: map[string][]string{}}
}

func (f *fakeStore) GetMeta(context.Context) (*domain.RefreshMeta, error) {
	if f.meta == nil {
		return nil, constants.ErrDBNotFound
	}
	copied := *f.meta
	return &copied, nil
}

func (f *fakeStore) ReplaceMeta(_ context.Context, meta *domain.RefreshMeta) error {
	copied := *meta
	f.meta = &copied
	return nil
}

func (f *fakeStore) AcquireLock(_ context.Context, meta *domain.RefreshMeta) (bool, error) {
	if f.acquireLockResult != nil {
		return *f.acquireLockResult, nil
	}
	if f.meta != nil && f.meta.Locked {
		return false, nil
	}
	copied := *meta
	copied.Locked = true
	f.meta = &copied
	return true, nil
}

func (f *fakeStore) Unlock(_ context.Context, at time.Time) error {
	if f.meta != nil {
		f.meta.Locked = false
		f.meta.UpdatedAt = at
	}
	f.unlocked = true
	return nil
}

func (f *fakeStore) ReplaceNation(_ context.Context, records []domain.NationRecord) error {
	f.nation = records
	f.replaceCount++
	return nil
}

func (f *fakeStore) ReplaceRegions(_ context.Context, records []domain.RegionRecord) error {
	if f.failReplaceRegions != nil {
		return f.failReplaceRegions
	}
	f.regions = records
	return nil
}

func (f *fakeStore) ReplaceProvinces(_ context.Context, records []domain.ProvinceRecord) error {
	f.provinces = records
	return nil
}

func (f *fakeStore) NationWindow(_ context.Context, days int) ([]domain.NationRecord, error) {
	records := append([]domain.NationRecord(nil), f.nation...)
	sort.Slice(records, func(i, j int) bool { return records[i].ReportDate.Before(records[j].ReportDate) })
	if days > 0 && days < len(records) {
		records = records[len(records)-days:]
	}
	return records, nil
}

func (f *fakeStore) NationAll(context.Context) ([]domain.NationRecord, error) {
	return f.nation, nil
}

func (f *fakeStore) RegionsAll(context.Context) ([]domain.RegionRecord, error) {
	return f.regions, nil
}

func (f *fakeStore) RegionsSince(_ context.Context, cutoff time.Time) ([]domain.RegionRecord, error) {
	var out []domain.RegionRecord
	for _, rec := range f.regions {
		if !rec.ReportDate.Before(cutoff) {
			out = append(out, rec)
		}
	}
	sortRegions(out)
	return out, nil
}

func (f *fakeStore) ProvincesSince(_ context.Context, cutoff time.Time, region string) ([]domain.ProvinceRecord, error) {
	var out []domain.ProvinceRecord
	for _, rec := range f.provinces {
		if rec.ReportDate.Before(cutoff) {
			continue
		}
		if region != "" && rec.RegionName != region {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReportDate.Equal(out[j].ReportDate) {
			return out[i].ReportDate.Before(out[j].ReportDate)
		}
		return out[i].ProvinceName < out[j].ProvinceName
	})
	return out, nil
}

func (f *fakeStore) RegionsAt(_ context.Context, date time.Time) ([]domain.RegionRecord, error) {
	var out []domain.RegionRecord
	for _, rec := range f.regions {
		if rec.ReportDate.Equal(date) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrentlyPositive > out[j].CurrentlyPositive })
	return out, nil
}

func (f *fakeStore) RegionNames(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var names []string
	for _, rec := range f.regions {
		if !seen[rec.RegionName] {
			seen[rec.RegionName] = true
			names = append(names, rec.RegionName)
		}
	}
	return names, nil
}

func (f *fakeStore) ProvincePairs(context.Context) ([]domain.ProvincePair, error) {
	seen := map[domain.ProvincePair]bool{}
	var pairs []domain.ProvincePair
	for _, rec := range f.provinces {
		pair := domain.ProvincePair{RegionName: rec.RegionName, ProvinceName: rec.ProvinceName}
		if !seen[pair] {
			seen[pair] = true
			pairs = append(pairs, pair)
		}
	}
	return pairs, nil
}

func (f *fakeStore) ReplaceWeekly(_ context.Context, aggregates []domain.WeeklyAggregate) error {
	f.weekly = aggregates
	return nil
}

func (f *fakeStore) WeeklyByArea(_ context.Context, area string, limit int, fullOnly bool) ([]domain.WeeklyAggregate, error) {
	var out []domain.WeeklyAggregate
	for _, agg := range f.weekly {
		if agg.Area != area {
			continue
		}
		if fullOnly && agg.DayCount != 7 {
			continue
		}
		out = append(out, agg)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ISOYear != out[j].ISOYear {
			return out[i].ISOYear > out[j].ISOYear
		}
		return out[i].ISOWeek > out[j].ISOWeek
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ReplaceMenus(_ context.Context, menus []domain.SelectionMenu) error {
	f.menus = map[string][]string{}
	for _, menu := range menus {
		f.menus[menu.Name] = menu.Values
	}
	return nil
}

func (f *fakeStore) Menu(_ context.Context, name string) ([]string, error) {
	return f.menus[name], nil
}

func (f *fakeStore) ListSubscribers(context.Context) ([]domain.Subscriber, error) {
	return f.subs, nil
}

func sortRegions(records []domain.RegionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].ReportDate.Equal(records[j].ReportDate) {
			return records[i].ReportDate.Before(records[j].ReportDate)
		}
		return records[i].RegionName < records[j].RegionName
	})
}
