package store

import (
	"context"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store owns every persisted entity: the three daily series, the weekly
// rollups, the selection menus, the refresh metadata singleton and the
// subscriber registry. All mutation goes through the Replace*/lock methods;
// queries never mutate.
type Store interface {
	EnsureSchema(ctx context.Context) error

	// Refresh metadata (freshness gate state).
	GetMeta(ctx context.Context) (*domain.RefreshMeta, error)
	ReplaceMeta(ctx context.Context, meta *domain.RefreshMeta) error
	AcquireLock(ctx context.Context, meta *domain.RefreshMeta) (bool, error)
	Unlock(ctx context.Context, at time.Time) error

	// Series replacement: staging table + single-transaction rename swap.
	ReplaceNation(ctx context.Context, records []domain.NationRecord) error
	ReplaceRegions(ctx context.Context, records []domain.RegionRecord) error
	ReplaceProvinces(ctx context.Context, records []domain.ProvinceRecord) error

	// Windows: the most recent `days` records, ascending date order.
	NationWindow(ctx context.Context, days int) ([]domain.NationRecord, error)
	RegionWindow(ctx context.Context, region string, days int) ([]domain.RegionRecord, error)
	ProvinceWindow(ctx context.Context, province string, days int) ([]domain.ProvinceRecord, error)

	// Raw reads feeding the aggregation engine.
	NationAll(ctx context.Context) ([]domain.NationRecord, error)
	RegionsAll(ctx context.Context) ([]domain.RegionRecord, error)
	RegionsSince(ctx context.Context, cutoff time.Time) ([]domain.RegionRecord, error)
	ProvincesSince(ctx context.Context, cutoff time.Time, region string) ([]domain.ProvinceRecord, error)
	RegionsAt(ctx context.Context, date time.Time) ([]domain.RegionRecord, error)
	RegionNames(ctx context.Context) ([]string, error)
	ProvincePairs(ctx context.Context) ([]domain.ProvincePair, error)

	// Weekly rollups.
	ReplaceWeekly(ctx context.Context, aggregates []domain.WeeklyAggregate) error
	WeeklyByArea(ctx context.Context, area string, limit int, fullOnly bool) ([]domain.WeeklyAggregate, error)

	// Selection menus.
	ReplaceMenus(ctx context.Context, menus []domain.SelectionMenu) error
	Menu(ctx context.Context, name string) ([]string, error)

	// Subscriber registry.
	AddSubscriber(ctx context.Context, chatID int64, at time.Time) error
	RemoveSubscriber(ctx context.Context, chatID int64) error
	ListSubscribers(ctx context.Context) ([]domain.Subscriber, error)
}

type store struct {
	pool Pool
}

func NewStore(pool Pool) Store {
	return &store{pool}
}
