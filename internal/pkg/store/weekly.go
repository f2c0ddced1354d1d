package store

import (
	"context"

	"github.com/Masterminds/squirrel"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

var weeklyColumns = []string{
	"area", "iso_year", "iso_week", "new_cases", "day_count", "week_start", "week_end",
}

var weeklySpec = seriesSpec{
	table:   tableWeekly,
	ddl:     weeklyDDL,
	columns: weeklyColumns,
	indexes: []string{"(area, iso_year desc, iso_week desc)"},
}

// ReplaceWeekly drops and rebuilds the weekly rollup collection through the
// same staging+swap discipline as the series tables; it must run only after
// the nation and regions swaps completed, since its content derives from them.
func (s *store) ReplaceWeekly(ctx context.Context, aggregates []domain.WeeklyAggregate) error {
	rows := make([][]any, 0, len(aggregates))
	for _, w := range aggregates {
		rows = append(rows, []any{
			w.Area, w.ISOYear, w.ISOWeek, w.NewCases, w.DayCount, w.WeekStart, w.WeekEnd,
		})
	}
	return s.replaceSeries(ctx, weeklySpec, rows)
}

// WeeklyByArea returns the most recent `limit` weeks for an area, most
// recent first. fullOnly filters out the in-progress week (day_count != 7).
func (s *store) WeeklyByArea(ctx context.Context, area string, limit int, fullOnly bool) ([]domain.WeeklyAggregate, error) {
	query := builder().Select(weeklyColumns...).
		From(tableWeekly).
		Where(squirrel.Eq{"area": area}).
		OrderBy("iso_year desc", "iso_week desc")
	if fullOnly {
		query = query.Where(squirrel.Eq{"day_count": 7})
	}
	if limit > 0 {
		query = query.Limit(uint64(limit))
	}

	selected, err := xpgx.Select[domain.WeeklyAggregate](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}
