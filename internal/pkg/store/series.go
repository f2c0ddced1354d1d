package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

// seriesSpec describes one daily series table: its DDL, column order for the
// bulk copy, and the indexes built on the staging table before the swap.
// Index ordering mirrors the query paths: date descending everywhere, plus
// date+metric descending for the ranking queries and the name filters.
type seriesSpec struct {
	table   string
	ddl     string
	columns []string
	indexes []string
}

var nationColumns = []string{
	"report_date", "hospitalized", "intensive_care", "currently_positive",
	"variation_currently_positive", "new_cases", "recovered", "deceased",
	"total_cases", "tests",
}

var regionsColumns = append([]string{"report_date", "region_code", "region_name"}, nationColumns[1:]...)

var provincesColumns = []string{
	"report_date", "region_code", "region_name",
	"province_code", "province_name", "province_abbr", "total_cases",
}

var (
	nationSpec = seriesSpec{
		table:   tableNation,
		ddl:     nationDDL,
		columns: nationColumns,
		indexes: []string{"(report_date desc)"},
	}
	regionsSpec = seriesSpec{
		table:   tableRegions,
		ddl:     regionsDDL,
		columns: regionsColumns,
		indexes: []string{
			"(report_date desc, variation_currently_positive desc)",
			"(region_name)",
		},
	}
	provincesSpec = seriesSpec{
		table:   tableProvinces,
		ddl:     provincesDDL,
		columns: provincesColumns,
		indexes: []string{
			"(report_date desc, total_cases desc)",
			"(province_name)",
		},
	}
)

// replaceSeries bulk-loads rows into a fresh staging table, builds the
// indexes there, then drops the canonical table and renames the staging one
// into its place in a single transaction. Readers see either the old series
// or the new one, never a mix. Indexes are created unnamed so Postgres picks
// fresh names and the previous generation's names never collide.
func (s *store) replaceSeries(ctx context.Context, spec seriesSpec, rows [][]any) error {
	staging := spec.table + stagingSuffix

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`drop table if exists %s`, staging)); err != nil {
		return fmt.Errorf("drop staging %s: %w", staging, err)
	}
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`create table %s (%s)`, staging, spec.ddl)); err != nil {
		return fmt.Errorf("create staging %s: %w", staging, err)
	}

	if _, err := s.pool.CopyFrom(ctx, pgx.Identifier{staging}, spec.columns, pgx.CopyFromRows(rows)); err != nil {
		return fmt.Errorf("copy into %s: %w", staging, err)
	}

	for _, idx := range spec.indexes {
		if _, err := s.pool.Exec(ctx, fmt.Sprintf(`create index on %s %s`, staging, idx)); err != nil {
			return fmt.Errorf("index %s %s: %w", staging, idx, err)
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin swap: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`drop table if exists %s`, spec.table)); err != nil {
		return fmt.Errorf("drop %s: %w", spec.table, err)
	}
	if _, err := tx.Exec(ctx, fmt.Sprintf(`alter table %s rename to %s`, staging, spec.table)); err != nil {
		return fmt.Errorf("rename %s: %w", staging, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit swap %s: %w", spec.table, err)
	}

	return nil
}

func (s *store) ReplaceNation(ctx context.Context, records []domain.NationRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ReportDate, r.Hospitalized, r.IntensiveCare, r.CurrentlyPositive,
			r.VariationCurrentlyPositive, r.NewCases, r.Recovered, r.Deceased,
			r.TotalCases, r.Tests,
		})
	}
	return s.replaceSeries(ctx, nationSpec, rows)
}

func (s *store) ReplaceRegions(ctx context.Context, records []domain.RegionRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ReportDate, r.RegionCode, r.RegionName, r.Hospitalized,
			r.IntensiveCare, r.CurrentlyPositive, r.VariationCurrentlyPositive,
			r.NewCases, r.Recovered, r.Deceased, r.TotalCases, r.Tests,
		})
	}
	return s.replaceSeries(ctx, regionsSpec, rows)
}

func (s *store) ReplaceProvinces(ctx context.Context, records []domain.ProvinceRecord) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ReportDate, r.RegionCode, r.RegionName,
			r.ProvinceCode, r.ProvinceName, r.ProvinceAbbr, r.TotalCases,
		})
	}
	return s.replaceSeries(ctx, provincesSpec, rows)
}

// reverse flips a window read in descending date order back to ascending
// before handing it to callers.
func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// nationWindowQuery reads the trailing `days` records, newest first; a
// non-positive days means the whole series.
func nationWindowQuery(days int) squirrel.SelectBuilder {
	query := builder().Select(nationColumns...).
		From(tableNation).
		OrderBy("report_date desc")
	if days > 0 {
		query = query.Limit(uint64(days))
	}
	return query
}

func (s *store) NationWindow(ctx context.Context, days int) ([]domain.NationRecord, error) {
	selected, err := xpgx.Select[domain.NationRecord](ctx, s.pool, nationWindowQuery(days))
	if err != nil {
		return nil, wrapErr(err)
	}

	reverse(selected)
	return selected, nil
}

func (s *store) RegionWindow(ctx context.Context, region string, days int) ([]domain.RegionRecord, error) {
	query := builder().Select(regionsColumns...).
		From(tableRegions).
		Where(squirrel.Eq{"region_name": region}).
		OrderBy("report_date desc")
	if days > 0 {
		query = query.Limit(uint64(days))
	}

	selected, err := xpgx.Select[domain.RegionRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	reverse(selected)
	return selected, nil
}

func (s *store) ProvinceWindow(ctx context.Context, province string, days int) ([]domain.ProvinceRecord, error) {
	query := builder().Select(provincesColumns...).
		From(tableProvinces).
		Where(squirrel.Eq{"province_name": province}).
		OrderBy("report_date desc")
	if days > 0 {
		query = query.Limit(uint64(days))
	}

	selected, err := xpgx.Select[domain.ProvinceRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	reverse(selected)
	return selected, nil
}

func (s *store) NationAll(ctx context.Context) ([]domain.NationRecord, error) {
	query := builder().Select(nationColumns...).
		From(tableNation).
		OrderBy("report_date asc")

	selected, err := xpgx.Select[domain.NationRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func (s *store) RegionsAll(ctx context.Context) ([]domain.RegionRecord, error) {
	query := builder().Select(regionsColumns...).
		From(tableRegions).
		OrderBy("report_date asc")

	selected, err := xpgx.Select[domain.RegionRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func (s *store) RegionsSince(ctx context.Context, cutoff time.Time) ([]domain.RegionRecord, error) {
	query := builder().Select(regionsColumns...).
		From(tableRegions).
		Where(squirrel.GtOrEq{"report_date": cutoff}).
		OrderBy("report_date asc")

	selected, err := xpgx.Select[domain.RegionRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func (s *store) ProvincesSince(ctx context.Context, cutoff time.Time, region string) ([]domain.ProvinceRecord, error) {
	query := builder().Select(provincesColumns...).
		From(tableProvinces).
		Where(squirrel.GtOrEq{"report_date": cutoff}).
		OrderBy("report_date asc")
	if region != "" {
		query = query.Where(squirrel.Eq{"region_name": region})
	}

	selected, err := xpgx.Select[domain.ProvinceRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func (s *store) RegionsAt(ctx context.Context, date time.Time) ([]domain.RegionRecord, error) {
	query := builder().Select(regionsColumns...).
		From(tableRegions).
		Where(squirrel.Eq{"report_date": date}).
		OrderBy("currently_positive desc")

	selected, err := xpgx.Select[domain.RegionRecord](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}

func (s *store) RegionNames(ctx context.Context) ([]string, error) {
	query := builder().Select("distinct region_name").From(tableRegions)

	names, err := xpgx.SelectScalar[string](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return names, nil
}

func (s *store) ProvincePairs(ctx context.Context) ([]domain.ProvincePair, error) {
	query := builder().Select("distinct region_name, province_name").From(tableProvinces)

	pairs, err := xpgx.Select[domain.ProvincePair](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return pairs, nil
}
