package store

import (
	"context"
	"fmt"
)

const nationDDL = `
	report_date timestamp not null,
	hospitalized bigint not null default 0,
	intensive_care bigint not null default 0,
	currently_positive bigint not null default 0,
	variation_currently_positive bigint not null default 0,
	new_cases bigint not null default 0,
	recovered bigint not null default 0,
	deceased bigint not null default 0,
	total_cases bigint not null default 0,
	tests bigint not null default 0`

const regionsDDL = `
	report_date timestamp not null,
	region_code bigint not null default 0,
	region_name text not null,
	hospitalized bigint not null default 0,
	intensive_care bigint not null default 0,
	currently_positive bigint not null default 0,
	variation_currently_positive bigint not null default 0,
	new_cases bigint not null default 0,
	recovered bigint not null default 0,
	deceased bigint not null default 0,
	total_cases bigint not null default 0,
	tests bigint not null default 0`

const provincesDDL = `
	report_date timestamp not null,
	region_code bigint not null default 0,
	region_name text not null,
	province_code bigint not null default 0,
	province_name text not null,
	province_abbr text not null default '',
	total_cases bigint not null default 0`

const weeklyDDL = `
	area text not null,
	iso_year int not null,
	iso_week int not null,
	new_cases bigint not null default 0,
	day_count int not null default 0,
	week_start timestamp not null,
	week_end timestamp not null`

// EnsureSchema creates every table the store uses when missing, so queries
// answer (with empty results) before the first refresh has ever run. The
// series and weekly tables are later rebuilt wholesale by the staging swap.
func (s *store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		fmt.Sprintf(`create table if not exists %s (%s)`, tableNation, nationDDL),
		fmt.Sprintf(`create table if not exists %s (%s)`, tableRegions, regionsDDL),
		fmt.Sprintf(`create table if not exists %s (%s)`, tableProvinces, provincesDDL),
		fmt.Sprintf(`create table if not exists %s (%s)`, tableWeekly, weeklyDDL),
		fmt.Sprintf(`create table if not exists %s (
	menu_name text primary key,
	values_json jsonb not null)`, tableMenus),
		fmt.Sprintf(`create table if not exists %s (
	fingerprint text not null,
	report_date timestamp not null,
	locked boolean not null default false,
	updated_at timestamp not null)`, tableMeta),
		fmt.Sprintf(`create table if not exists %s (
	chat_id bigint primary key,
	created_at timestamp not null)`, tableSubscribers),
	}

	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
