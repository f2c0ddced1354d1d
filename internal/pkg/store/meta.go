package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

var metaColumns = []string{"fingerprint", "report_date", "locked", "updated_at"}

func (s *store) GetMeta(ctx context.Context) (*domain.RefreshMeta, error) {
	query := builder().Select(metaColumns...).
		From(tableMeta).
		Limit(1)

	selected, err := xpgx.Get[domain.RefreshMeta](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	return selected, nil
}

// ReplaceMeta swaps in a brand new metadata singleton (first run, or after
// an operator unlock): delete whatever is there and insert, transactionally.
func (s *store) ReplaceMeta(ctx context.Context, meta *domain.RefreshMeta) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`delete from %s`, tableMeta)); err != nil {
		return fmt.Errorf("delete meta: %w", err)
	}

	sql, args, err := builder().Insert(tableMeta).
		Columns(metaColumns...).
		Values(meta.Fingerprint, meta.ReportDate, meta.Locked, meta.UpdatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert meta: %w", err)
	}

	return tx.Commit(ctx)
}

// AcquireLock writes the new metadata with the lock set, conditionally on
// the lock being free. Reports whether the lock was taken: a false return
// means another refresh grabbed it between our read and this write.
func (s *store) AcquireLock(ctx context.Context, meta *domain.RefreshMeta) (bool, error) {
	query := builder().Update(tableMeta).
		Set("fingerprint", meta.Fingerprint).
		Set("report_date", meta.ReportDate).
		Set("locked", true).
		Set("updated_at", meta.UpdatedAt).
		Where(squirrel.Eq{"locked": false})

	tag, err := xpgx.Exec(ctx, s.pool, query)
	if err != nil {
		return false, wrapErr(err)
	}

	return tag.RowsAffected() > 0, nil
}

func (s *store) Unlock(ctx context.Context, at time.Time) error {
	query := builder().Update(tableMeta).
		Set("locked", false).
		Set("updated_at", at)

	if _, err := xpgx.Exec(ctx, s.pool, query); err != nil {
		return wrapErr(err)
	}
	return nil
}
