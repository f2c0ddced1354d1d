package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

// ReplaceMenus rebuilds the selection-menu collection wholesale. Menus are
// small, so a delete+insert transaction is enough; readers between two
// generations are acceptable at this granularity.
func (s *store) ReplaceMenus(ctx context.Context, menus []domain.SelectionMenu) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, fmt.Sprintf(`delete from %s`, tableMenus)); err != nil {
		return fmt.Errorf("delete menus: %w", err)
	}

	for _, menu := range menus {
		valuesJSON, err := sonic.Marshal(menu.Values)
		if err != nil {
			return fmt.Errorf("marshal menu %s: %w", menu.Name, err)
		}

		sql, args, err := builder().Insert(tableMenus).
			Columns("menu_name", "values_json").
			Values(menu.Name, valuesJSON).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert menu %s: %w", menu.Name, err)
		}
	}

	return tx.Commit(ctx)
}

type menuRow struct {
	ValuesJSON []byte `db:"values_json"`
}

// Menu returns the value list of a menu, or an empty list for an unknown
// menu name: absence of data is not an error here.
func (s *store) Menu(ctx context.Context, name string) ([]string, error) {
	query := builder().Select("values_json").
		From(tableMenus).
		Where(squirrel.Eq{"menu_name": name})

	row, err := xpgx.Get[menuRow](ctx, s.pool, query)
	if err != nil {
		if errors.Is(wrapErr(err), constants.ErrDBNotFound) {
			return nil, nil
		}
		return nil, wrapErr(err)
	}

	var values []string
	if err := sonic.Unmarshal(row.ValuesJSON, &values); err != nil {
		return nil, fmt.Errorf("unmarshal menu %s: %w", name, err)
	}

	return values, nil
}
