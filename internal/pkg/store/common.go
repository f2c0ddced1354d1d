package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/constants"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	tableNation      = "nation"
	tableRegions     = "regions"
	tableProvinces   = "provinces"
	tableWeekly      = "weekly"
	tableMenus       = "selection_menus"
	tableMeta        = "report_meta"
	tableSubscribers = "subscribers"
)

// stagingSuffix marks the table a series is loaded into before the swap.
const stagingSuffix = "_staging"

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

// wrapErr maps driver errors onto the coded errors the API layer answers
// with. Anything that is neither a missing row nor a caller cancellation is
// treated as the store being unreachable.
func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", constants.ErrStoreUnavailable, err)
}

// builder returns a squirrel SQL Builder object.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
