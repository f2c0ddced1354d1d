package store

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store/xpgx"
)

var subscriberColumns = []string{"chat_id", "created_at"}

func (s *store) AddSubscriber(ctx context.Context, chatID int64, at time.Time) error {
	query := builder().Insert(tableSubscribers).
		Columns(subscriberColumns...).
		Values(chatID, at).
		Suffix(`on conflict (chat_id) do nothing`)

	if _, err := xpgx.Exec(ctx, s.pool, query); err != nil {
		return wrapErr(err)
	}
	return nil
}

func (s *store) RemoveSubscriber(ctx context.Context, chatID int64) error {
	query := builder().Delete(tableSubscribers).
		Where(squirrel.Eq{"chat_id": chatID})

	if _, err := xpgx.Exec(ctx, s.pool, query); err != nil {
		return wrapErr(err)
	}
	return nil
}

func (s *store) ListSubscribers(ctx context.Context) ([]domain.Subscriber, error) {
	query := builder().Select(subscriberColumns...).
		From(tableSubscribers).
		OrderBy("created_at asc")

	selected, err := xpgx.Select[domain.Subscriber](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}
	return selected, nil
}
