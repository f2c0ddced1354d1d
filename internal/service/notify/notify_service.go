// Package notify composes the push notifications and fans them out to the
// subscriber registry through a transport-agnostic broadcaster.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/render"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
)

// windowDays is the size of the daily window shown in refresh notifications.
const windowDays = 15

// Broadcaster delivers one message to a list of chats. It reports how many
// deliveries succeeded; per-recipient failures do not abort the fan-out.
type Broadcaster interface {
	Broadcast(ctx context.Context, chatIDs []int64, msg domain.Message) (int, error)
}

type Service struct {
	store       store.Store
	report      *report.Service
	broadcaster Broadcaster
}

func NewService(st store.Store, rep *report.Service, broadcaster Broadcaster) *Service {
	return &Service{
		store:       st,
		report:      rep,
		broadcaster: broadcaster,
	}
}

// ComposeRefreshNotification builds the daily update message: report date
// header, national outline and the currently-positive chart.
func (s *Service) ComposeRefreshNotification(ctx context.Context) (domain.Message, error) {
	meta, err := s.report.Meta(ctx)
	if err != nil {
		return domain.Message{}, fmt.Errorf("notify.ComposeRefreshNotification: %w", err)
	}

	window, err := s.report.NationalCases(ctx, windowDays)
	if err != nil {
		return domain.Message{}, fmt.Errorf("notify.ComposeRefreshNotification: %w", err)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🦠 *Dati aggiornati al %s*\n", meta.ReportDate.Format("02/01/2006")))
	b.WriteString(render.DailySummary(window))

	return domain.Message{Text: b.String()}, nil
}

// ComposeWeeklyNotification builds the weekly trend message: the national
// rollup of the last complete week plus every region grouped by macro-area,
// each with its trend icons.
func (s *Service) ComposeWeeklyNotification(ctx context.Context) (domain.Message, error) {
	summary, err := s.report.WeeklySummary(ctx, false)
	if err != nil {
		return domain.Message{}, fmt.Errorf("notify.ComposeWeeklyNotification: %w", err)
	}

	var b strings.Builder
	b.WriteString("📊 *Andamento settimanale*\n")
	b.WriteString(fmt.Sprintf("_Nuovi casi, settimana %d-W%02d_\n\n", summary.Nation.ISOYear, summary.Nation.ISOWeek))

	b.WriteString(fmt.Sprintf("%s %s: `%d`\n",
		render.TrendIcons(summary.Nation.Delta, summary.Nation.DeltaOfDelta),
		summary.Nation.Area, summary.Nation.NewCases))

	for _, area := range summary.Areas {
		b.WriteString(fmt.Sprintf("\n*%s*\n", area.Name))
		for _, rw := range area.Regions {
			b.WriteString(fmt.Sprintf("%s %s: `%d`\n",
				render.TrendIcons(rw.Week.Delta, rw.Week.DeltaOfDelta),
				rw.Region, rw.Week.NewCases))
		}
	}

	return domain.Message{Text: b.String()}, nil
}

// NotifyRefresh sends the daily update to every subscriber.
func (s *Service) NotifyRefresh(ctx context.Context) error {
	msg, err := s.ComposeRefreshNotification(ctx)
	if err != nil {
		return fmt.Errorf("notify.NotifyRefresh: %w", err)
	}
	return s.fanOut(ctx, msg)
}

// NotifyWeekly sends the weekly trend report to every subscriber.
func (s *Service) NotifyWeekly(ctx context.Context) error {
	msg, err := s.ComposeWeeklyNotification(ctx)
	if err != nil {
		return fmt.Errorf("notify.NotifyWeekly: %w", err)
	}
	return s.fanOut(ctx, msg)
}

func (s *Service) fanOut(ctx context.Context, msg domain.Message) error {
	subscribers, err := s.store.ListSubscribers(ctx)
	if err != nil {
		return fmt.Errorf("notify.fanOut: ListSubscribers: %w", err)
	}
	if len(subscribers) == 0 {
		logger.Info(ctx, "no subscribers, nothing to send")
		return nil
	}

	chatIDs := make([]int64, 0, len(subscribers))
	for _, sub := range subscribers {
		chatIDs = append(chatIDs, sub.ChatID)
	}

	sent, err := s.broadcaster.Broadcast(ctx, chatIDs, msg)
	if err != nil {
		return fmt.Errorf("notify.fanOut: Broadcast: %w", err)
	}

	logger.Infof(ctx, "notification delivered to %d/%d subscribers", sent, len(chatIDs))
	return nil
}
