package notify

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/store"
	"github.com/floatingpurr/covid-19-ita-bot/internal/service/report"
)

// fakeStore backs both the notify service and the report service it wraps.
// The embedded interface panics on anything not overridden.
type fakeStore struct {
	store.Store

	meta   *domain.RefreshMeta
	nation []domain.NationRecord
	weekly []domain.WeeklyAggregate
	subs   []domain.Subscriber
}

func (f *fakeStore) GetMeta(context.Context) (*domain.RefreshMeta, error) {
	return f.meta, nil
}

func (f *fakeStore) NationWindow(_ context.Context, days int) ([]domain.NationRecord, error) {
	records := f.nation
	if days > 0 && days < len(records) {
		records = records[len(records)-days:]
	}
	return records, nil
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
	sort.Slice(out, func(i, j int) bool { return out[i].ISOWeek > out[j].ISOWeek })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListSubscribers(context.Context) ([]domain.Subscriber, error) {
	return f.subs, nil
}

type fakeBroadcaster struct {
	chatIDs []int64
	msg     domain.Message
	calls   int
}

func (f *fakeBroadcaster) Broadcast(_ context.Context, chatIDs []int64, msg domain.Message) (int, error) {
	f.chatIDs = chatIDs
	f.msg = msg
	f.calls++
	return len(chatIDs), nil
}

func fullWeeks(area string, cases ...int64) []domain.WeeklyAggregate {
	out := make([]domain.WeeklyAggregate, 0, len(cases))
	for i, c := range cases {
		out = append(out, domain.WeeklyAggregate{
			Area: area, ISOYear: 2020, ISOWeek: 10 + i, NewCases: c, DayCount: 7,
		})
	}
	return out
}

func testStore() *fakeStore {
	st := &fakeStore{
		meta: &domain.RefreshMeta{
			Fingerprint: "fp-1",
			ReportDate:  time.Date(2020, 3, 15, 17, 0, 0, 0, time.UTC),
		},
		subs: []domain.Subscriber{{ChatID: 1}, {ChatID: 2}},
	}
	for d := 1; d <= 15; d++ {
		st.nation = append(st.nation, domain.NationRecord{
			ReportDate:        time.Date(2020, 3, d, 17, 0, 0, 0, time.UTC),
			CurrentlyPositive: int64(1000 * d),
			TotalCases:        int64(1500 * d),
			NewCases:          1500,
		})
	}
	st.weekly = append(st.weekly, fullWeeks(domain.NationArea, 1000, 1500, 1800)...)
	st.weekly = append(st.weekly, fullWeeks("Lombardia", 400, 600, 700)...)
	return st
}

func newServices(st *fakeStore) (*Service, *fakeBroadcaster) {
	reportService := report.NewService(st, nil)
	broadcaster := &fakeBroadcaster{}
	return NewService(st, reportService, broadcaster), broadcaster
}

func TestComposeRefreshNotification(t *testing.T) {
	svc, _ := newServices(testStore())

	msg, err := svc.ComposeRefreshNotification(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "15/03/2020") {
		t.Fatalf("header should carry the report date:\n%s", msg.Text)
	}
	for _, want := range []string{"Positivi", "Tot. Casi", "Trend Attualmente Positivi"} {
		if !strings.Contains(msg.Text, want) {
			t.Fatalf("message missing %q:\n%s", want, msg.Text)
		}
	}
}

func TestComposeWeeklyNotification(t *testing.T) {
	svc, _ := newServices(testStore())

	msg, err := svc.ComposeWeeklyNotification(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(msg.Text, "Andamento settimanale") {
		t.Fatalf("missing header:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, domain.NationArea+": `1800`") {
		t.Fatalf("missing national rollup:\n%s", msg.Text)
	}
	// Lombardia is up 100 week over week but slowing: red, arrow down.
	if !strings.Contains(msg.Text, "🔴 ↘️ Lombardia: `700`") {
		t.Fatalf("missing Lombardia line with trend icons:\n%s", msg.Text)
	}
	if !strings.Contains(msg.Text, "*Nord*") {
		t.Fatalf("regions should be grouped by macro-area:\n%s", msg.Text)
	}
}

func TestNotifyRefresh_FansOutToSubscribers(t *testing.T) {
	st := testStore()
	svc, broadcaster := newServices(st)

	if err := svc.NotifyRefresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if broadcaster.calls != 1 {
		t.Fatalf("expected one broadcast, got %d", broadcaster.calls)
	}
	if len(broadcaster.chatIDs) != 2 {
		t.Fatalf("expected 2 recipients, got %v", broadcaster.chatIDs)
	}
	if broadcaster.msg.Text == "" {
		t.Fatal("broadcast message should not be empty")
	}
}

func TestNotifyRefresh_NoSubscribers(t *testing.T) {
	st := testStore()
	st.subs = nil
	svc, broadcaster := newServices(st)

	if err := svc.NotifyRefresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if broadcaster.calls != 0 {
		t.Fatal("no subscribers should mean no broadcast")
	}
}
