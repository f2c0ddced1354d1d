package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
)

const operatorChat = int64(999)

type recordedSend struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type fakeBotAPI struct {
	mu        sync.Mutex
	sends     []recordedSend
	failChats map[int64]bool
}

func (f *fakeBotAPI) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req recordedSend
	_ = sonic.Unmarshal(body, &req)

	f.mu.Lock()
	f.sends = append(f.sends, req)
	fail := f.failChats[req.ChatID]
	f.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"description":"chat not found"}`)
		return
	}
	fmt.Fprint(w, `{"ok":true}`)
}

func newTestClient(t *testing.T, failChats map[int64]bool) (*Client, *fakeBotAPI) {
	t.Helper()
	api := &fakeBotAPI{failChats: failChats}
	srv := httptest.NewServer(http.HandlerFunc(api.handler))
	t.Cleanup(srv.Close)

	client := NewClient("test-token", operatorChat)
	client.baseURL = srv.URL
	return client, api
}

func TestBroadcast(t *testing.T) {
	client, api := newTestClient(t, nil)

	sent, err := client.Broadcast(context.Background(), []int64{1, 2, 3}, domain.Message{Text: "ciao"})
	if err != nil {
		t.Fatal(err)
	}
	if sent != 3 {
		t.Fatalf("expected 3 deliveries, got %d", sent)
	}

	// Three recipients plus the operator summary.
	if len(api.sends) != 4 {
		t.Fatalf("expected 4 sendMessage calls, got %d", len(api.sends))
	}
	last := api.sends[len(api.sends)-1]
	if last.ChatID != operatorChat {
		t.Fatalf("last message should go to the operator, went to %d", last.ChatID)
	}
	if !strings.Contains(last.Text, "3/3") {
		t.Fatalf("operator summary should report 3/3, got %q", last.Text)
	}
}

func TestBroadcast_SkipsFailingChats(t *testing.T) {
	client, api := newTestClient(t, map[int64]bool{2: true})

	sent, err := client.Broadcast(context.Background(), []int64{1, 2, 3}, domain.Message{Text: "ciao"})
	if err != nil {
		t.Fatal(err)
	}
	if sent != 2 {
		t.Fatalf("a failing chat should not abort the fan-out, got %d deliveries", sent)
	}

	last := api.sends[len(api.sends)-1]
	if !strings.Contains(last.Text, "2/3") {
		t.Fatalf("operator summary should report 2/3, got %q", last.Text)
	}
}

func TestBroadcast_NoRecipients(t *testing.T) {
	client, api := newTestClient(t, nil)

	sent, err := client.Broadcast(context.Background(), nil, domain.Message{Text: "ciao"})
	if err != nil {
		t.Fatal(err)
	}
	if sent != 0 {
		t.Fatalf("expected 0 deliveries, got %d", sent)
	}
	// Still one call: the operator summary.
	if len(api.sends) != 1 || api.sends[0].ChatID != operatorChat {
		t.Fatalf("expected only the operator summary, got %+v", api.sends)
	}
}

func TestSendMessage_UsesMarkdown(t *testing.T) {
	api := &fakeBotAPI{}
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		api.handler(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-token", operatorChat)
	client.baseURL = srv.URL

	if err := client.sendMessage(context.Background(), 42, "*bold*"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/bottest-token/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}
