// Package telegram is the Bot API transport behind the notification fan-out.
package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"

	"github.com/floatingpurr/covid-19-ita-bot/internal/domain"
	"github.com/floatingpurr/covid-19-ita-bot/internal/pkg/logger"
)

// The Bot API throttles broadcasts, so the fan-out pauses after each batch.
const (
	batchSize  = 30
	batchPause = time.Second
)

type Client struct {
	baseURL        string
	token          string
	operatorChatID int64
	client         *http.Client
}

// NewClient builds a Bot API client. The operator chat receives a delivery
// summary after every broadcast.
func NewClient(token string, operatorChatID int64) *Client {
	return &Client{
		baseURL:        "https://api.telegram.org",
		token:          token,
		operatorChatID: operatorChatID,
		client:         &http.Client{Timeout: 15 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID    int64  `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// Broadcast delivers the message to every chat, pausing between batches to
// stay under the Bot API rate limit. A failed delivery is logged and the
// fan-out continues; the operator chat gets a summary at the end.
func (c *Client) Broadcast(ctx context.Context, chatIDs []int64, msg domain.Message) (int, error) {
	sent := 0
	for i, chatID := range chatIDs {
		if i > 0 && i%batchSize == 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(batchPause):
			}
		}

		if err := c.sendMessage(ctx, chatID, msg.Text); err != nil {
			logger.Errorf(ctx, "telegram.Broadcast, chat-%d: %v", chatID, err)
			continue
		}
		sent++
	}

	summary := fmt.Sprintf("Broadcast completato: %d/%d messaggi consegnati", sent, len(chatIDs))
	if err := c.sendMessage(ctx, c.operatorChatID, summary); err != nil {
		logger.Errorf(ctx, "telegram.Broadcast, operator summary: %v", err)
	}

	return sent, nil
}

func (c *Client) sendMessage(ctx context.Context, chatID int64, text string) error {
	payload, err := sonic.Marshal(sendMessageRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "Markdown",
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequest: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var parsed sendMessageResponse
	if err := sonic.Unmarshal(body, &parsed); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if !parsed.OK {
		return fmt.Errorf("sendMessage failed: %d %s", resp.StatusCode, parsed.Description)
	}

	return nil
}
