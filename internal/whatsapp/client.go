// Package whatsapp is the outbound channel: a thin client for the Green API
// hosted WhatsApp gateway.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const defaultBaseURL = "https://api.greenapi.com"

// Sender dispatches one message to one chat. Implementations must treat a
// non-success transport response as an error.
type Sender interface {
	Send(ctx context.Context, chatID, message string) error
}

type Config struct {
	IDInstance    string
	TokenInstance string
	// BaseURL overrides the Green API endpoint, used by tests.
	BaseURL string
}

type client struct {
	cfg  Config
	http *http.Client
	log  zerolog.Logger
}

// NewClient builds a Green API sender. Credentials must be present; the
// process fails fast at startup otherwise (checked in config).
func NewClient(cfg Config) Sender {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &client{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
		log:  zerolog.New(os.Stdout).With().Timestamp().Str("component", "greenapi").Logger(),
	}
}

type sendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

func (c *client) Send(ctx context.Context, chatID, message string) error {
	url := fmt.Sprintf("%s/waInstance%s/sendMessage/%s",
		c.cfg.BaseURL, c.cfg.IDInstance, c.cfg.TokenInstance)

	payload, err := json.Marshal(sendMessageRequest{ChatID: chatID, Message: message})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("green api request for %s: %w", chatID, err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	c.log.Debug().
		Str("chat_id", chatID).
		Int("status", res.StatusCode).
		Msg("green api response")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("green api error for %s: HTTP %d: %s", chatID, res.StatusCode, string(body))
	}
	return nil
}
