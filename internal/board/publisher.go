package board

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Ladderbot/internal/ladder"
)

// Post is one rendered board addressed to a bound channel.
type Post struct {
	Division  ladder.Division `json:"division"`
	Kind      Kind            `json:"kind"`
	ChannelID string          `json:"channel_id"`
	Content   string          `json:"content"`
}

// Publisher delivers rendered boards to the chat platform.
type Publisher interface {
	Publish(ctx context.Context, post Post) error
}

// LogPublisher writes boards to the log. Used when no webhook is configured.
type LogPublisher struct{}

func (LogPublisher) Publish(ctx context.Context, post Post) error {
	log.Ctx(ctx).Info().
		Str("division", post.Division.String()).
		Str("board", string(post.Kind)).
		Str("channel_id", post.ChannelID).
		Str("content", post.Content).
		Msg("Board refreshed")
	return nil
}

// WebhookPublisher posts boards as JSON to the chat gateway.
type WebhookPublisher struct {
	url    string
	token  string
	client *http.Client
}

func NewWebhookPublisher(url, token string) *WebhookPublisher {
	return &WebhookPublisher{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, post Post) error {
	body, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("encode board post: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build board request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.token != "" {
		req.Header.Set("X-Ladderbot-Token", p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("post board: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("post board: unexpected status %d", resp.StatusCode)
	}
	return nil
}
