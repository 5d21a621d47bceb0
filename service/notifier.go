package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Kenil818282/caratbridge-secret-finder1/config"
	"github.com/Kenil818282/caratbridge-secret-finder1/model"
)

// Notifier delivers new leads to an external sink, best effort
type Notifier interface {
	Notify(ctx context.Context, leads []model.Lead)
}

// WebhookNotifier posts one embed-style message per lead to a chat webhook.
// Sends are paced so a bursty first run does not get throttled by the sink.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewWebhookNotifier(cfg *config.NotifyConfig) *WebhookNotifier {
	pause := cfg.PauseMillis
	if pause <= 0 {
		pause = 600
	}
	return &WebhookNotifier{
		url: cfg.WebhookURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Duration(pause)*time.Millisecond), 1),
	}
}

type webhookMessage struct {
	Embeds []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title     string         `json:"title"`
	URL       string         `json:"url"`
	Color     int            `json:"color"`
	Fields    []webhookField `json:"fields"`
	Footer    webhookFooter  `json:"footer"`
	Timestamp string         `json:"timestamp"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

// Notify sends one message per lead. Delivery failures are logged and do
// not abort the remaining sends.
func (n *WebhookNotifier) Notify(ctx context.Context, leads []model.Lead) {
	if n.url == "" {
		return
	}
	for _, lead := range leads {
		if err := n.limiter.Wait(ctx); err != nil {
			slog.Warn("notification pacing interrupted", "error", err)
			return
		}
		if err := n.send(ctx, lead); err != nil {
			slog.Error("notification delivery failed", "lead_id", lead.ID, "error", err)
		}
	}
}

func (n *WebhookNotifier) send(ctx context.Context, lead model.Lead) error {
	fields := []webhookField{
		{Name: "Posted", Value: lead.PostAge, Inline: true},
		{Name: "Source", Value: lead.BusinessType, Inline: true},
	}
	if lead.RawEmail != "" {
		fields = append(fields, webhookField{Name: "Email", Value: lead.RawEmail, Inline: true})
	}
	fields = append(fields, webhookField{Name: "Caption", Value: lead.Notes})

	msg := webhookMessage{
		Embeds: []webhookEmbed{{
			Title:     "New lead: @" + lead.ContactName,
			URL:       lead.Website,
			Color:     0x00b894,
			Fields:    fields,
			Footer:    webhookFooter{Text: "CaratBridge Lead Finder"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}},
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
