// Package notify sends ntfy push notifications for sync runs.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"reelsync/internal/config"
)

const userAgent = "reelsync/1.0"

// Service defines the notification surface exposed to the pipeline.
type Service interface {
	NotifyReportsChanged(ctx context.Context, users []string, missingTotal int) error
	NotifyUserFailed(ctx context.Context, username string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}
	return NewNtfy(topic, time.Duration(cfg.Notifications.RequestTimeout)*time.Second)
}

// NewNtfy builds an ntfy-backed service for the given topic URL or name.
func NewNtfy(topic string, timeout time.Duration) Service {
	if !strings.Contains(topic, "://") {
		topic = "https://ntfy.sh/" + topic
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title   string
	message string
	tags    []string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyReportsChanged(ctx context.Context, users []string, missingTotal int) error {
	data := payload{
		title:   "reelsync - Reports Updated",
		message: fmt.Sprintf("Watchlist reports changed for %s (%d missing overall)", strings.Join(users, ", "), missingTotal),
		tags:    []string{"reelsync", "sync", "changed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyUserFailed(ctx context.Context, username string, err error) error {
	data := payload{
		title:   "reelsync - Fetch Failed",
		message: fmt.Sprintf("Could not refresh %s: %v", username, err),
		tags:    []string{"reelsync", "sync", "error"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "reelsync - Test",
		message: "Test notification from reelsync",
		tags:    []string{"reelsync", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Noop returns a service that silently drops every notification.
func Noop() Service {
	return noopService{}
}

type noopService struct{}

func (noopService) NotifyReportsChanged(context.Context, []string, int) error { return nil }
func (noopService) NotifyUserFailed(context.Context, string, error) error     { return nil }
func (noopService) TestNotification(context.Context) error                    { return nil }
