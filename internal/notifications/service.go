// Package notifications pushes job outcomes to an ntfy topic.
package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dubboard/internal/config"
)

const userAgent = "dubboard/0.1.0"

// Service is the notification surface exposed to the pipeline.
type Service interface {
	NotifyJobCompleted(ctx context.Context, jobID, outputPath string, duration time.Duration) error
	NotifyJobFailed(ctx context.Context, jobID, stage string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when a topic is
// configured, otherwise a noop implementation.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyJobCompleted(ctx context.Context, jobID, outputPath string, duration time.Duration) error {
	duration = duration.Round(time.Second)
	if duration < 0 {
		duration = 0
	}
	data := payload{
		title:    "Dubboard - Translation Complete",
		message:  fmt.Sprintf("Ready to watch: %s\nFile: %s\nTook %s", jobID, outputPath, duration),
		tags:     []string{"dubboard", "job", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyJobFailed(ctx context.Context, jobID, stage string, err error) error {
	var builder strings.Builder
	fmt.Fprintf(&builder, "Translation failed: %s", jobID)
	if stage = strings.TrimSpace(stage); stage != "" {
		fmt.Fprintf(&builder, "\nStage: %s", stage)
	}
	if err != nil {
		fmt.Fprintf(&builder, "\n%s", strings.TrimSpace(err.Error()))
	}
	data := payload{
		title:    "Dubboard - Translation Failed",
		message:  builder.String(),
		tags:     []string{"dubboard", "job", "failed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Dubboard - Test",
		message:  "Notification system test",
		tags:     []string{"dubboard", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

// send posts the message body to the topic URL; ntfy metadata rides in
// headers.
func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	headers := map[string]string{
		"User-Agent":   userAgent,
		"Content-Type": "text/plain; charset=utf-8",
		"Title":        data.title,
		"Tags":         strings.Join(data.tags, ","),
	}
	if data.priority != "" && data.priority != "default" {
		headers["Priority"] = data.priority
	}
	for name, value := range headers {
		if value != "" {
			req.Header.Set(name, value)
		}
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyJobCompleted(context.Context, string, string, time.Duration) error {
	return nil
}
func (noopService) NotifyJobFailed(context.Context, string, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }
