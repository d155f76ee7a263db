package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyJobCompleted(context.Background(), "job", "/out/x.mp4", time.Minute); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsHeadersAndBody(t *testing.T) {
	type captured struct {
		title    string
		tags     string
		priority string
		body     string
	}
	var got captured
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got = captured{
			title:    r.Header.Get("Title"),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
			body:     string(body),
		}
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.NotifyJobCompleted(context.Background(), "video_1_es", "/out/video_1_es.mp4", 90*time.Second)
	if err != nil {
		t.Fatalf("NotifyJobCompleted: %v", err)
	}
	if got.title != "Dubboard - Translation Complete" {
		t.Errorf("title = %q", got.title)
	}
	if got.tags != "dubboard,job,completed" {
		t.Errorf("tags = %q", got.tags)
	}
	if got.priority != "high" {
		t.Errorf("priority = %q", got.priority)
	}
	if !strings.Contains(got.body, "video_1_es") || !strings.Contains(got.body, "1m30s") {
		t.Errorf("body = %q", got.body)
	}

	err = svc.NotifyJobFailed(context.Background(), "video_2_fr", "transcribing", errors.New("no segments"))
	if err != nil {
		t.Fatalf("NotifyJobFailed: %v", err)
	}
	if !strings.Contains(got.body, "Stage: transcribing") || !strings.Contains(got.body, "no segments") {
		t.Errorf("failure body = %q", got.body)
	}
}

func TestNtfyServiceReportsServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "topic limit", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error from 429 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should include status code: %v", err)
	}
}
