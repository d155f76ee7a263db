package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"dubboard/internal/services"
)

func newBufferLogger(t *testing.T) (*slog.Logger, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelDebug)
	return slog.New(newConsoleHandler(buf, levelVar, false)), buf
}

func TestConsoleHandlerFormatsComponentAndAttrs(t *testing.T) {
	logger, buf := newBufferLogger(t)

	logger.With(String(FieldComponent, "pipeline")).Info("stage started",
		String("stage", "acquiring"),
		Int("attempt", 2),
	)

	line := buf.String()
	if !strings.Contains(line, "INFO pipeline: stage started") {
		t.Fatalf("unexpected line: %q", line)
	}
	if !strings.Contains(line, "stage=acquiring") || !strings.Contains(line, "attempt=2") {
		t.Fatalf("missing attrs in line: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	logger, buf := newBufferLogger(t)
	logger.Info("download failed", String("detail", "exit status 1"))
	if !strings.Contains(buf.String(), `detail="exit status 1"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestWithContextAddsJobAndStage(t *testing.T) {
	logger, buf := newBufferLogger(t)

	ctx := services.WithJobID(context.Background(), "demo_es")
	ctx = services.WithStage(ctx, "translating")
	WithContext(ctx, logger).Info("segment translated")

	line := buf.String()
	if !strings.Contains(line, "job_id=demo_es") {
		t.Fatalf("missing job_id: %q", line)
	}
	if !strings.Contains(line, "stage=translating") {
		t.Fatalf("missing stage: %q", line)
	}
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	if got := parseLevel("bogus"); got != slog.LevelInfo {
		t.Fatalf("parseLevel(bogus) = %v", got)
	}
	if got := parseLevel("debug"); got != slog.LevelDebug {
		t.Fatalf("parseLevel(debug) = %v", got)
	}
}
