package asr

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"dubboard/internal/config"
	"dubboard/internal/runner"
)

// fakeRunner answers ffprobe with canned JSON and writes a whisper result
// file when the whisper command runs.
type fakeRunner struct {
	whisperJSON string
	whisperErr  error
	probeJSON   string
	commands    []runner.Command
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) ([]byte, error) {
	f.commands = append(f.commands, cmd)
	switch cmd.Name {
	case "ffprobe":
		if f.probeJSON == "" {
			return nil, errors.New("probe unavailable")
		}
		return []byte(f.probeJSON), nil
	case "whisper":
		if f.whisperErr != nil {
			return nil, f.whisperErr
		}
		outputDir := argValue(cmd.Args, "--output_dir")
		audio := cmd.Args[0]
		base := filepath.Base(audio)
		base = base[:len(base)-len(filepath.Ext(base))]
		path := filepath.Join(outputDir, base+".json")
		return nil, os.WriteFile(path, []byte(f.whisperJSON), 0o644)
	default:
		return nil, errors.New("unexpected command " + cmd.Name)
	}
}

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newTestService(t *testing.T, run runner.CommandRunner) *Service {
	t.Helper()
	cfg := config.Default()
	return NewService(&cfg, run, nil)
}

func TestTranscribeReturnsSegmentsAndLanguage(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeRunner{
		whisperJSON: `{
			"text": "hola mundo",
			"language": "es",
			"segments": [
				{"id": 0, "start": 0.0, "end": 1.2, "text": " hola "},
				{"id": 1, "start": 1.4, "end": 2.0, "text": "mundo"}
			]
		}`,
	}

	transcript, err := newTestService(t, fake).Transcribe(context.Background(), filepath.Join(dir, "job_audio.wav"), dir)
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if transcript.Language != "es" {
		t.Fatalf("unexpected language: %q", transcript.Language)
	}
	if len(transcript.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(transcript.Segments))
	}
	if transcript.Segments[0].Text != "hola" {
		t.Fatalf("expected trimmed text, got %q", transcript.Segments[0].Text)
	}
	if transcript.Segments[1].Start != 1.4 || transcript.Segments[1].End != 2.0 {
		t.Fatalf("unexpected timing: %+v", transcript.Segments[1])
	}
}

func TestTranscribeFailsOnZeroSegments(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeRunner{whisperJSON: `{"text": "", "language": "en", "segments": []}`}
	if _, err := newTestService(t, fake).Transcribe(context.Background(), filepath.Join(dir, "a.wav"), dir); err == nil {
		t.Fatal("expected error for zero segments")
	}
}

func TestTranscribeFailsWhenModelErrors(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeRunner{whisperErr: errors.New("model load failed")}
	if _, err := newTestService(t, fake).Transcribe(context.Background(), filepath.Join(dir, "a.wav"), dir); err == nil {
		t.Fatal("expected error when whisper fails")
	}
}

func TestProbeFailureIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeRunner{
		whisperJSON: `{"language": "en", "segments": [{"id":0,"start":0,"end":1,"text":"hi"}]}`,
		// probeJSON left empty so the ffprobe call errors.
	}
	if _, err := newTestService(t, fake).Transcribe(context.Background(), filepath.Join(dir, "a.wav"), dir); err != nil {
		t.Fatalf("expected probe failure to be absorbed, got %v", err)
	}
}

func TestParseTranscriptRejectsGarbage(t *testing.T) {
	if _, err := parseTranscript([]byte("not json")); err == nil {
		t.Fatal("expected parse error")
	}
}
