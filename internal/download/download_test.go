package download_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubboard/internal/config"
	"dubboard/internal/download"
	"dubboard/internal/runner"
	"dubboard/internal/services"
)

const watchURL = "https://www.youtube.com/watch?v=abc123"

// fakeRunner maps a yt-dlp format selector to a behavior: an error, or a
// file of the given size written at the -o template location.
type fakeRunner struct {
	formatResults map[string]formatResult
	attempts      map[string]int
	commands      []runner.Command
}

type formatResult struct {
	err  error
	ext  string
	size int
}

func (f *fakeRunner) Run(_ context.Context, cmd runner.Command) ([]byte, error) {
	f.commands = append(f.commands, cmd)
	format := argValue(cmd.Args, "-f")
	if f.attempts == nil {
		f.attempts = map[string]int{}
	}
	f.attempts[format]++

	result, ok := f.formatResults[format]
	if !ok {
		return nil, errors.New("unexpected format " + format)
	}
	if result.err != nil {
		return nil, result.err
	}
	template := argValue(cmd.Args, "-o")
	path := strings.Replace(template, "%(ext)s", result.ext, 1)
	return nil, os.WriteFile(path, make([]byte, result.size), 0o644)
}

func argValue(args []string, flag string) string {
	for i, arg := range args {
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func newService(t *testing.T, run runner.CommandRunner) (*download.Service, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.TempDir = t.TempDir()
	return download.NewService(&cfg, run, nil), cfg.Paths.TempDir
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{watchURL, true},
		{"https://youtu.be/abc123", true},
		{"https://m.youtube.com/watch?v=abc", true},
		{"https://www.youtube.com/embed/abc", true},
		{"https://example.com/video.mp4", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := download.ValidURL(tc.url); got != tc.want {
			t.Errorf("ValidURL(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestDownloadFallsBackToThirdStrategy(t *testing.T) {
	strategies := download.DefaultStrategies()
	fake := &fakeRunner{formatResults: map[string]formatResult{
		strategies[0].Format: {err: errors.New("format unavailable")},
		strategies[1].Format: {err: errors.New("throttled")},
		strategies[2].Format: {ext: "webm", size: 5000},
	}}
	svc, tempDir := newService(t, fake)

	path, err := svc.Download(context.Background(), watchURL, "job1_es")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if path != filepath.Join(tempDir, "job1_es.webm") {
		t.Fatalf("unexpected path: %s", path)
	}
	for _, strategy := range strategies[:2] {
		if fake.attempts[strategy.Format] != 1 {
			t.Errorf("strategy %s attempted %d times, want 1", strategy.Name, fake.attempts[strategy.Format])
		}
	}
}

func TestDownloadFailsWhenAllStrategiesFail(t *testing.T) {
	strategies := download.DefaultStrategies()
	fake := &fakeRunner{formatResults: map[string]formatResult{
		strategies[0].Format: {err: errors.New("a")},
		strategies[1].Format: {err: errors.New("b")},
		strategies[2].Format: {err: errors.New("c")},
	}}
	svc, _ := newService(t, fake)

	path, err := svc.Download(context.Background(), watchURL, "job1_es")
	if !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
	if path != "" {
		t.Fatalf("expected empty path on failure, got %q", path)
	}
}

func TestDownloadRejectsTinyFiles(t *testing.T) {
	strategies := download.DefaultStrategies()
	fake := &fakeRunner{formatResults: map[string]formatResult{
		strategies[0].Format: {ext: "mp4", size: 10}, // below threshold
		strategies[1].Format: {ext: "mp4", size: 4000},
		strategies[2].Format: {err: errors.New("unused")},
	}}
	svc, _ := newService(t, fake)

	path, err := svc.Download(context.Background(), watchURL, "jobx_en")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if !strings.HasSuffix(path, "jobx_en.mp4") {
		t.Fatalf("unexpected path: %s", path)
	}
	if fake.attempts[strategies[1].Format] != 1 {
		t.Fatal("expected second strategy to run after undersized file")
	}
}

func TestDownloadRejectsUnsupportedURL(t *testing.T) {
	svc, _ := newService(t, &fakeRunner{})
	if _, err := svc.Download(context.Background(), "https://example.com/x", "job"); !errors.Is(err, services.ErrDownload) {
		t.Fatalf("expected ErrDownload, got %v", err)
	}
}

func TestDownloadClearsStaleJobFiles(t *testing.T) {
	strategies := download.DefaultStrategies()
	fake := &fakeRunner{formatResults: map[string]formatResult{
		strategies[0].Format: {ext: "mp4", size: 4000},
	}}
	svc, tempDir := newService(t, fake)

	stale := filepath.Join(tempDir, "job1_es_positioned_0001.wav")
	if err := os.WriteFile(stale, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Download(context.Background(), watchURL, "job1_es"); err != nil {
		t.Fatalf("Download: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatal("stale file was not removed before download")
	}
}

func TestCleanJobFilesScopedToJob(t *testing.T) {
	dir := t.TempDir()
	mine := filepath.Join(dir, "job1_es_base_silence.wav")
	other := filepath.Join(dir, "job2_fr.mp4")
	for _, path := range []string{mine, other} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	download.CleanJobFiles(dir, "job1_es")
	if _, err := os.Stat(mine); !os.IsNotExist(err) {
		t.Fatal("job file not cleaned")
	}
	if _, err := os.Stat(other); err != nil {
		t.Fatal("unrelated job file removed")
	}
}
