package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubboard/internal/config"
)

func TestLoadDefaultsWithoutConfigFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantTemp := filepath.Join(tempHome, ".local", "share", "dubboard", "temp")
	if cfg.Paths.TempDir != wantTemp {
		t.Fatalf("unexpected temp dir: got %q want %q", cfg.Paths.TempDir, wantTemp)
	}
	if cfg.Paths.APIBind != "127.0.0.1:8750" {
		t.Fatalf("unexpected api bind: %q", cfg.Paths.APIBind)
	}
	if cfg.Tools.FFmpeg != "ffmpeg" || cfg.Tools.YtDlp != "yt-dlp" {
		t.Fatalf("unexpected tool defaults: %+v", cfg.Tools)
	}
	if cfg.Translator.Provider != "google" {
		t.Fatalf("expected google translator default, got %q", cfg.Translator.Provider)
	}
	if cfg.Pipeline.ContainerExt != "mp4" {
		t.Fatalf("unexpected container ext: %q", cfg.Pipeline.ContainerExt)
	}
	if !filepath.IsAbs(cfg.Pipeline.HistoryDB) {
		t.Fatalf("expected absolute history db path, got %q", cfg.Pipeline.HistoryDB)
	}
	if filepath.Dir(cfg.Pipeline.LockFile) != cfg.Paths.LogDir {
		t.Fatalf("expected lock file under log dir, got %q", cfg.Pipeline.LockFile)
	}
	if cfg.Dashboard.Seed != 42 {
		t.Fatalf("unexpected dashboard seed: %d", cfg.Dashboard.Seed)
	}
}

func TestLoadParsesExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := strings.Join([]string{
		"[paths]",
		`temp_dir = "` + filepath.Join(dir, "tmp") + `"`,
		`output_dir = "` + filepath.Join(dir, "out") + `"`,
		"[tools]",
		`ffmpeg = "/opt/ffmpeg/bin/ffmpeg"`,
		"extraction_timeout = 45",
		"[logging]",
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected explicit config to exist at %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Tools.FFmpeg != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg: %q", cfg.Tools.FFmpeg)
	}
	if cfg.Tools.ExtractionTimeout != 45 {
		t.Fatalf("unexpected extraction timeout: %d", cfg.Tools.ExtractionTimeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	// Unset sections still get defaults.
	if cfg.Whisper.Model != "base" {
		t.Fatalf("unexpected whisper model: %q", cfg.Whisper.Model)
	}
}

func TestValidateRejectsUnknownTranslatorProvider(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[translator]\nprovider = \"babelfish\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidateRejectsOpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[translator]\nprovider = \"openai\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for openai provider without key")
	}
}

func TestValidateRejectsSharedTempAndOutputDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[paths]\ntemp_dir = \"" + dir + "\"\noutput_dir = \"" + dir + "\"\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error when temp and output dirs collide")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := config.WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := config.WriteSample(path); err == nil {
		t.Fatal("expected error when sample already exists")
	}
	// The written sample must itself load.
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
