package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/fallback"
	"dubboard/internal/fileutil"
	"dubboard/internal/logging"
	"dubboard/internal/runner"
	"dubboard/internal/services"
)

// minMediaBytes rejects zero-length and truncated tool output.
const minMediaBytes = 1000

// urlPatterns are the URL shapes the pipeline accepts. Matching is substring
// containment; anything deeper is the downloader's problem.
var urlPatterns = []string{
	"youtube.com/watch?v=",
	"youtu.be/",
	"youtube.com/embed/",
	"m.youtube.com/watch?v=",
	"youtube.com/shorts/",
}

// ValidURL reports whether url looks like a supported video URL.
func ValidURL(url string) bool {
	url = strings.TrimSpace(url)
	if url == "" {
		return false
	}
	for _, pattern := range urlPatterns {
		if strings.Contains(url, pattern) {
			return true
		}
	}
	return false
}

// FormatStrategy is one yt-dlp format selection attempt.
type FormatStrategy struct {
	Name      string
	Format    string
	ExtraArgs []string
}

// DefaultStrategies returns the ordered download strategies: best quality
// capped at 720p, then a low-quality compatible fallback, then anything the
// source offers.
func DefaultStrategies() []FormatStrategy {
	return []FormatStrategy{
		{
			Name:   "best-mp4-720p",
			Format: "best[height<=720][ext=mp4]/best[ext=mp4]/best",
		},
		{
			Name:      "worst-mp4",
			Format:    "worst[ext=mp4]/18/worst",
			ExtraArgs: []string{"--http-chunk-size", "10M"},
		},
		{
			Name:   "any",
			Format: "best/worst",
		},
	}
}

// Service acquires source media: it downloads the video and extracts a
// normalized mono 16kHz PCM audio track.
type Service struct {
	tempDir         string
	ytdlpBin        string
	ffmpegBin       string
	downloadTimeout time.Duration
	extractTimeout  time.Duration
	strategies      []FormatStrategy
	runner          runner.CommandRunner
	logger          *slog.Logger
}

// NewService creates an acquisition service from configuration.
func NewService(cfg *config.Config, run runner.CommandRunner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		tempDir:         cfg.Paths.TempDir,
		ytdlpBin:        cfg.Tools.YtDlp,
		ffmpegBin:       cfg.Tools.FFmpeg,
		downloadTimeout: time.Duration(cfg.Tools.DownloadTimeout) * time.Second,
		extractTimeout:  time.Duration(cfg.Tools.ExtractionTimeout) * time.Second,
		strategies:      DefaultStrategies(),
		runner:          run,
		logger:          logger.With(logging.String(logging.FieldComponent, "download")),
	}
}

// WithStrategies overrides the download strategy list (used in tests).
func (s *Service) WithStrategies(strategies []FormatStrategy) *Service {
	s.strategies = strategies
	return s
}

// Acquire downloads the video at url and extracts its audio track, both
// namespaced by jobID under the temp directory.
func (s *Service) Acquire(ctx context.Context, url, jobID string) (videoPath, audioPath string, err error) {
	videoPath, err = s.Download(ctx, url, jobID)
	if err != nil {
		return "", "", err
	}
	audioPath, err = s.ExtractAudio(ctx, videoPath, jobID)
	if err != nil {
		return "", "", err
	}
	return videoPath, audioPath, nil
}

// Download fetches the source video using the ordered strategy list. Stale
// temp files from a previous run with the same job identifier are removed
// first.
func (s *Service) Download(ctx context.Context, url, jobID string) (string, error) {
	if !ValidURL(url) {
		return "", services.Wrap(services.ErrDownload, "acquire", "validate url", fmt.Sprintf("unsupported video URL %q", url), nil)
	}

	CleanJobFiles(s.tempDir, jobID)

	s.logger.Info("downloading video", logging.String("url", url))

	strategies := make([]fallback.Strategy[string], 0, len(s.strategies))
	for _, strategy := range s.strategies {
		strategies = append(strategies, fallback.Strategy[string]{
			Name: strategy.Name,
			Run:  s.downloadAttempt(url, jobID, strategy),
		})
	}

	path, err := fallback.First(ctx, s.logger, strategies)
	if err != nil {
		return "", services.Wrap(services.ErrDownload, "acquire", "download", "all strategies failed", err)
	}

	s.logger.Info("download complete",
		logging.String("file", filepath.Base(path)),
		logging.String("size", fileutil.FormatSize(fileSize(path))),
	)
	return path, nil
}

func (s *Service) downloadAttempt(url, jobID string, strategy FormatStrategy) func(context.Context) (string, error) {
	return func(ctx context.Context) (string, error) {
		template := filepath.Join(s.tempDir, jobID+".%(ext)s")
		args := []string{
			"-f", strategy.Format,
			"-o", template,
			"--no-warnings",
			"--no-progress",
			"--no-playlist",
		}
		args = append(args, strategy.ExtraArgs...)
		args = append(args, url)

		if _, err := s.runner.Run(ctx, runner.Command{Name: s.ytdlpBin, Args: args, Timeout: s.downloadTimeout}); err != nil {
			return "", err
		}

		path, err := s.locateDownload(jobID)
		if err != nil {
			return "", err
		}
		if !fileutil.SizeAtLeast(path, minMediaBytes) {
			return "", fmt.Errorf("downloaded file %s below %d bytes", filepath.Base(path), minMediaBytes)
		}
		return path, nil
	}
}

// locateDownload finds the file yt-dlp produced for the job. The template
// pins the basename to the job identifier, only the extension varies.
func (s *Service) locateDownload(jobID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(s.tempDir, jobID+".*"))
	if err != nil {
		return "", err
	}
	var best string
	var bestSize int64
	for _, match := range matches {
		// The audio track extracted later shares the prefix; skip it when
		// a retry reuses the namespace.
		if strings.HasSuffix(match, "_audio.wav") {
			continue
		}
		if size := fileSize(match); size > bestSize {
			best, bestSize = match, size
		}
	}
	if best == "" {
		return "", fmt.Errorf("no downloaded file matching %s.*", jobID)
	}
	return best, nil
}

// CleanJobFiles removes every temp artifact belonging to jobID.
func CleanJobFiles(tempDir, jobID string) int {
	if strings.TrimSpace(jobID) == "" {
		return 0
	}
	return fileutil.RemoveGlob(filepath.Join(tempDir, jobID+"*"))
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
