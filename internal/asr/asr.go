package asr

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/logging"
	"dubboard/internal/media/ffprobe"
	"dubboard/internal/runner"
	"dubboard/internal/services"
)

// longAudioWarnSeconds triggers a heads-up log for inputs that will take a
// while to transcribe.
const longAudioWarnSeconds = 600

// Segment is a time-bounded span of recognized speech.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the full result of one transcription run.
type Transcript struct {
	Segments []Segment
	Language string
}

// Service transcribes audio files with the whisper CLI.
type Service struct {
	whisperBin string
	ffprobeBin string
	model      string
	timeout    time.Duration
	runner     runner.CommandRunner
	logger     *slog.Logger
}

// NewService creates a transcription service from configuration.
func NewService(cfg *config.Config, run runner.CommandRunner, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		whisperBin: cfg.Tools.Whisper,
		ffprobeBin: cfg.Tools.FFprobe,
		model:      cfg.Whisper.Model,
		timeout:    time.Duration(cfg.Whisper.Timeout) * time.Second,
		runner:     run,
		logger:     logger.With(logging.String(logging.FieldComponent, "asr")),
	}
}

// Transcribe runs speech recognition over audioPath, writing model output
// into outputDir. It fails when the model errors or produces zero segments.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir string) (*Transcript, error) {
	s.warnOnLongAudio(ctx, audioPath)

	args := []string{
		audioPath,
		"--model", s.model,
		"--output_format", "json",
		"--output_dir", outputDir,
		"--word_timestamps", "True",
		"--verbose", "False",
	}
	if _, err := s.runner.Run(ctx, runner.Command{Name: s.whisperBin, Args: args, Timeout: s.timeout}); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisper", "", err)
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	resultPath := filepath.Join(outputDir, base+".json")
	transcript, err := loadTranscript(resultPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "read result", resultPath, err)
	}
	if len(transcript.Segments) == 0 {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "", "no speech segments found in audio", nil)
	}

	s.logger.Info("transcription complete",
		logging.String("language", transcript.Language),
		logging.Int("segments", len(transcript.Segments)),
	)
	return transcript, nil
}

// warnOnLongAudio measures audio duration best-effort; a failed probe only
// skips the warning.
func (s *Service) warnOnLongAudio(ctx context.Context, audioPath string) {
	result, err := ffprobe.Inspect(ctx, s.runner, s.ffprobeBin, audioPath)
	if err != nil {
		s.logger.Debug("audio duration unknown", logging.Error(err))
		return
	}
	duration := result.DurationSeconds()
	if duration <= 0 {
		return
	}
	s.logger.Info("audio duration measured", logging.Float64("seconds", duration))
	if duration > longAudioWarnSeconds {
		s.logger.Warn("long audio detected, transcription may take a while",
			logging.Float64("seconds", duration),
		)
	}
}
