// Package pipeline orchestrates a full translation job: download, audio
// extraction, transcription, translation, speech synthesis, mixing and the
// final remux.
//
// Jobs run strictly one at a time. A file lock guards the whole run so a
// second invocation, whether from the CLI or the HTTP API, fails fast with
// ErrBusy instead of fighting over the temp directory.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dubboard/internal/asr"
	"dubboard/internal/audio"
	"dubboard/internal/config"
	"dubboard/internal/download"
	"dubboard/internal/history"
	"dubboard/internal/language"
	"dubboard/internal/logging"
	"dubboard/internal/notifications"
	"dubboard/internal/runner"
	"dubboard/internal/services"
	"dubboard/internal/translate"
	"dubboard/internal/tts"
)

// Stage labels reported in logs, history records and API status payloads.
const (
	StageAcquiring    = "acquiring"
	StageTranscribing = "transcribing"
	StageTranslating  = "translating"
	StageSynthesizing = "synthesizing"
	StageRemuxing     = "remuxing"
	StageDone         = "done"
)

// Request describes one translation job.
type Request struct {
	URL            string
	TargetLanguage string
	// Name overrides the generated job identifier when set.
	Name string
}

// Result summarizes a completed job.
type Result struct {
	JobID            string
	OutputPath       string
	DetectedLanguage string
	Segments         int
	Translated       int
	Duration         time.Duration
}

// Components are the pipeline's collaborators. Tests swap in services built
// on fake runners and synthesizers.
type Components struct {
	Downloader  *download.Service
	Transcriber *asr.Service
	Translator  translate.Translator
	Assembler   *audio.Assembler
	Store       *history.Store
	Notifier    notifications.Service
}

// Pipeline runs translation jobs.
type Pipeline struct {
	cfg    *config.Config
	logger *slog.Logger
	lock   *flock.Flock

	downloader  *download.Service
	transcriber *asr.Service
	translator  translate.Translator
	assembler   *audio.Assembler
	store       *history.Store
	notifier    notifications.Service
}

// New wires a production pipeline: real external commands, the configured
// translator backend, the Google speech endpoint, the history database and
// ntfy notifications.
func New(cfg *config.Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "directories",
			"ensure working directories", err)
	}
	translator, err := translate.NewTranslator(cfg)
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.Pipeline.HistoryDB)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "history",
			"open history database", err)
	}
	run := runner.NewExecRunner()
	synth := tts.NewGoogleSynthesizer(time.Duration(cfg.TTS.RequestTimeout) * time.Second)
	components := Components{
		Downloader:  download.NewService(cfg, run, logger),
		Transcriber: asr.NewService(cfg, run, logger),
		Translator:  translator,
		Assembler:   audio.NewAssembler(cfg, run, synth, logger),
		Store:       store,
		Notifier:    notifications.NewService(cfg),
	}
	return NewWithComponents(cfg, logger, components), nil
}

// NewWithComponents wires a pipeline from pre-built collaborators.
func NewWithComponents(cfg *config.Config, logger *slog.Logger, c Components) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := c.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	return &Pipeline{
		cfg:         cfg,
		logger:      logger,
		lock:        flock.New(cfg.Pipeline.LockFile),
		downloader:  c.Downloader,
		transcriber: c.Transcriber,
		translator:  c.Translator,
		assembler:   c.Assembler,
		store:       c.Store,
		notifier:    notifier,
	}
}

// Close releases the pipeline's persistent resources.
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// History exposes the run store for the jobs command and the API.
func (p *Pipeline) History() *history.Store {
	return p.store
}

// Run executes one job from URL to remuxed output. Exactly one job runs at
// a time; concurrent calls fail with ErrBusy. Temp files scoped to the job
// are removed on every outcome.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	target := language.Normalize(req.TargetLanguage)
	if !language.IsSupported(target) {
		return nil, services.Wrap(services.ErrConfiguration, "startup", "request",
			fmt.Sprintf("unsupported target language %q", req.TargetLanguage), nil)
	}
	if !download.ValidURL(req.URL) {
		return nil, services.Wrap(services.ErrDownload, StageAcquiring, "request",
			fmt.Sprintf("unsupported video URL %q", req.URL), nil)
	}

	locked, err := p.lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrBusy, "startup", "lock",
			"acquire pipeline lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrBusy, "startup", "lock",
			"another job is already running", nil)
	}
	defer func() { _ = p.lock.Unlock() }()

	jobID := buildJobID(req.Name, target)
	if _, ok := services.RequestIDFromContext(ctx); !ok {
		ctx = services.WithRequestID(ctx, uuid.NewString())
	}
	ctx = services.WithJobID(ctx, jobID)
	logger := logging.WithContext(ctx, p.logger)

	defer download.CleanJobFiles(p.cfg.Paths.TempDir, jobID)

	started := time.Now()
	result, stage, err := p.runStages(ctx, logger, req.URL, target, jobID)
	finished := time.Now()

	if err != nil {
		logger.Error("job failed",
			logging.String(logging.FieldStage, stage),
			logging.Error(err))
		p.record(ctx, history.Run{
			JobID:      jobID,
			URL:        req.URL,
			TargetLang: target,
			Status:     history.StatusFailed,
			Stage:      stage,
			ErrorKind:  services.Kind(err),
			Error:      err.Error(),
			StartedAt:  started,
			FinishedAt: finished,
			Duration:   finished.Sub(started),
		})
		if notifyErr := p.notifier.NotifyJobFailed(ctx, jobID, stage, err); notifyErr != nil {
			logger.Warn("failure notification not delivered", logging.Error(notifyErr))
		}
		return nil, err
	}

	result.JobID = jobID
	result.Duration = finished.Sub(started)
	logger.Info("job completed",
		logging.String("output", result.OutputPath),
		logging.Int("segments", result.Segments),
		logging.Int("translated", result.Translated),
		logging.Duration("took", result.Duration))
	p.record(ctx, history.Run{
		JobID:      jobID,
		URL:        req.URL,
		TargetLang: target,
		Status:     history.StatusCompleted,
		Stage:      StageDone,
		OutputPath: result.OutputPath,
		Segments:   result.Segments,
		Translated: result.Translated,
		StartedAt:  started,
		FinishedAt: finished,
		Duration:   result.Duration,
	})
	if notifyErr := p.notifier.NotifyJobCompleted(ctx, jobID, result.OutputPath, result.Duration); notifyErr != nil {
		logger.Warn("completion notification not delivered", logging.Error(notifyErr))
	}
	return result, nil
}

// runStages walks the job through every stage, returning the stage that was
// active when an error occurred.
func (p *Pipeline) runStages(ctx context.Context, logger *slog.Logger, url, target, jobID string) (*Result, string, error) {
	stage := StageAcquiring
	logger.Info("acquiring video", logging.String("url", url))
	videoPath, audioPath, err := p.downloader.Acquire(services.WithStage(ctx, stage), url, jobID)
	if err != nil {
		return nil, stage, err
	}

	stage = StageTranscribing
	logger.Info("transcribing audio")
	transcript, err := p.transcriber.Transcribe(services.WithStage(ctx, stage), audioPath, p.cfg.Paths.TempDir)
	if err != nil {
		return nil, stage, err
	}
	stage = StageTranslating
	logger.Info("translating segments", logging.String("target", target))
	// Source stays "auto": the backend detects per segment, so one
	// misdetected transcript language cannot degrade every translation.
	segments := translate.TranslateAll(services.WithStage(ctx, stage), logger, p.translator, transcript.Segments, "auto", target)
	translated := translate.TranslatedCount(segments)

	stage = StageSynthesizing
	logger.Info("synthesizing dubbed audio track")
	mixedPath, err := p.assembler.SynthesizeAndMix(services.WithStage(ctx, stage), segments, target, jobID)
	if err != nil {
		return nil, stage, err
	}

	stage = StageRemuxing
	outputPath := filepath.Join(p.cfg.Paths.OutputDir,
		jobID+"."+p.cfg.Pipeline.ContainerExt)
	logger.Info("remuxing final video", logging.String("output", outputPath))
	if err := p.assembler.Remux(services.WithStage(ctx, stage), videoPath, mixedPath, outputPath); err != nil {
		return nil, stage, err
	}

	return &Result{
		OutputPath:       outputPath,
		DetectedLanguage: transcript.Language,
		Segments:         len(transcript.Segments),
		Translated:       translated,
	}, StageDone, nil
}

func (p *Pipeline) record(ctx context.Context, run history.Run) {
	if p.store == nil {
		return
	}
	if _, err := p.store.Record(ctx, run); err != nil {
		p.logger.Warn("history record not written", logging.Error(err))
	}
}

// buildJobID derives a filesystem-safe identifier from the optional request
// name and the target language. Every temp file the job creates starts with
// this prefix, which is what makes scoped cleanup possible.
func buildJobID(name, target string) string {
	base := sanitizeName(name)
	if base == "" {
		base = fmt.Sprintf("video_%d", time.Now().Unix())
	}
	return base + "_" + target
}

func sanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastUnderscore := false
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
			}
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
