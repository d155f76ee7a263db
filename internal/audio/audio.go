// Package audio assembles translated speech clips into a single track and
// remuxes it back under the original video.
//
// Assembly works on a fixed 16kHz mono timeline: a silent base track spans
// the whole transcript, each synthesized clip is delayed to its segment's
// start time, and everything is mixed in one ffmpeg amix pass. Intermediate
// clips are deleted as soon as the next step has consumed them so a long
// video never accumulates hundreds of wav files.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dubboard/internal/config"
	"dubboard/internal/fileutil"
	"dubboard/internal/logging"
	"dubboard/internal/runner"
	"dubboard/internal/services"
	"dubboard/internal/translate"
	"dubboard/internal/tts"
)

const sampleRate = 16000

// Assembler builds the dubbed audio track and the final output file.
type Assembler struct {
	tempDir      string
	ffmpegBin    string
	mixTimeout   time.Duration
	remuxTimeout time.Duration
	// minOutputBytes rejects files that ffmpeg created but wrote nothing
	// useful into, typically after an immediate codec error.
	minOutputBytes int64
	synth          tts.Synthesizer
	run            runner.CommandRunner
	logger         *slog.Logger
}

// NewAssembler wires an assembler from config, a command runner and a speech
// synthesizer.
func NewAssembler(cfg *config.Config, run runner.CommandRunner, synth tts.Synthesizer, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = logging.NewNop()
	}
	minBytes := int64(cfg.Pipeline.MinOutputKB) * 1024
	if minBytes <= 0 {
		minBytes = 1024
	}
	return &Assembler{
		tempDir:        cfg.Paths.TempDir,
		ffmpegBin:      cfg.Tools.FFmpeg,
		mixTimeout:     time.Duration(cfg.Tools.MixTimeout) * time.Second,
		remuxTimeout:   time.Duration(cfg.Tools.RemuxTimeout) * time.Second,
		minOutputBytes: minBytes,
		synth:          synth,
		run:            run,
		logger:         logger,
	}
}

// SynthesizeAndMix produces one wav file covering the whole transcript, with
// each segment's speech positioned at its original start time. Segments whose
// synthesis fails are dropped with a warning; if every segment fails the
// job cannot produce a meaningful track and the call fails with ErrNoSpeech.
func (a *Assembler) SynthesizeAndMix(ctx context.Context, segments []translate.SegmentTranslation, lang, jobID string) (string, error) {
	total := totalDuration(segments)
	if total <= 0 {
		return "", services.Wrap(services.ErrNoSpeech, "synthesizing", "plan",
			"transcript has no timed segments", nil)
	}

	basePath := filepath.Join(a.tempDir, jobID+"_base_silence.wav")
	if err := a.writeSilence(ctx, basePath, total); err != nil {
		return "", err
	}
	defer os.Remove(basePath)

	positioned, err := a.positionSegments(ctx, segments, lang, jobID)
	for _, path := range positioned {
		defer os.Remove(path)
	}
	if err != nil {
		return "", err
	}
	if len(positioned) == 0 {
		return "", services.Wrap(services.ErrNoSpeech, "synthesizing", "synthesize",
			"no segment produced usable speech", nil)
	}

	finalPath := filepath.Join(a.tempDir, jobID+"_final_audio.wav")
	if err := a.mix(ctx, basePath, positioned, finalPath); err != nil {
		return "", err
	}
	if !fileutil.SizeAtLeast(finalPath, a.minOutputBytes) {
		return "", services.Wrap(services.ErrAudioAssembly, "synthesizing", "mix",
			"mixed track is empty or truncated", nil)
	}
	return finalPath, nil
}

// writeSilence renders the base track that fixes the mix's overall length.
func (a *Assembler) writeSilence(ctx context.Context, dest string, duration float64) error {
	cmd := runner.Command{
		Name: a.ffmpegBin,
		Args: []string{
			"-y", "-hide_banner", "-loglevel", "error",
			"-f", "lavfi",
			"-i", fmt.Sprintf("anullsrc=duration=%g:sample_rate=%d:channel_layout=mono", duration, sampleRate),
			dest,
		},
		Timeout: a.mixTimeout,
	}
	if _, err := a.run.Run(ctx, cmd); err != nil {
		return services.Wrap(services.ErrAudioAssembly, "synthesizing", "silence",
			"render base silence track", err)
	}
	return nil
}

// positionSegments synthesizes and time-shifts each segment, returning the
// positioned wav paths in segment order. Failed segments are skipped.
func (a *Assembler) positionSegments(ctx context.Context, segments []translate.SegmentTranslation, lang, jobID string) ([]string, error) {
	var positioned []string
	for i, segment := range segments {
		if segment.Outcome == translate.OutcomeSkipped {
			continue
		}
		if err := ctx.Err(); err != nil {
			return positioned, err
		}
		speechPath := filepath.Join(a.tempDir, fmt.Sprintf("%s_speech_%04d.mp3", jobID, i))
		if err := a.synth.Synthesize(ctx, segment.Translated, lang, speechPath); err != nil {
			a.logger.Warn("segment synthesis failed, segment dropped",
				logging.Int("segment", i),
				logging.Error(err))
			continue
		}
		outPath := filepath.Join(a.tempDir, fmt.Sprintf("%s_positioned_%04d.wav", jobID, i))
		err := a.position(ctx, speechPath, outPath, segment.Start)
		os.Remove(speechPath)
		if err != nil {
			a.logger.Warn("segment positioning failed, segment dropped",
				logging.Int("segment", i),
				logging.Error(err))
			os.Remove(outPath)
			continue
		}
		positioned = append(positioned, outPath)
	}
	return positioned, nil
}

// position delays a clip so it starts at the segment's original timestamp.
func (a *Assembler) position(ctx context.Context, src, dest string, startSeconds float64) error {
	delayMS := int(startSeconds * 1000)
	cmd := runner.Command{
		Name: a.ffmpegBin,
		Args: []string{
			"-y", "-hide_banner", "-loglevel", "error",
			"-i", src,
			"-af", fmt.Sprintf("adelay=%d|%d", delayMS, delayMS),
			"-ar", fmt.Sprintf("%d", sampleRate),
			"-ac", "1",
			dest,
		},
		Timeout: a.mixTimeout,
	}
	_, err := a.run.Run(ctx, cmd)
	return err
}

// mix overlays every positioned clip on the silence base in a single pass.
func (a *Assembler) mix(ctx context.Context, basePath string, positioned []string, dest string) error {
	inputs := append([]string{basePath}, positioned...)
	args := []string{"-y", "-hide_banner", "-loglevel", "error"}
	for _, input := range inputs {
		args = append(args, "-i", input)
	}
	args = append(args,
		"-filter_complex", fmt.Sprintf("amix=inputs=%d:duration=longest", len(inputs)),
		dest,
	)
	cmd := runner.Command{Name: a.ffmpegBin, Args: args, Timeout: a.mixTimeout}
	if _, err := a.run.Run(ctx, cmd); err != nil {
		return services.Wrap(services.ErrAudioAssembly, "synthesizing", "mix",
			fmt.Sprintf("mix %d clips", len(positioned)), err)
	}
	return nil
}

// totalDuration is the end of the last segment, which fixes the length of
// the dubbed track.
func totalDuration(segments []translate.SegmentTranslation) float64 {
	var max float64
	for _, segment := range segments {
		if segment.End > max {
			max = segment.End
		}
	}
	return max
}
