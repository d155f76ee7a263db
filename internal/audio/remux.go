package audio

import (
	"context"
	"os"
	"path/filepath"

	"dubboard/internal/fileutil"
	"dubboard/internal/runner"
	"dubboard/internal/services"
)

// Remux replaces the video's audio track with the dubbed one. The video
// stream is copied untouched; only the audio is re-encoded to AAC so the
// result plays everywhere an MP4 does.
func (a *Assembler) Remux(ctx context.Context, videoPath, audioPath, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return services.Wrap(services.ErrRemux, "remuxing", "prepare",
			"create output directory", err)
	}
	cmd := runner.Command{
		Name: a.ffmpegBin,
		Args: []string{
			"-y", "-hide_banner", "-loglevel", "error",
			"-i", videoPath,
			"-i", audioPath,
			"-c:v", "copy",
			"-c:a", "aac",
			"-b:a", "128k",
			"-map", "0:v:0",
			"-map", "1:a:0",
			outputPath,
		},
		Timeout: a.remuxTimeout,
	}
	if _, err := a.run.Run(ctx, cmd); err != nil {
		os.Remove(outputPath)
		return services.Wrap(services.ErrRemux, "remuxing", "remux",
			"combine video and dubbed audio", err)
	}
	if !fileutil.SizeAtLeast(outputPath, a.minOutputBytes) {
		os.Remove(outputPath)
		return services.Wrap(services.ErrRemux, "remuxing", "verify",
			"remuxed file is empty or truncated", nil)
	}
	return nil
}
