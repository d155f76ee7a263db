package download

import (
	"context"
	"fmt"
	"path/filepath"

	"dubboard/internal/fallback"
	"dubboard/internal/fileutil"
	"dubboard/internal/logging"
	"dubboard/internal/runner"
	"dubboard/internal/services"
)

// extractionVariant is one ffmpeg invocation shape. Variants get
// progressively more permissive: explicit PCM codec, then forced WAV
// container, then whatever ffmpeg picks from the extension.
type extractionVariant struct {
	name string
	args func(videoPath, audioPath string) []string
}

var extractionVariants = []extractionVariant{
	{
		name: "pcm-16k-mono",
		args: func(video, audio string) []string {
			return []string{
				"-y", "-hide_banner", "-loglevel", "error",
				"-i", video,
				"-vn", "-acodec", "pcm_s16le", "-ar", "16000", "-ac", "1",
				audio,
			}
		},
	},
	{
		name: "wav-16k-mono",
		args: func(video, audio string) []string {
			return []string{
				"-y", "-hide_banner", "-loglevel", "error",
				"-i", video,
				"-vn", "-ar", "16000", "-ac", "1", "-f", "wav",
				audio,
			}
		},
	},
	{
		name: "basic",
		args: func(video, audio string) []string {
			return []string{
				"-y", "-hide_banner", "-loglevel", "error",
				"-i", video,
				"-vn",
				audio,
			}
		},
	},
}

// ExtractAudio produces a mono 16kHz PCM track from the downloaded video,
// trying command variants in order. Each attempt is bounded by the
// extraction timeout; a timed-out or failed attempt advances to the next
// variant.
func (s *Service) ExtractAudio(ctx context.Context, videoPath, jobID string) (string, error) {
	audioPath := filepath.Join(s.tempDir, jobID+"_audio.wav")

	s.logger.Info("extracting audio", logging.String("video", filepath.Base(videoPath)))

	strategies := make([]fallback.Strategy[string], 0, len(extractionVariants))
	for _, variant := range extractionVariants {
		args := variant.args(videoPath, audioPath)
		strategies = append(strategies, fallback.Strategy[string]{
			Name: variant.name,
			Run: func(ctx context.Context) (string, error) {
				if _, err := s.runner.Run(ctx, runner.Command{Name: s.ffmpegBin, Args: args, Timeout: s.extractTimeout}); err != nil {
					return "", err
				}
				if !fileutil.SizeAtLeast(audioPath, minMediaBytes) {
					return "", fmt.Errorf("extracted audio below %d bytes", minMediaBytes)
				}
				return audioPath, nil
			},
		})
	}

	path, err := fallback.First(ctx, s.logger, strategies)
	if err != nil {
		return "", services.Wrap(services.ErrExtraction, "acquire", "extract audio", "all commands failed", err)
	}

	s.logger.Info("audio extracted",
		logging.String("file", filepath.Base(path)),
		logging.String("size", fileutil.FormatSize(fileSize(path))),
	)
	return path, nil
}
