package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors classify pipeline failures by the stage that produced them.
// Stages wrap their failures with one of these markers so callers can use
// errors.Is instead of parsing messages.
var (
	ErrDownload      = errors.New("download failure")
	ErrExtraction    = errors.New("audio extraction failure")
	ErrTranscription = errors.New("transcription failure")
	ErrNoSpeech      = errors.New("no speech generated")
	ErrAudioAssembly = errors.New("audio assembly failure")
	ErrRemux         = errors.New("remux failure")
	ErrConfiguration = errors.New("configuration error")
	ErrBusy          = errors.New("pipeline busy")
	ErrTimeout       = errors.New("timeout")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Kind returns a short stable label for the failure class of err, or "error"
// when the error carries no known marker. The history store and the HTTP API
// use it so failure kinds survive serialization.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrDownload):
		return "download"
	case errors.Is(err, ErrExtraction):
		return "extraction"
	case errors.Is(err, ErrTranscription):
		return "transcription"
	case errors.Is(err, ErrNoSpeech):
		return "no_speech"
	case errors.Is(err, ErrAudioAssembly):
		return "audio_assembly"
	case errors.Is(err, ErrRemux):
		return "remux"
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	default:
		return "error"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
