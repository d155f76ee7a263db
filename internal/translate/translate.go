// Package translate converts transcript segments into the target language.
//
// A Translator backend handles single strings. TranslateAll applies one to a
// whole transcript, keeping segment order and timing, and falls back to the
// original text for any segment the backend cannot improve on.
package translate

import (
	"context"
	"log/slog"
	"strings"

	"dubboard/internal/asr"
	"dubboard/internal/logging"
)

// Translator translates a single piece of text between two languages.
// source may be "auto" when the source language is unknown.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Outcome records how a segment's translated text was produced.
type Outcome string

const (
	// OutcomeTranslated means the backend returned usable translated text.
	OutcomeTranslated Outcome = "translated"
	// OutcomeFallback means the original text was kept, either because the
	// backend failed or because it echoed the input unchanged.
	OutcomeFallback Outcome = "fallback"
	// OutcomeSkipped means the segment had no text to translate.
	OutcomeSkipped Outcome = "skipped"
)

// SegmentTranslation pairs a transcript segment with its translated text.
type SegmentTranslation struct {
	Original   string
	Translated string
	Start      float64
	End        float64
	Outcome    Outcome
}

// TranslateAll translates every segment in order. Backend failures never
// abort the run: the affected segment keeps its original text and is tagged
// OutcomeFallback so callers can report how much of the transcript actually
// changed language.
func TranslateAll(ctx context.Context, logger *slog.Logger, tr Translator, segments []asr.Segment, source, target string) []SegmentTranslation {
	if logger == nil {
		logger = logging.NewNop()
	}
	results := make([]SegmentTranslation, 0, len(segments))
	for i, segment := range segments {
		result := SegmentTranslation{
			Original:   segment.Text,
			Translated: segment.Text,
			Start:      segment.Start,
			End:        segment.End,
			Outcome:    OutcomeFallback,
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			result.Outcome = OutcomeSkipped
			results = append(results, result)
			continue
		}
		translated, err := tr.Translate(ctx, text, source, target)
		switch {
		case err != nil:
			logger.Warn("segment translation failed, keeping original text",
				logging.Int("segment", i),
				logging.Error(err))
		case strings.TrimSpace(translated) == "" || strings.TrimSpace(translated) == text:
			logger.Debug("translator returned unchanged text",
				logging.Int("segment", i))
		default:
			result.Translated = translated
			result.Outcome = OutcomeTranslated
		}
		results = append(results, result)
	}
	return results
}

// TranslatedCount reports how many segments ended up with translated text.
func TranslatedCount(results []SegmentTranslation) int {
	n := 0
	for _, r := range results {
		if r.Outcome == OutcomeTranslated {
			n++
		}
	}
	return n
}
