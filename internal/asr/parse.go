package asr

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// whisperResult mirrors the JSON document the whisper CLI writes alongside
// the audio file.
type whisperResult struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Segments []struct {
		ID    int     `json:"id"`
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func loadTranscript(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseTranscript(data)
}

func parseTranscript(data []byte) (*Transcript, error) {
	var result whisperResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	transcript := &Transcript{
		Language: strings.TrimSpace(result.Language),
		Segments: make([]Segment, 0, len(result.Segments)),
	}
	for _, seg := range result.Segments {
		transcript.Segments = append(transcript.Segments, Segment{
			Text:  strings.TrimSpace(seg.Text),
			Start: seg.Start,
			End:   seg.End,
		})
	}
	return transcript, nil
}
