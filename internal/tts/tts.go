// Package tts turns translated text into spoken audio clips.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	googleTTSEndpoint = "https://translate.google.com/translate_tts"

	// maxChunkRunes is the longest text the endpoint accepts per request.
	// Longer segments are split on word boundaries and the MP3 payloads
	// concatenated, which players treat as one continuous stream.
	maxChunkRunes = 200
)

// Synthesizer produces a spoken audio file for a piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang, dest string) error
}

// GoogleSynthesizer uses the free web text-to-speech endpoint. Like the web
// translation endpoint it is unauthenticated and rate limited, so failures
// are expected and must be handled per segment.
type GoogleSynthesizer struct {
	client   *http.Client
	endpoint string
}

// NewGoogleSynthesizer returns a synthesizer with the given per-request
// timeout.
func NewGoogleSynthesizer(timeout time.Duration) *GoogleSynthesizer {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GoogleSynthesizer{
		client:   &http.Client{Timeout: timeout},
		endpoint: googleTTSEndpoint,
	}
}

// SetEndpoint overrides the request URL. Used by tests.
func (g *GoogleSynthesizer) SetEndpoint(endpoint string) {
	g.endpoint = endpoint
}

// Synthesize implements Synthesizer. dest receives MP3 audio.
func (g *GoogleSynthesizer) Synthesize(ctx context.Context, text, lang, dest string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("nothing to synthesize")
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create speech file: %w", err)
	}
	defer out.Close()

	var written int64
	for _, chunk := range splitChunks(text, maxChunkRunes) {
		n, err := g.fetchChunk(ctx, chunk, lang, out)
		if err != nil {
			os.Remove(dest)
			return err
		}
		written += n
	}
	if written == 0 {
		os.Remove(dest)
		return fmt.Errorf("speech synthesis produced no audio")
	}
	return nil
}

func (g *GoogleSynthesizer) fetchChunk(ctx context.Context, text, lang string, out io.Writer) (int64, error) {
	query := url.Values{
		"ie":     {"UTF-8"},
		"client": {"tw-ob"},
		"tl":     {lang},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build speech request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := g.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("speech request: unexpected status %s", resp.Status)
	}
	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return n, fmt.Errorf("read speech response: %w", err)
	}
	return n, nil
}

// splitChunks breaks text into pieces of at most limit runes, preferring to
// split between words so synthesized speech does not cut mid-word.
func splitChunks(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}
	var chunks []string
	var current strings.Builder
	currentLen := 0
	for _, word := range strings.Fields(text) {
		wordLen := utf8.RuneCountInString(word)
		if currentLen > 0 && currentLen+1+wordLen > limit {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
		if currentLen > 0 {
			current.WriteByte(' ')
			currentLen++
		}
		// A single word longer than the limit goes through uncut. The
		// endpoint truncates rather than rejects oversized input.
		current.WriteString(word)
		currentLen += wordLen
	}
	if currentLen > 0 {
		chunks = append(chunks, current.String())
	}
	return chunks
}
