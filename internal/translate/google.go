package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const googleEndpoint = "https://translate.googleapis.com/translate_a/single"

// GoogleTranslator uses the free web translation endpoint. It needs no API
// key but offers no availability guarantees, so callers must tolerate
// per-request failures.
type GoogleTranslator struct {
	client   *http.Client
	endpoint string
}

// NewGoogleTranslator returns a translator with the given per-request timeout.
func NewGoogleTranslator(timeout time.Duration) *GoogleTranslator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleTranslator{
		client:   &http.Client{Timeout: timeout},
		endpoint: googleEndpoint,
	}
}

// SetEndpoint overrides the request URL. Used by tests.
func (g *GoogleTranslator) SetEndpoint(endpoint string) {
	g.endpoint = endpoint
}

// Translate implements Translator.
func (g *GoogleTranslator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if source == "" {
		source = "auto"
	}
	query := url.Values{
		"client": {"gtx"},
		"sl":     {source},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build translation request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translation request: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read translation response: %w", err)
	}
	return parseGoogleResponse(body)
}

// parseGoogleResponse extracts the translated text from the gtx response,
// a nested JSON array whose first element lists [translated, original, ...]
// chunks.
func parseGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode translation response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translation response")
	}
	var chunks [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &chunks); err != nil {
		return "", fmt.Errorf("decode translation chunks: %w", err)
	}
	var b strings.Builder
	for _, chunk := range chunks {
		if len(chunk) == 0 {
			continue
		}
		var part string
		if err := json.Unmarshal(chunk[0], &part); err != nil {
			continue
		}
		b.WriteString(part)
	}
	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", fmt.Errorf("translation response contained no text")
	}
	return result, nil
}
