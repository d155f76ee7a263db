package translate_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dubboard/internal/asr"
	"dubboard/internal/translate"
)

type scriptedTranslator struct {
	results map[string]string
	errs    map[string]error
	calls   []string
}

func (s *scriptedTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	s.calls = append(s.calls, text)
	if err, ok := s.errs[text]; ok {
		return "", err
	}
	if out, ok := s.results[text]; ok {
		return out, nil
	}
	return "", errors.New("no scripted result for " + text)
}

func TestTranslateAllPreservesOrderAndTiming(t *testing.T) {
	segments := []asr.Segment{
		{Text: "hello", Start: 0, End: 1.5},
		{Text: "world", Start: 1.5, End: 3},
	}
	tr := &scriptedTranslator{results: map[string]string{
		"hello": "hola",
		"world": "mundo",
	}}

	results := translate.TranslateAll(context.Background(), nil, tr, segments, "en", "es")
	if len(results) != len(segments) {
		t.Fatalf("got %d results, want %d", len(results), len(segments))
	}
	for i, r := range results {
		if r.Start != segments[i].Start || r.End != segments[i].End {
			t.Errorf("segment %d timing changed: %+v", i, r)
		}
		if r.Outcome != translate.OutcomeTranslated {
			t.Errorf("segment %d outcome = %s, want translated", i, r.Outcome)
		}
	}
	if results[0].Translated != "hola" || results[1].Translated != "mundo" {
		t.Fatalf("unexpected translations: %+v", results)
	}
}

func TestTranslateAllFallsBackOnFailure(t *testing.T) {
	segments := []asr.Segment{
		{Text: "hello", Start: 0, End: 1},
		{Text: "broken", Start: 1, End: 2},
		{Text: "world", Start: 2, End: 3},
	}
	tr := &scriptedTranslator{
		results: map[string]string{"hello": "hola", "world": "mundo"},
		errs:    map[string]error{"broken": errors.New("rate limited")},
	}

	results := translate.TranslateAll(context.Background(), nil, tr, segments, "en", "es")
	if results[1].Translated != "broken" {
		t.Fatalf("failed segment should keep original text, got %q", results[1].Translated)
	}
	if results[1].Outcome != translate.OutcomeFallback {
		t.Fatalf("failed segment outcome = %s, want fallback", results[1].Outcome)
	}
	if results[0].Outcome != translate.OutcomeTranslated || results[2].Outcome != translate.OutcomeTranslated {
		t.Fatal("surrounding segments should still translate")
	}
	if translate.TranslatedCount(results) != 2 {
		t.Fatalf("TranslatedCount = %d, want 2", translate.TranslatedCount(results))
	}
}

func TestTranslateAllTreatsEchoAsFallback(t *testing.T) {
	segments := []asr.Segment{{Text: "si", Start: 0, End: 1}}
	tr := &scriptedTranslator{results: map[string]string{"si": "si"}}

	results := translate.TranslateAll(context.Background(), nil, tr, segments, "es", "es")
	if results[0].Outcome != translate.OutcomeFallback {
		t.Fatalf("identical output should be tagged fallback, got %s", results[0].Outcome)
	}
}

func TestTranslateAllSkipsEmptySegments(t *testing.T) {
	segments := []asr.Segment{
		{Text: "  ", Start: 0, End: 1},
		{Text: "hello", Start: 1, End: 2},
	}
	tr := &scriptedTranslator{results: map[string]string{"hello": "hola"}}

	results := translate.TranslateAll(context.Background(), nil, tr, segments, "en", "es")
	if results[0].Outcome != translate.OutcomeSkipped {
		t.Fatalf("blank segment outcome = %s, want skipped", results[0].Outcome)
	}
	if len(tr.calls) != 1 || tr.calls[0] != "hello" {
		t.Fatalf("translator called with %v, want only non-empty text", tr.calls)
	}
}

func TestGoogleTranslatorParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "es" {
			t.Errorf("target language = %q, want es", got)
		}
		if got := r.URL.Query().Get("client"); got != "gtx" {
			t.Errorf("client = %q, want gtx", got)
		}
		w.Write([]byte(`[[["Hola ","Hello ",null,null,10],["mundo","world",null,null,10]],null,"en"]`))
	}))
	defer server.Close()

	tr := translate.NewGoogleTranslator(5 * time.Second)
	tr.SetEndpoint(server.URL)

	got, err := tr.Translate(context.Background(), "Hello world", "en", "es")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "Hola mundo" {
		t.Fatalf("got %q, want %q", got, "Hola mundo")
	}
}

func TestGoogleTranslatorRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	tr := translate.NewGoogleTranslator(5 * time.Second)
	tr.SetEndpoint(server.URL)

	if _, err := tr.Translate(context.Background(), "Hello", "en", "es"); err == nil {
		t.Fatal("expected error for non-200 status")
	} else if !strings.Contains(err.Error(), "429") {
		t.Fatalf("error should mention status: %v", err)
	}
}
