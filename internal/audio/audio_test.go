package audio_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dubboard/internal/audio"
	"dubboard/internal/config"
	"dubboard/internal/runner"
	"dubboard/internal/services"
	"dubboard/internal/translate"
)

// ffmpegStub answers every ffmpeg invocation by writing a plausible output
// file at the command's final argument.
type ffmpegStub struct {
	commands []runner.Command
	failOn   string // substring of args that should fail
}

func (f *ffmpegStub) Run(_ context.Context, cmd runner.Command) ([]byte, error) {
	f.commands = append(f.commands, cmd)
	joined := strings.Join(cmd.Args, " ")
	if f.failOn != "" && strings.Contains(joined, f.failOn) {
		return nil, errors.New("stub failure")
	}
	dest := cmd.Args[len(cmd.Args)-1]
	return nil, os.WriteFile(dest, make([]byte, 2048), 0o644)
}

func (f *ffmpegStub) argsContaining(substr string) []string {
	var matches []string
	for _, cmd := range f.commands {
		joined := strings.Join(cmd.Args, " ")
		if strings.Contains(joined, substr) {
			matches = append(matches, joined)
		}
	}
	return matches
}

type stubSynth struct {
	failTexts map[string]bool
	calls     int
}

func (s *stubSynth) Synthesize(_ context.Context, text, _, dest string) error {
	s.calls++
	if s.failTexts[text] {
		return errors.New("synthesis refused")
	}
	return os.WriteFile(dest, []byte("ID3fake"), 0o644)
}

func newAssembler(t *testing.T, run runner.CommandRunner, synth *stubSynth) (*audio.Assembler, string) {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.TempDir = t.TempDir()
	return audio.NewAssembler(&cfg, run, synth, nil), cfg.Paths.TempDir
}

func segments() []translate.SegmentTranslation {
	return []translate.SegmentTranslation{
		{Original: "hello", Translated: "hola", Start: 0, End: 2.5, Outcome: translate.OutcomeTranslated},
		{Original: "world", Translated: "mundo", Start: 3, End: 7, Outcome: translate.OutcomeTranslated},
	}
}

func TestSynthesizeAndMixBuildsTimeline(t *testing.T) {
	stub := &ffmpegStub{}
	synth := &stubSynth{}
	asm, tempDir := newAssembler(t, stub, synth)

	path, err := asm.SynthesizeAndMix(context.Background(), segments(), "es", "job1_es")
	if err != nil {
		t.Fatalf("SynthesizeAndMix: %v", err)
	}
	if path != filepath.Join(tempDir, "job1_es_final_audio.wav") {
		t.Fatalf("unexpected output path: %s", path)
	}

	// The silence base must span exactly to the last segment's end.
	silence := stub.argsContaining("anullsrc")
	if len(silence) != 1 {
		t.Fatalf("expected one silence render, got %d", len(silence))
	}
	if !strings.Contains(silence[0], "duration=7") {
		t.Fatalf("silence duration wrong: %s", silence[0])
	}
	if !strings.Contains(silence[0], "sample_rate=16000") || !strings.Contains(silence[0], "channel_layout=mono") {
		t.Fatalf("silence format wrong: %s", silence[0])
	}

	// Each clip is delayed to its segment start in milliseconds.
	delays := stub.argsContaining("adelay=")
	if len(delays) != 2 {
		t.Fatalf("expected two positioned clips, got %d", len(delays))
	}
	if !strings.Contains(delays[0], "adelay=0|0") {
		t.Errorf("first clip delay wrong: %s", delays[0])
	}
	if !strings.Contains(delays[1], "adelay=3000|3000") {
		t.Errorf("second clip delay wrong: %s", delays[1])
	}

	// One mix over the base plus both clips.
	mixes := stub.argsContaining("amix=inputs=3:duration=longest")
	if len(mixes) != 1 {
		t.Fatalf("expected one amix with 3 inputs, got %v", stub.argsContaining("amix"))
	}
}

func TestSynthesizeAndMixCleansIntermediates(t *testing.T) {
	stub := &ffmpegStub{}
	asm, tempDir := newAssembler(t, stub, &stubSynth{})

	if _, err := asm.SynthesizeAndMix(context.Background(), segments(), "es", "job1_es"); err != nil {
		t.Fatalf("SynthesizeAndMix: %v", err)
	}
	for _, pattern := range []string{"*_speech_*", "*_positioned_*", "*_base_silence*"} {
		matches, _ := filepath.Glob(filepath.Join(tempDir, pattern))
		if len(matches) != 0 {
			t.Errorf("intermediate files left behind: %v", matches)
		}
	}
}

func TestSynthesizeAndMixSkipsFailedSegments(t *testing.T) {
	stub := &ffmpegStub{}
	synth := &stubSynth{failTexts: map[string]bool{"hola": true}}
	asm, _ := newAssembler(t, stub, synth)

	if _, err := asm.SynthesizeAndMix(context.Background(), segments(), "es", "job1_es"); err != nil {
		t.Fatalf("SynthesizeAndMix: %v", err)
	}
	if got := stub.argsContaining("amix=inputs=2"); len(got) != 1 {
		t.Fatalf("expected mix over base plus one surviving clip, got %v", stub.argsContaining("amix"))
	}
}

func TestSynthesizeAndMixFailsWhenAllSegmentsFail(t *testing.T) {
	synth := &stubSynth{failTexts: map[string]bool{"hola": true, "mundo": true}}
	asm, _ := newAssembler(t, &ffmpegStub{}, synth)

	_, err := asm.SynthesizeAndMix(context.Background(), segments(), "es", "job1_es")
	if !errors.Is(err, services.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech, got %v", err)
	}
}

func TestSynthesizeAndMixRejectsUntimedTranscript(t *testing.T) {
	asm, _ := newAssembler(t, &ffmpegStub{}, &stubSynth{})
	_, err := asm.SynthesizeAndMix(context.Background(), nil, "es", "job1_es")
	if !errors.Is(err, services.ErrNoSpeech) {
		t.Fatalf("expected ErrNoSpeech for empty transcript, got %v", err)
	}
}

func TestSynthesizeAndMixRejectsTruncatedOutput(t *testing.T) {
	// The stub writes 2048-byte files; a 4 KB floor makes them all too small.
	cfg := config.Default()
	cfg.Paths.TempDir = t.TempDir()
	cfg.Pipeline.MinOutputKB = 4
	asm := audio.NewAssembler(&cfg, &ffmpegStub{}, &stubSynth{}, nil)

	_, err := asm.SynthesizeAndMix(context.Background(), segments(), "es", "job1_es")
	if !errors.Is(err, services.ErrAudioAssembly) {
		t.Fatalf("expected ErrAudioAssembly for undersized mix, got %v", err)
	}
}

func TestRemuxCopiesVideoAndEncodesAudio(t *testing.T) {
	stub := &ffmpegStub{}
	asm, tempDir := newAssembler(t, stub, &stubSynth{})

	out := filepath.Join(tempDir, "out", "video_es.mp4")
	err := asm.Remux(context.Background(), "/tmp/in.mp4", "/tmp/dub.wav", out)
	if err != nil {
		t.Fatalf("Remux: %v", err)
	}
	joined := strings.Join(stub.commands[0].Args, " ")
	for _, want := range []string{"-c:v copy", "-c:a aac", "-b:a 128k", "-map 0:v:0", "-map 1:a:0"} {
		if !strings.Contains(joined, want) {
			t.Errorf("remux args missing %q: %s", want, joined)
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal("remux output missing")
	}
}

func TestRemuxFailureRemovesOutput(t *testing.T) {
	stub := &ffmpegStub{failOn: "-c:v copy"}
	asm, tempDir := newAssembler(t, stub, &stubSynth{})

	out := filepath.Join(tempDir, "video_es.mp4")
	err := asm.Remux(context.Background(), "/tmp/in.mp4", "/tmp/dub.wav", out)
	if !errors.Is(err, services.ErrRemux) {
		t.Fatalf("expected ErrRemux, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Fatal("failed remux left output behind")
	}
}

func TestPositionedClipNamesAreOrdered(t *testing.T) {
	stub := &ffmpegStub{}
	asm, _ := newAssembler(t, stub, &stubSynth{})

	many := make([]translate.SegmentTranslation, 5)
	for i := range many {
		many[i] = translate.SegmentTranslation{
			Translated: fmt.Sprintf("texto %d", i),
			Start:      float64(i),
			End:        float64(i + 1),
			Outcome:    translate.OutcomeTranslated,
		}
	}
	if _, err := asm.SynthesizeAndMix(context.Background(), many, "es", "jobn_es"); err != nil {
		t.Fatalf("SynthesizeAndMix: %v", err)
	}
	var positioned []string
	for _, cmd := range stub.commands {
		joined := strings.Join(cmd.Args, " ")
		if strings.Contains(joined, "adelay=") {
			positioned = append(positioned, cmd.Args[len(cmd.Args)-1])
		}
	}
	for i, path := range positioned {
		want := fmt.Sprintf("_positioned_%04d.wav", i)
		if !strings.HasSuffix(path, want) {
			t.Errorf("clip %d path %s, want suffix %s", i, path, want)
		}
	}
}
