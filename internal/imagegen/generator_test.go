package imagegen

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"nanobanana/internal/domain"
	"nanobanana/internal/providers/image"
)

type scriptedEditor struct {
	mu       sync.Mutex
	calls    int
	requests []image.EditRequest
	results  []func() (domain.UploadedImage, error)
}

func (s *scriptedEditor) Edit(ctx context.Context, req image.EditRequest) (domain.UploadedImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.requests = append(s.requests, req)
	idx := s.calls - 1
	if idx >= len(s.results) {
		idx = len(s.results) - 1
	}
	return s.results[idx]()
}

func fail(msg string) func() (domain.UploadedImage, error) {
	return func() (domain.UploadedImage, error) {
		return domain.UploadedImage{}, fmt.Errorf("%w: %s", domain.ErrTransport, msg)
	}
}

func succeed(payload string) func() (domain.UploadedImage, error) {
	return func() (domain.UploadedImage, error) {
		return domain.UploadedImage{MIMEType: domain.MIMETypePNG, Data: []byte(payload)}, nil
	}
}

type recordingSleeper struct {
	delays []time.Duration
}

func (r *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return ctx.Err()
}

func validInput() Input {
	img := domain.UploadedImage{MIMEType: domain.MIMETypeJPEG, Data: []byte{0xff, 0xd8}}
	return Input{Image: &img, Prompt: "make it a comic", Style: domain.StyleComicArt, Consistency: 70}
}

func TestGenerateRetriesThenSucceeds(t *testing.T) {
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){fail("500"), fail("503"), succeed("third")}}
	sleeper := &recordingSleeper{}
	var attempts []Attempt
	gen := NewGenerator(editor, Options{Sleeper: sleeper, OnAttempt: func(a Attempt) { attempts = append(attempts, a) }})

	got, err := gen.Generate(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if string(got.Data) != "third" {
		t.Fatalf("unexpected result: %q", got.Data)
	}
	if editor.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", editor.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if !reflect.DeepEqual(sleeper.delays, want) {
		t.Fatalf("unexpected delays: %v", sleeper.delays)
	}
	if len(attempts) != 3 || attempts[2].Err != nil || attempts[0].NextDelay != time.Second {
		t.Fatalf("unexpected attempt events: %+v", attempts)
	}
}

func TestGenerateStopsAtFirstSuccess(t *testing.T) {
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){succeed("first"), fail("never")}}
	sleeper := &recordingSleeper{}
	gen := NewGenerator(editor, Options{Sleeper: sleeper})

	if _, err := gen.Generate(context.Background(), validInput()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if editor.calls != 1 || len(sleeper.delays) != 0 {
		t.Fatalf("expected a single call without waits, got calls=%d waits=%v", editor.calls, sleeper.delays)
	}
}

func TestGenerateExhaustsAttempts(t *testing.T) {
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){fail("first"), fail("second"), fail("third")}}
	sleeper := &recordingSleeper{}
	gen := NewGenerator(editor, Options{Sleeper: sleeper})

	_, err := gen.Generate(context.Background(), validInput())
	if editor.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", editor.calls)
	}
	if len(sleeper.delays) != 2 {
		t.Fatalf("expected 2 waits, got %v", sleeper.delays)
	}
	var failed *domain.GenerationFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected GenerationFailedError, got %v", err)
	}
	if !errors.Is(err, domain.ErrGenerationFailed) || !errors.Is(err, domain.ErrTransport) {
		t.Fatalf("aggregate error should unwrap to sentinel and last error: %v", err)
	}
	if !strings.Contains(failed.LastMessage(), "third") || strings.Contains(err.Error(), "first") {
		t.Fatalf("only the last error should surface: %v", err)
	}
}

func TestGenerateTreatsEmptyResultAsFailure(t *testing.T) {
	empty := func() (domain.UploadedImage, error) { return domain.UploadedImage{}, nil }
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){empty, succeed("ok")}}
	gen := NewGenerator(editor, Options{Sleeper: &recordingSleeper{}})

	if _, err := gen.Generate(context.Background(), validInput()); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if editor.calls != 2 {
		t.Fatalf("expected retry after empty result, got %d calls", editor.calls)
	}
}

func TestGenerateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		want   error
	}{
		{name: "missing image", mutate: func(in *Input) { in.Image = nil }, want: domain.ErrMissingImage},
		{name: "empty image", mutate: func(in *Input) { in.Image = &domain.UploadedImage{} }, want: domain.ErrMissingImage},
		{name: "short prompt", mutate: func(in *Input) { in.Prompt = "abcd" }, want: domain.ErrPromptTooShort},
		{name: "whitespace padded", mutate: func(in *Input) { in.Prompt = "   ab c   " }, want: domain.ErrPromptTooShort},
		{name: "missing image wins", mutate: func(in *Input) { in.Image = nil; in.Prompt = "" }, want: domain.ErrMissingImage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){succeed("x")}}
			in := validInput()
			tc.mutate(&in)
			_, err := NewGenerator(editor, Options{Sleeper: &recordingSleeper{}}).Generate(context.Background(), in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if editor.calls != 0 {
				t.Fatalf("validation failure issued %d calls", editor.calls)
			}
		})
	}
}

func TestGenerateBuildsRequest(t *testing.T) {
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){succeed("x")}}
	in := validInput()
	in.Consistency = 20
	if _, err := NewGenerator(editor, Options{}).Generate(context.Background(), in); err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	req := editor.requests[0]
	if req.Prompt != in.Prompt || req.Style != domain.StyleComicArt || req.Resolution != domain.DefaultResolution {
		t.Fatalf("unexpected request: %+v", req)
	}
	if !strings.Contains(req.Instruction, "consistency setting is 20%") {
		t.Fatalf("unexpected instruction: %s", req.Instruction)
	}
	if string(req.Source.Data) != string(in.Image.Data) {
		t.Fatalf("source image not forwarded")
	}
}

func TestGenerateAbortsWhenContextCancelledDuringBackoff(t *testing.T) {
	editor := &scriptedEditor{results: []func() (domain.UploadedImage, error){fail("x")}}
	ctx, cancel := context.WithCancel(context.Background())
	sleeper := SleeperFunc(func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	})
	_, err := NewGenerator(editor, Options{Sleeper: sleeper}).Generate(ctx, validInput())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if editor.calls != 1 {
		t.Fatalf("expected 1 call, got %d", editor.calls)
	}
}

func TestRetryPolicyDelays(t *testing.T) {
	got := DefaultRetryPolicy().Delays()
	want := []time.Duration{time.Second, 2 * time.Second}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Delays() = %v, want %v", got, want)
	}
	if d := (RetryPolicy{MaxAttempts: 1}).Delays(); len(d) != 0 {
		t.Fatalf("single attempt should not wait: %v", d)
	}
}

func TestTimerSleeperRealTiming(t *testing.T) {
	start := time.Now()
	if err := TimerSleeper.Sleep(context.Background(), 20*time.Millisecond); err != nil {
		t.Fatalf("Sleep error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Fatalf("slept only %s", elapsed)
	}
}
