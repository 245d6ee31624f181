package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"nanobanana/internal/editor"
)

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestAttemptReporterPrintsEachAttemptOnce(t *testing.T) {
	var out lockedBuffer
	report := attemptReporter(&out)
	for _, st := range []editor.State{
		{Loading: true, Attempt: 1},
		{Loading: true, Attempt: 1},
		{Loading: true, Attempt: 2},
		{Loading: false, Attempt: 0},
	} {
		report(st)
	}
	want := "generating (attempt 1)...\ngenerating (attempt 2)...\n"
	if got := out.String(); got != want {
		t.Fatalf("unexpected output:\n%s", got)
	}
}

func TestAttemptReporterConcurrentDeliveries(t *testing.T) {
	var out lockedBuffer
	report := attemptReporter(&out)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report(editor.State{Loading: true, Attempt: 3})
		}()
	}
	wg.Wait()

	if n := strings.Count(out.String(), "attempt 3"); n != 1 {
		t.Fatalf("attempt 3 printed %d times", n)
	}
}
