package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.out = &buf
	return s, &buf
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Rendering ami33...")
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Rendering ami33...") {
		t.Errorf("spinner output %q lacks the message", buf.String())
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := quietSpinner(ctx, "Testing with context...")
	s.Start()
	cancel()

	// Give goroutine time to notice cancellation
	time.Sleep(100 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("Spinner should be cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Testing idempotent stop...")
	s.Start()

	// Stop multiple times should not panic
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithStatus(t *testing.T) {
	out := captureStdout(t)

	s, _ := quietSpinner(context.Background(), "Testing...")
	s.Start()
	s.StopWithSuccess("Rendered")
	s2, _ := quietSpinner(context.Background(), "Testing...")
	s2.Start()
	s2.StopWithError("Failed")

	got := out.String()
	if !strings.Contains(got, "Rendered") || !strings.Contains(got, "Failed") {
		t.Errorf("status output = %q", got)
	}
}

func TestSpinnerNotTerminalPrintsOnce(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Parsing adaptec1.pl...")
	s.Start()
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	got := buf.String()
	if n := strings.Count(got, "Parsing adaptec1.pl..."); n != 1 {
		t.Errorf("message printed %d times, want 1: %q", n, got)
	}
	if strings.Contains(got, "\r") {
		t.Errorf("non-terminal output should not redraw: %q", got)
	}
}
