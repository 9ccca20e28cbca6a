package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFilters(t *testing.T) {
	tests := []struct {
		level log.Level
		emit  func(*log.Logger)
		want  bool
	}{
		{log.InfoLevel, func(l *log.Logger) { l.Info("parsed", "blocks", 33) }, true},
		{log.InfoLevel, func(l *log.Logger) { l.Debug("net graph") }, false},
		{log.DebugLevel, func(l *log.Logger) { l.Debug("net graph") }, true},
		{log.WarnLevel, func(l *log.Logger) { l.Info("parsed") }, false},
		{log.WarnLevel, func(l *log.Logger) { l.Warn("overlaps found") }, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		tt.emit(newLogger(&buf, tt.level))
		if got := buf.Len() > 0; got != tt.want {
			t.Errorf("level %s: wrote output = %v, want %v (%q)", tt.level, got, tt.want, buf.String())
		}
	}
}

func TestNewLoggerKeyvals(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("verified", "name", "ami33", "errors", 0)

	for _, want := range []string{"INFO", "verified", "name=ami33", "errors=0"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output %q lacks %q", buf.String(), want)
		}
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))

	time.Sleep(10 * time.Millisecond)
	prog.done("rendered", "blocks", 33)

	for _, want := range []string{"rendered", "blocks=33", "duration="} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("progress.done() output %q lacks %q", buf.String(), want)
		}
	}
	if got := prog.elapsed(); got < 10*time.Millisecond {
		t.Errorf("elapsed() = %v, want >= 10ms", got)
	}
}

func TestLoggerContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext on a bare context should return log.Default()")
	}

	var buf bytes.Buffer
	req := newLogger(&buf, log.InfoLevel).With("request_id", "host/abc-000001")
	ctx := withLogger(context.Background(), req)

	got := loggerFromContext(ctx)
	if got != req {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
	got.Info("render stored")
	if !strings.Contains(buf.String(), "request_id=host/abc-000001") {
		t.Errorf("output %q lacks the request id", buf.String())
	}
}
