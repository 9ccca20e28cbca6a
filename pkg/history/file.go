package history

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fpviz/fpviz/pkg/errors"
)

// FileRecorder appends runs to a JSON-lines file.
type FileRecorder struct {
	path string
	mu   sync.Mutex
}

// NewFileRecorder records to path. The file is created on first use.
func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

// Path returns the history file.
func (f *FileRecorder) Path() string { return f.path }

// Record appends r as one line.
func (f *FileRecorder) Record(_ context.Context, r Run) error {
	line, err := json.Marshal(r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode run")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create history directory")
	}
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "open history")
	}
	defer fh.Close()
	_, err = fh.Write(append(line, '\n'))
	return err
}

// Recent reads the whole file and returns the last limit runs, newest first.
// Lines that fail to decode are skipped.
func (f *FileRecorder) Recent(_ context.Context, limit int) ([]Run, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fh, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open history")
	}
	defer fh.Close()

	var runs []Run
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		var r Run
		if json.Unmarshal(sc.Bytes(), &r) == nil {
			runs = append(runs, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read history")
	}

	slices.Reverse(runs)
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Close does nothing.
func (f *FileRecorder) Close(context.Context) error { return nil }

var _ Recorder = (*FileRecorder)(nil)
