// Package history records fpviz runs so that results can be compared over
// time, for example the HPWL of successive solver versions on one benchmark.
//
// Runs go to MongoDB ([MongoRecorder]), a local JSON-lines file
// ([FileRecorder]), or nowhere ([NullRecorder]). [Open] picks one from a URI.
package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fpviz/fpviz/pkg/errors"
)

// Run is one fpviz invocation.
type Run struct {
	ID        string        `bson:"_id" json:"id"`
	Command   string        `bson:"command" json:"command"`
	Name      string        `bson:"name" json:"name"`
	Inputs    []string      `bson:"inputs" json:"inputs"`
	Outputs   []string      `bson:"outputs,omitempty" json:"outputs,omitempty"`
	Blocks    int           `bson:"blocks" json:"blocks"`
	Nets      int           `bson:"nets,omitempty" json:"nets,omitempty"`
	HPWL      float64       `bson:"hpwl,omitempty" json:"hpwl,omitempty"`
	Overlaps  int           `bson:"overlaps" json:"overlaps"`
	Findings  int           `bson:"findings,omitempty" json:"findings,omitempty"`
	CacheHit  bool          `bson:"cache_hit" json:"cache_hit"`
	Duration  time.Duration `bson:"duration" json:"duration"`
	Error     string        `bson:"error,omitempty" json:"error,omitempty"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
}

// NewRun returns a run with a fresh ID and the current time.
func NewRun(command string, inputs ...string) Run {
	return Run{
		ID:        uuid.NewString(),
		Command:   command,
		Inputs:    inputs,
		CreatedAt: time.Now().UTC(),
	}
}

// Recorder stores and lists runs.
type Recorder interface {
	Record(ctx context.Context, r Run) error
	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)
	Close(ctx context.Context) error
}

// NullRecorder discards runs.
type NullRecorder struct{}

func (NullRecorder) Record(context.Context, Run) error          { return nil }
func (NullRecorder) Recent(context.Context, int) ([]Run, error) { return nil, nil }
func (NullRecorder) Close(context.Context) error                { return nil }

// Open returns the recorder for uri:
//
//	"" or "none"        NullRecorder
//	"mongodb://..."     MongoRecorder (also mongodb+srv://)
//	"file:///path"      FileRecorder (a bare path works too)
func Open(ctx context.Context, uri string) (Recorder, error) {
	switch {
	case uri == "" || uri == "none" || uri == "off":
		return NullRecorder{}, nil
	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		r, err := NewMongoRecorder(ctx, uri, DefaultDatabase, DefaultCollection)
		if err != nil {
			return nil, err
		}
		return r, nil
	case strings.HasPrefix(uri, "file://"):
		return NewFileRecorder(strings.TrimPrefix(uri, "file://")), nil
	case strings.Contains(uri, "://"):
		return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported history URI: %s", uri)
	default:
		return NewFileRecorder(uri), nil
	}
}
