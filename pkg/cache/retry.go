package cache

import (
	"context"
	"errors"
	"io"
	"net"
	"syscall"
	"time"
)

// Backoff retries an operation against a remote cache while it fails with a
// transient error.
type Backoff struct {
	Attempts int           // total tries, at least 1
	Delay    time.Duration // wait after the first failure, doubled each time
}

// DefaultBackoff is used when connecting to Redis.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second}

// Do calls fn until it succeeds, fails permanently, or the attempts run out.
// It returns the last error, or ctx.Err() when ctx ends while waiting.
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := 0; i < max(b.Attempts, 1); i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
		if err = fn(); err == nil || !Transient(err) {
			return err
		}
	}
	return err
}

// Transient reports whether err is worth retrying: network timeouts,
// refused or reset connections, and a connection closed mid-reply.
func Transient(err error) bool {
	if err == nil {
		return false
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var op *net.OpError
	if errors.As(err, &op) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, io.EOF)
}
