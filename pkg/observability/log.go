package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. It implements
// PipelineHooks, CacheHooks and HTTPHooks.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to log.Default() if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

// RegisterLogHooks installs one LogHooks for all event categories.
func RegisterLogHooks(logger *log.Logger) {
	h := NewLogHooks(logger)
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnParseStart(_ context.Context, kind, input string) {
	h.Logger.Debug("parse start", "kind", kind, "input", input)
}

func (h *LogHooks) OnParseComplete(_ context.Context, kind, input string, items int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("parse failed", "kind", kind, "input", input, "err", err)
		return
	}
	h.Logger.Debug("parse done", "kind", kind, "input", input, "items", items, "duration", d)
}

func (h *LogHooks) OnAnalyzeStart(_ context.Context, kind string, items int) {
	h.Logger.Debug("analyze start", "kind", kind, "items", items)
}

func (h *LogHooks) OnAnalyzeComplete(_ context.Context, kind string, d time.Duration, err error) {
	h.Logger.Debug("analyze done", "kind", kind, "duration", d, "err", err)
}

// OnOverlaps logs at warn level when anything overlaps.
func (h *LogHooks) OnOverlaps(_ context.Context, kind, method string, overlapping, pairs int) {
	if pairs == 0 {
		h.Logger.Debug("no overlaps", "kind", kind, "method", method)
		return
	}
	h.Logger.Warn("overlaps found", "kind", kind, "method", method, "items", overlapping, "pairs", pairs)
}

func (h *LogHooks) OnVerified(_ context.Context, name string, errors, findings int) {
	if errors > 0 {
		h.Logger.Warn("verification failed", "name", name, "errors", errors, "findings", findings)
		return
	}
	h.Logger.Debug("verified", "name", name, "findings", findings)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render start", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render done", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
