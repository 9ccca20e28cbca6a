package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/observability"
	"github.com/fpviz/fpviz/pkg/render/scene"
)

// Runner encapsulates pipeline execution with caching.
// The CLI, the terminal viewer and the HTTP server all use it.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stages 1 and 2: Parse and Analyze
	result, err := r.Analyze(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Stage 3: Render
	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Scene, result.Floorplan, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Analyze runs the parse and analyze stages and returns a Result without
// artifacts. The terminal viewer uses it directly.
func (r *Runner) Analyze(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	// Stage 1: Parse
	result, err := Parse(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Info("parsed inputs",
		"kind", opts.Kind,
		"name", result.Name,
		"blocks", result.Stats.Blocks,
		"duration", result.Stats.ParseTime)

	// Stage 2: Analyze
	start := time.Now()
	a, hit, err := r.AnalyzeWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, err
	}
	a.Scene = a.Scene.Recolor(opts.colors)
	applyAnalysis(result, a)
	result.Stats.AnalyzeTime = time.Since(start)
	result.CacheInfo.AnalyzeHit = hit

	r.Logger.Info("analyzed",
		"shapes", len(a.Scene.Shapes),
		"overlapping", result.Stats.Overlapping,
		"cached", hit,
		"duration", result.Stats.AnalyzeTime)

	return result, nil
}

// AnalyzeWithCacheInfo runs the analyze stage with caching and returns cache
// hit info. The cache key covers the input contents and every option that
// changes the analysis.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, res *Result, opts Options) (Analysis, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Analysis{}, false, err
	}
	hooks := observability.Cache()

	inputHash := res.InputHash
	if inputHash == "" {
		inputHash = opts.InputHash()
	}
	cacheKey := r.Keyer.SceneKey(string(opts.Kind), inputHash, opts.SceneKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Analysis
			if err := json.Unmarshal(data, &cached); err == nil && cached.Scene != nil {
				hooks.OnCacheHit(ctx, "analysis")
				return cached, true, nil
			}
			// If deserialization fails, fall through to recompute
		}
		hooks.OnCacheMiss(ctx, "analysis")
	}

	a, err := Analyze(ctx, res, opts)
	if err != nil {
		return Analysis{}, false, err
	}

	if data, err := json.Marshal(a); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLScene); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "analysis", len(data))
		}
	}

	return a, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info. fp is only used by the dot format.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scene.Scene, fp *floorplan.Floorplan, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if s == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "nothing to render")
	}
	hooks := observability.Cache()
	pipeHooks := observability.Pipeline()

	// Compute cache key from scene data
	sceneData, err := scene.Marshal(s)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize scene for cache key")
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			hooks.OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		hooks.OnCacheMiss(ctx, "artifact")
	}

	pipeHooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := Render(ctx, s, fp, opts)
	pipeHooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "key", key, "error", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
