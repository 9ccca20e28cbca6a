package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/buildinfo"
	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/history"
	"github.com/fpviz/fpviz/pkg/observability"
	"github.com/fpviz/fpviz/pkg/overlap"
	"github.com/fpviz/fpviz/pkg/pipeline"
	"github.com/fpviz/fpviz/pkg/render/sink"
)

const (
	// maxUploadBytes bounds one render request.
	maxUploadBytes = 64 << 20

	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Render uploaded floorplans and placements over HTTP",
		Long: `Render uploaded floorplans and placements over HTTP.

Endpoints:
  POST /api/render/{kind}      multipart upload, kind is floorplan, overlap or placement
                               files: block, nets, output (floorplan); output (overlap);
                               nodes, pl (placement)
                               form values: format, width, height, scale, method,
                               max_cells, window, overlap, verify, alpha,
                               no_labels, no_nets, no_legend
  GET  /renders/{id}           the stored render description
  GET  /renders/{id}/{format}  a stored artifact
  GET  /healthz                liveness check

Renders are kept in the cache for 24 hours.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if !cmd.Flags().Changed("addr") && c.Config.Addr != "" {
				addr = c.Config.Addr
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "serve:")
			rec := c.newRecorder(ctx)
			defer rec.Close(context.Background())

			s := &server{runner: runner, recorder: rec, logger: c.Logger, colors: c.Config.Colors}
			return s.listen(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "keep renders in memory only for the request (GET /renders will miss)")

	return cmd
}

// server holds the dependencies of the HTTP handlers.
type server struct {
	runner   *pipeline.Runner
	recorder history.Recorder
	logger   *log.Logger
	colors   map[string]string
}

// listen serves until ctx is cancelled, then shuts down gracefully.
func (s *server) listen(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	printSuccess("Listening on %s", StyleLink.Render("http://"+displayAddr(addr)))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// routes builds the chi router.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/render/{kind}", s.handleRender)
	r.Get("/renders/{id}", s.handleGetRender)
	r.Get("/renders/{id}/{format}", s.handleGetArtifact)
	return r
}

// observe fires the HTTP hooks and attaches a request-scoped logger.
func (s *server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		logger := s.logger.With("request_id", middleware.GetReqID(ctx))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(withLogger(ctx, logger)))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// renderRecord describes a stored render.
type renderRecord struct {
	ID        string            `json:"id"`
	Kind      pipeline.Kind     `json:"kind"`
	Name      string            `json:"name"`
	Stats     pipeline.Stats    `json:"stats"`
	Overlap   *overlap.Result   `json:"overlap,omitempty"`
	Report    *floorplan.Report `json:"report,omitempty"`
	Artifacts map[string]string `json:"artifacts"` // format to URL
	Cached    bool              `json:"cached"`
	CreatedAt time.Time         `json:"created_at"`
}

// uploadFields lists the multipart file fields of each kind.
var uploadFields = map[pipeline.Kind][]string{
	pipeline.KindFloorplan: {"block", "nets", "output"},
	pipeline.KindOverlap:   {"output"},
	pipeline.KindPlacement: {"nodes", "pl"},
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := loggerFromContext(ctx)

	kind, err := pipeline.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read multipart form"))
		return
	}

	inputs := make([]pipeline.Input, 0, 3)
	for _, field := range uploadFields[kind] {
		in, err := readUpload(r, field)
		if err != nil {
			writeError(w, err)
			return
		}
		inputs = append(inputs, in)
	}

	opts := optionsFor(kind, inputs)
	if err := s.formOptions(r, &opts); err != nil {
		writeError(w, err)
		return
	}
	opts.Logger = logger

	run := history.NewRun("serve "+string(kind), names(inputs)...)
	start := time.Now()
	res, err := s.runner.Execute(ctx, opts)
	run.Duration = time.Since(start)
	if err != nil {
		run.Error = err.Error()
		s.record(ctx, run)
		writeError(w, err)
		return
	}

	rec := renderRecord{
		ID:        uuid.NewString(),
		Kind:      kind,
		Name:      res.Name,
		Stats:     res.Stats,
		Overlap:   res.Overlap,
		Report:    res.Report,
		Artifacts: make(map[string]string, len(res.Artifacts)),
		Cached:    res.CacheInfo.AnalyzeHit && res.CacheInfo.RenderHit,
		CreatedAt: time.Now().UTC(),
	}
	keyer := s.runner.Keyer
	for format, data := range res.Artifacts {
		if err := s.runner.Cache.Set(ctx, keyer.RenderKey(rec.ID+"/"+format), data, cache.TTLRender); err != nil {
			writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store render"))
			return
		}
		rec.Artifacts[format] = "/renders/" + rec.ID + "/" + format
	}
	data, err := json.Marshal(rec)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "encode render"))
		return
	}
	if err := s.runner.Cache.Set(ctx, keyer.RenderKey(rec.ID), data, cache.TTLRender); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "store render"))
		return
	}

	run.ID = rec.ID
	run.Name = res.Name
	run.Blocks = res.Stats.Blocks
	run.Nets = res.Stats.Nets
	run.HPWL = res.Stats.HPWL
	run.Overlaps = res.Stats.Overlapping
	run.CacheHit = rec.Cached
	s.record(ctx, run)

	logger.Info("rendered", "id", rec.ID, "kind", kind, "name", res.Name, "formats", opts.Formats)
	w.Header().Set("Location", "/renders/"+rec.ID)
	writeJSON(w, http.StatusCreated, rec)
}

func (s *server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "render %s not found", id))
		return
	}
	data, ok, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.RenderKey(id))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load render"))
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "render %s not found", id))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	id, format := chi.URLParam(r, "id"), chi.URLParam(r, "format")
	if err := uuid.Validate(id); err != nil {
		writeError(w, errors.New(errors.ErrCodeNotFound, "render %s not found", id))
		return
	}
	data, ok, err := s.runner.Cache.Get(r.Context(), s.runner.Keyer.RenderKey(id+"/"+format))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "load render"))
		return
	}
	if !ok {
		writeError(w, errors.New(errors.ErrCodeNotFound, "render %s has no %s output", id, format))
		return
	}
	w.Header().Set("Content-Type", sink.ContentType(format))
	w.Header().Set("Content-Disposition", `inline; filename="`+id+"."+sink.Extension(format)+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// record stores a server run. Failures are logged only.
func (s *server) record(ctx context.Context, run history.Run) {
	if err := s.recorder.Record(ctx, run); err != nil {
		loggerFromContext(ctx).Warn("history not recorded", "error", err)
	}
}

// =============================================================================
// Request Parsing
// =============================================================================

// readUpload reads the multipart file field.
func readUpload(r *http.Request, field string) (pipeline.Input, error) {
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return pipeline.Input{}, errors.New(errors.ErrCodeInvalidInput, "missing file field %q", field)
	}
	defer f.Close()
	if err := errors.ValidateUploadFilename(hdr.Filename); err != nil {
		return pipeline.Input{}, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return pipeline.Input{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", field)
	}
	return pipeline.Input{Name: hdr.Filename, Data: data}, nil
}

// formOptions reads the render options from the form values.
func (s *server) formOptions(r *http.Request, opts *pipeline.Options) error {
	formats, err := sink.ParseFormats(r.FormValue("format"))
	if err != nil {
		return err
	}
	opts.Formats = formats
	opts.OverlapMethod = r.FormValue("method")
	opts.Window = r.FormValue("window")
	opts.Colors = s.colors

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width}, {"height", &opts.Height}, {"scale", &opts.Scale},
	}
	for _, f := range floats {
		if v := r.FormValue(f.name); v != "" {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil || x <= 0 {
				return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", f.name, v)
			}
			*f.dst = x
		}
	}
	opts.Alpha = pipeline.DefaultAlpha
	if v := r.FormValue("alpha"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "invalid alpha: %q", v)
		}
		opts.Alpha = x
	}
	if v := r.FormValue("max_cells"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "invalid max_cells: %q", v)
		}
		if n > overlap.DefaultMaxCells {
			return errors.New(errors.ErrCodeInvalidInput, "max_cells %d exceeds the server limit %d", n, overlap.DefaultMaxCells)
		}
		opts.MaxCells = n
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"overlap", &opts.PlacementOverlap}, {"verify", &opts.Verify},
		{"no_labels", &opts.HideLabels}, {"no_nets", &opts.HideNets}, {"no_legend", &opts.NoLegend},
	}
	for _, b := range bools {
		if v := r.FormValue(b.name); v != "" {
			x, err := strconv.ParseBool(v)
			if err != nil {
				return errors.New(errors.ErrCodeInvalidInput, "invalid %s: %q", b.name, v)
			}
			*b.dst = x
		}
	}
	return nil
}

func names(inputs []pipeline.Input) []string {
	out := make([]string, len(inputs))
	for i, in := range inputs {
		out[i] = in.Name
	}
	return out
}

// =============================================================================
// Responses
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps an error code to an HTTP status.
func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidWindow,
		errors.ErrCodeInvalidMethod, errors.ErrCodeInvalidPath, errors.ErrCodeParse, errors.ErrCodeUnknownName:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeTooLarge:
		status = http.StatusRequestEntityTooLarge
	case errors.ErrCodeUnsupported:
		status = http.StatusNotImplemented
	}
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": string(code)})
}
