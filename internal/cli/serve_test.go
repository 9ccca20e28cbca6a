package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/history"
	"github.com/fpviz/fpviz/pkg/pipeline"
)

func newTestServer(t *testing.T) (*httptest.Server, *history.FileRecorder) {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	logger := log.New(io.Discard)
	rec := history.NewFileRecorder(filepath.Join(t.TempDir(), "history.jsonl"))
	s := &server{
		runner:   pipeline.NewRunner(fc, nil, logger),
		recorder: rec,
		logger:   logger,
	}
	ts := httptest.NewServer(s.routes())
	t.Cleanup(ts.Close)
	return ts, rec
}

// upload builds a multipart body from file fields and form values.
func upload(t *testing.T, files map[string]string, values map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for field, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		fw, err := mw.CreateFormFile(field, filepath.Base(path))
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(data)
	}
	for k, v := range values {
		mw.WriteField(k, v)
	}
	mw.Close()
	return &body, mw.FormDataContentType()
}

func miniFiles() map[string]string {
	dir := filepath.Join("..", "..", "pkg", "floorplan", "testdata")
	return map[string]string{
		"block":  filepath.Join(dir, "mini.block"),
		"nets":   filepath.Join(dir, "mini.nets"),
		"output": filepath.Join(dir, "mini.out"),
	}
}

func TestServeHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got["status"] != "ok" {
		t.Errorf("status field = %q, want ok", got["status"])
	}
}

func TestServeRenderFloorplan(t *testing.T) {
	ts, rec := newTestServer(t)

	body, ctype := upload(t, miniFiles(), map[string]string{"format": "svg,json", "verify": "true"})
	resp, err := http.Post(ts.URL+"/api/render/floorplan", ctype, body)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d, want 201: %s", resp.StatusCode, data)
	}

	var got renderRecord
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "mini.block" || got.Stats.Blocks != 3 || got.Stats.HPWL != 145 {
		t.Errorf("record = %+v", got)
	}
	if got.Report == nil || !got.Report.OK() {
		t.Errorf("Report = %+v, want a clean report", got.Report)
	}
	if resp.Header.Get("Location") != "/renders/"+got.ID {
		t.Errorf("Location = %q", resp.Header.Get("Location"))
	}

	// The manifest and each artifact can be fetched back.
	manifest, err := http.Get(ts.URL + "/renders/" + got.ID)
	if err != nil {
		t.Fatal(err)
	}
	manifest.Body.Close()
	if manifest.StatusCode != http.StatusOK {
		t.Errorf("GET manifest status = %d", manifest.StatusCode)
	}

	svg, err := http.Get(ts.URL + got.Artifacts["svg"])
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(svg.Body)
	svg.Body.Close()
	if svg.Header.Get("Content-Type") != "image/svg+xml" || !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("svg artifact: %s, %d bytes", svg.Header.Get("Content-Type"), len(data))
	}

	runs, err := rec.Recent(t.Context(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].ID != got.ID || runs[0].Command != "serve floorplan" {
		t.Errorf("recorded runs = %+v", runs)
	}
}

func TestServeRenderErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name   string
		kind   string
		files  map[string]string
		values map[string]string
		status int
		code   errors.Code
	}{
		{"unknown kind", "tower", miniFiles(), nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"missing file", "placement", miniFiles(), nil, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad format", "floorplan", miniFiles(), map[string]string{"format": "gif"}, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad width", "floorplan", miniFiles(), map[string]string{"width": "-3"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad method", "overlap", map[string]string{"output": miniFiles()["output"]}, map[string]string{"method": "brute"}, http.StatusBadRequest, errors.ErrCodeInvalidMethod},
		{"png too large", "floorplan", miniFiles(), map[string]string{"width": "1000000", "height": "1000000", "format": "png"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"max_cells above limit", "overlap", map[string]string{"output": miniFiles()["output"]}, map[string]string{"max_cells": "100000000000"}, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"grid too large", "overlap", map[string]string{"output": miniFiles()["output"]}, map[string]string{"max_cells": "10"}, http.StatusRequestEntityTooLarge, errors.ErrCodeTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ctype := upload(t, tt.files, tt.values)
			resp, err := http.Post(ts.URL+"/api/render/"+tt.kind, ctype, body)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var got map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got["code"] != string(tt.code) {
				t.Errorf("code = %q, want %q (%s)", got["code"], tt.code, got["error"])
			}
		})
	}
}

func TestServeGetMissing(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{
		"/renders/not-a-uuid",
		"/renders/6f1c2a9e-3b1d-4c8e-9f7a-2d4b5e6f7a8b",
		"/renders/6f1c2a9e-3b1d-4c8e-9f7a-2d4b5e6f7a8b/svg",
	} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
	}
}

func TestWriteErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errors.New(errors.ErrCodeParse, "bad"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeUnsupported, "no"), http.StatusNotImplemented},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		writeError(w, tt.err)
		if w.Code != tt.status {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, w.Code, tt.status)
		}
		if !strings.Contains(w.Body.String(), `"code"`) {
			t.Errorf("body %q lacks a code", w.Body.String())
		}
	}
}
