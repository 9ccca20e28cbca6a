package sink

import (
	"bytes"

	"github.com/klauspost/compress/gzip"

	"github.com/fpviz/fpviz/pkg/render/scene"
)

// RenderSVGZ draws the scene as gzip-compressed SVG. Large placements shrink
// by an order of magnitude.
func RenderSVGZ(s *scene.Scene, opts ...Option) ([]byte, error) {
	return Gzip(RenderSVG(s, opts...))
}

// Gzip compresses data at the best compression level.
func Gzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
