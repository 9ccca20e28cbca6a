package pipeline

import (
	"context"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/render/netgraph"
	"github.com/fpviz/fpviz/pkg/render/scene"
	"github.com/fpviz/fpviz/pkg/render/sink"
)

// Render generates output artifacts in the requested formats. fp is needed
// only for the dot format.
func Render(ctx context.Context, s *scene.Scene, fp *floorplan.Floorplan, opts Options) (map[string][]byte, error) {
	sinkOpts := opts.SinkOptions()
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case sink.FormatSVG:
			data = sink.RenderSVG(s, sinkOpts...)
		case sink.FormatSVGZ:
			data, err = sink.RenderSVGZ(s, sinkOpts...)
		case sink.FormatPNG:
			data, err = sink.RenderPNG(s, sinkOpts...)
		case sink.FormatPDF:
			data, err = sink.RenderPDF(ctx, s, sinkOpts...)
		case sink.FormatJSON:
			data, err = sink.RenderJSON(s)
		case sink.FormatDOT:
			if fp == nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "dot output needs a net file (floorplan only)")
			}
			if opts.Logger != nil {
				opts.Logger.Debug("net graph", "stats", netgraph.Summarize(fp))
			}
			data, err = netgraph.RenderSVG(ctx, netgraph.ToDOT(fp, netgraph.Options{Detailed: !opts.HideLabels}))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
		}

		if err != nil {
			if errors.GetCode(err) != "" {
				return nil, err
			}
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}
