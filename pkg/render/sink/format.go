package sink

import (
	"slices"
	"strings"

	"github.com/fpviz/fpviz/pkg/errors"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatSVGZ = "svgz"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot" // net connectivity graph, see package netgraph
)

// Formats lists every supported format in display order.
var Formats = []string{FormatSVG, FormatSVGZ, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ContentType returns the MIME type for a format.
func ContentType(format string) string {
	switch format {
	case FormatSVG:
		return "image/svg+xml"
	case FormatSVGZ:
		return "image/svg+xml-compressed"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension for a format, without the dot. The
// net graph is written as SVG.
func Extension(format string) string {
	if format == FormatDOT {
		return "nets.svg"
	}
	return format
}

// ParseFormats splits a comma-separated list, lower-cases and deduplicates
// it. An empty list yields svg.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if !slices.Contains(Formats, f) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be one of %s)", f, strings.Join(Formats, ", "))
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		out = []string{FormatSVG}
	}
	return out, nil
}
