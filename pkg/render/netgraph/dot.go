package netgraph

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
)

// Options configures graph generation.
type Options struct {
	// Detailed adds block sizes to block labels and HPWL to net labels.
	Detailed bool
}

// ToDOT converts the nets of a floorplan to an undirected Graphviz graph.
// Net members that name neither a block nor a terminal are left out.
func ToDOT(fp *floorplan.Floorplan, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"filled\", fillcolor=white, color=\"#d62728\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#1f77b4\"];\n")
	buf.WriteString("\n")

	for _, b := range fp.Problem.Blocks {
		label := b.Name
		if opts.Detailed {
			label = fmt.Sprintf("%s\n%s", b.Name, b.Size)
		}
		fmt.Fprintf(&buf, "  %q [label=%q];\n", b.Name, label)
	}
	for _, t := range fp.Problem.Terminals {
		fmt.Fprintf(&buf, "  %q [shape=ellipse, color=\"#2ca02c\", fontcolor=\"#2ca02c\"];\n", t.Name)
	}

	buf.WriteString("\n")
	for i, n := range fp.Problem.Nets {
		members := resolved(fp, n)
		switch {
		case len(members) < 2:
			continue
		case len(members) == 2:
			attrs := ""
			if opts.Detailed {
				attrs = fmt.Sprintf(" [label=%q]", formatHPWL(fp.HPWL(n)))
			}
			fmt.Fprintf(&buf, "  %q -- %q%s;\n", members[0], members[1], attrs)
		default:
			id := fmt.Sprintf("net%d", i)
			label := ""
			if opts.Detailed {
				label = formatHPWL(fp.HPWL(n))
			}
			fmt.Fprintf(&buf, "  %q [shape=point, width=0.08, color=\"#1f77b4\", xlabel=%q];\n", id, label)
			for _, m := range members {
				fmt.Fprintf(&buf, "  %q -- %q;\n", id, m)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func resolved(fp *floorplan.Floorplan, n floorplan.Net) []string {
	out := make([]string, 0, len(n.Members))
	for _, m := range n.Members {
		if _, ok := fp.Pin(m); ok {
			out = append(out, m)
		}
	}
	return out
}

func formatHPWL(v float64) string {
	return "hpwl " + strconv.FormatFloat(v, 'g', 6, 64)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a pixel
// viewBox so the graph scales like the other SVG outputs.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// Stats summarizes the graph ToDOT would draw.
type Stats struct {
	Nodes    int // blocks and terminals
	NetHubs  int // nets of degree three or more
	Edges    int
	Skipped  int // nets with fewer than two resolvable members
	MaxFanin int
}

// Summarize counts what ToDOT emits for fp.
func Summarize(fp *floorplan.Floorplan) Stats {
	s := Stats{Nodes: len(fp.Problem.Blocks) + len(fp.Problem.Terminals)}
	for _, n := range fp.Problem.Nets {
		members := resolved(fp, n)
		switch {
		case len(members) < 2:
			s.Skipped++
		case len(members) == 2:
			s.Edges++
		default:
			s.NetHubs++
			s.Edges += len(members)
		}
		s.MaxFanin = max(s.MaxFanin, len(members))
	}
	return s
}

// String renders the stats for logs.
func (s Stats) String() string {
	return fmt.Sprintf("%d nodes, %d net hubs, %d edges, %d skipped",
		s.Nodes, s.NetHubs, s.Edges, s.Skipped)
}
