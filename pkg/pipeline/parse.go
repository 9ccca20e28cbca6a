package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/floorplan"
	"github.com/fpviz/fpviz/pkg/observability"
	"github.com/fpviz/fpviz/pkg/placement"
)

// Parse reads the inputs named by opts.Kind and returns a Result holding
// the parsed model and its size statistics.
func Parse(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()

	res := &Result{Kind: opts.Kind, InputHash: opts.InputHash()}
	in := opts.inputs()[0]
	hooks.OnParseStart(ctx, string(opts.Kind), in.Name)
	start := time.Now()

	var err error
	switch opts.Kind {
	case KindFloorplan:
		err = parseFloorplan(res, opts)
	case KindOverlap:
		err = parseOverlap(res, opts)
	case KindPlacement:
		err = parsePlacement(res, opts)
	}
	res.Stats.ParseTime = time.Since(start)
	hooks.OnParseComplete(ctx, string(opts.Kind), in.Name, res.Stats.Blocks, res.Stats.ParseTime, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func parseFloorplan(res *Result, opts Options) error {
	p, err := floorplan.ParseBlocks(bytes.NewReader(opts.Block.Data))
	if err != nil {
		return errors.WithFile(err, opts.Block.Name)
	}
	if p.Nets, err = floorplan.ParseNets(bytes.NewReader(opts.Nets.Data)); err != nil {
		return errors.WithFile(err, opts.Nets.Name)
	}
	out, err := floorplan.ParseResult(bytes.NewReader(opts.Output.Data))
	if err != nil {
		return errors.WithFile(err, opts.Output.Name)
	}
	logSkipped(opts, out)

	fp := floorplan.New(p, out)
	fp.Name = opts.Block.Name
	res.Floorplan, res.Name = fp, fp.Name

	placed := 0
	for _, b := range p.Blocks {
		if _, ok := fp.Block(b.Name); ok {
			placed++
		}
	}
	res.Stats.Blocks = len(out.Blocks)
	res.Stats.Terminals = len(p.Terminals)
	res.Stats.Nets = len(p.Nets)
	res.Stats.HPWL = fp.TotalHPWL()
	res.Stats.Unresolved = len(fp.Unresolved())
	res.Stats.Unplaced = len(p.Blocks) - placed
	return nil
}

func parseOverlap(res *Result, opts Options) error {
	out, err := floorplan.ParseResult(bytes.NewReader(opts.Output.Data))
	if err != nil {
		return errors.WithFile(err, opts.Output.Name)
	}
	logSkipped(opts, out)
	res.Name = opts.Output.Name
	res.Items = floorplan.Items(out)
	res.Stats.Blocks = len(res.Items)
	return nil
}

func parsePlacement(res *Result, opts Options) error {
	p, err := placement.ParseNodes(bytes.NewReader(opts.Nodes.Data))
	if err != nil {
		return errors.WithFile(err, opts.Nodes.Name)
	}
	if err := p.ApplyPL(bytes.NewReader(opts.PL.Data)); err != nil {
		return errors.WithFile(err, opts.PL.Name)
	}
	p.Name = opts.Nodes.Name
	res.Placement, res.Name = p, p.Name

	for _, n := range p.Nodes {
		if n.Terminal {
			res.Stats.Terminals++
		}
	}
	res.Stats.Blocks = len(p.Placed())
	res.Stats.Unplaced = p.Unplaced()
	res.Stats.Unresolved = p.Unknown
	return nil
}

func logSkipped(opts Options, out *floorplan.Result) {
	if len(out.Skipped) > 0 {
		opts.Logger.Debug("skipped non-block lines", "file", opts.Output.Name, "lines", out.Skipped)
	}
}
