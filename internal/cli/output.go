package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/errors"
	"github.com/fpviz/fpviz/pkg/pipeline"
	"github.com/fpviz/fpviz/pkg/render/sink"
)

// renderFlags are the output flags shared by floorplan, overlap and placement.
type renderFlags struct {
	output   string  // output file (single format) or base path
	formats  string  // comma-separated formats
	width    float64 // canvas width in pixels
	height   float64 // canvas height in pixels
	scale    float64 // PNG scale factor
	noLabels bool
	noLegend bool
	noCache  bool
	refresh  bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(sink.Formats, ", ")+" (comma-separated, default svg)")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width in pixels")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height in pixels")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit block and terminal names")
	cmd.Flags().BoolVar(&f.noLegend, "no-legend", false, "omit the legend")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// apply copies the flags into opts. Settings from the config file fill in
// flags the user did not set.
func (f *renderFlags) apply(cmd *cobra.Command, cfg Config, opts *pipeline.Options) error {
	if err := errors.ValidateOutputPath(f.output); err != nil {
		return err
	}

	formats := f.formats
	if !cmd.Flags().Changed("format") && len(cfg.Formats) > 0 {
		formats = strings.Join(cfg.Formats, ",")
	}
	parsed, err := sink.ParseFormats(formats)
	if err != nil {
		return err
	}
	opts.Formats = parsed

	opts.Width = pick(cmd, "width", f.width, cfg.Width)
	opts.Height = pick(cmd, "height", f.height, cfg.Height)
	opts.Scale = pick(cmd, "scale", f.scale, cfg.Scale)
	opts.HideLabels = f.noLabels
	opts.NoLegend = f.noLegend
	opts.Refresh = f.refresh
	opts.Colors = cfg.Colors
	return nil
}

// analysisFlags are the overlap detector flags.
type analysisFlags struct {
	method   string
	maxCells int64
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.method, "method", "grid", "overlap detector: grid, sweep, quadtree")
	cmd.Flags().Int64Var(&f.maxCells, "max-cells", 0, "cell budget of the grid detector (default 50000000)")
}

func (f *analysisFlags) apply(cmd *cobra.Command, cfg Config, opts *pipeline.Options) {
	opts.OverlapMethod = f.method
	if !cmd.Flags().Changed("method") && cfg.Method != "" {
		opts.OverlapMethod = cfg.Method
	}
	opts.MaxCells = f.maxCells
	if !cmd.Flags().Changed("max-cells") && cfg.MaxCells > 0 {
		opts.MaxCells = cfg.MaxCells
	}
}

// pick returns the flag value when set on the command line, else the config
// value when positive, else the flag default.
func pick(cmd *cobra.Command, name string, flag, cfg float64) float64 {
	if !cmd.Flags().Changed(name) && cfg > 0 {
		return cfg
	}
	return flag
}

// readInputs reads every path, in order.
func readInputs(paths ...string) ([]pipeline.Input, error) {
	inputs := make([]pipeline.Input, len(paths))
	for i, p := range paths {
		in, err := pipeline.ReadInput(p)
		if err != nil {
			return nil, err
		}
		inputs[i] = in
	}
	return inputs, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	for _, f := range slices.Backward(sink.Formats) {
		if ext := "." + sink.Extension(f); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPaths maps each format to the file it is written to. A single format
// with an explicit output goes exactly there; otherwise files are named
// <base>.<ext>.
func outputPaths(formats []string, input, output string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = base + "." + sink.Extension(f)
	}
	return paths
}

// writeArtifacts writes each artifact and returns the written paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	paths := outputPaths(formats, input, output)
	var written []string
	for _, f := range sink.Formats {
		if !slices.Contains(formats, f) {
			continue
		}
		data, ok := artifacts[f]
		if !ok {
			return written, errors.New(errors.ErrCodeInternal, "no %s output was rendered", f)
		}
		path := paths[f]
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", path)
		}
		written = append(written, path)
	}
	return written, nil
}

// printWritten reports the written files.
func printWritten(paths []string) {
	for _, p := range paths {
		printFile(p)
	}
}

// formatHPWL prints a wirelength without a needless fraction.
func formatHPWL(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
