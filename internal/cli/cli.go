package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/buildinfo"
	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/history"
	"github.com/fpviz/fpviz/pkg/observability"
	"github.com/fpviz/fpviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "fpviz"

	// defaultAddr is the listen address of the serve command.
	defaultAddr = ":8080"

	// defaultHistoryLimit is the number of runs listed by the history command.
	defaultHistoryLimit = 20
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// Exit codes other than the generic failure.
const (
	ExitOverlap  = 2 // overlap --fail-on-overlap found overlaps
	ExitFindings = 2 // floorplan --verify --strict found problems
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
	Msg  string
}

func (e *ExitError) Error() string { return e.Msg }

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "fpviz visualizes and checks floorplans and placements",
		Long: `fpviz renders VLSI floorplanning and placement results.

It reads the block, net and output files of a floorplanning problem or the
Bookshelf .nodes/.pl files of a placement, computes net bounding boxes and
block overlaps, and draws the result as SVG, PNG, PDF, JSON or a net graph.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			observability.RegisterLogHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fpviz/config.toml)")

	// Register all subcommands
	root.AddCommand(c.floorplanCommand())
	root.AddCommand(c.overlapCommand())
	root.AddCommand(c.placementCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Recorder Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use. A cache that cannot be
// opened is reported and replaced by no cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	url := c.Config.Cache
	if noCache {
		url = "none"
	}
	cc, err := cache.Open(ctx, url)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		cc = cache.NewNullCache()
	}
	return pipeline.NewRunner(cc, nil, c.Logger)
}

// newRecorder opens the configured run history.
func (c *CLI) newRecorder(ctx context.Context) history.Recorder {
	rec, err := history.Open(ctx, c.Config.History)
	if err != nil {
		c.Logger.Warn("history disabled", "error", err)
		return history.NullRecorder{}
	}
	return rec
}

// record stores run in the configured history. Failures are logged only.
func (c *CLI) record(ctx context.Context, run history.Run) {
	rec := c.newRecorder(ctx)
	defer rec.Close(ctx)
	if err := rec.Record(ctx, run); err != nil {
		c.Logger.Warn("history not recorded", "error", err)
	}
}
