package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpviz/fpviz/pkg/cache"
	"github.com/fpviz/fpviz/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the scene and artifact cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached scene, artifact and render",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := cache.Open(ctx, c.Config.Cache)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				return errors.New(errors.ErrCodeUnsupported, "cache %T cannot be cleared", cc)
			}
			if err := clearer.Clear(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}

			printSuccess("Cache cleared")
			if fc, ok := cc.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cc, err := cache.Open(ctx, c.Config.Cache)
			if err != nil {
				return err
			}
			defer cc.Close()

			fc, ok := cc.(*cache.FileCache)
			if !ok {
				printInfo("Nothing to prune; this cache expires entries itself")
				return nil
			}
			n, err := fc.Prune(ctx)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "prune cache")
			}
			printSuccess("Removed %d expired entries", n)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.Config.Cache != "" {
				fmt.Fprintln(stdout, c.Config.Cache)
				return nil
			}
			dir, err := cache.DefaultDir()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "locate cache directory")
			}
			fmt.Fprintln(stdout, dir)
			return nil
		},
	}
}
