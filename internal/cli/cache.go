package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/crosswire/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the conversion cache",
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheStatsCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

// fileCache opens the on-disk cache. Maintenance commands only act on
// the file cache; Redis expires its own entries.
func (c *CLI) fileCache() (*cache.FileCache, error) {
	if c.Config.Cache.RedisAddr != "" {
		printWarning("cache.redis_addr is set; Redis entries expire on their own and are not touched here")
	}
	return cache.NewFileCache(c.Config.Cache.Dir)
}

func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.Config.Cache.Dir)
			return nil
		},
	}
}

func (c *CLI) cacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and size",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache()
			if err != nil {
				return err
			}
			st, err := fc.Stats(cmd.Context())
			if err != nil {
				return err
			}
			printKeyValue("Directory", fc.Dir())
			printKeyValue("Entries", StyleNumber.Render(fmt.Sprint(st.Entries)))
			printKeyValue("Expired", StyleNumber.Render(fmt.Sprint(st.Expired)))
			printKeyValue("Size", formatBytes(st.Bytes))
			printKeyValue("TTL", c.Config.Cache.TTL.String())
			return nil
		},
	}
}

func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sweepCache(cmd.Context(), "Pruning cache...", "Removed %d expired entries",
				func(ctx context.Context, fc *cache.FileCache) (int, error) { return fc.Prune(ctx) })
		},
	}
}

func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.sweepCache(cmd.Context(), "Clearing cache...", "Cleared %d cached entries",
				func(ctx context.Context, fc *cache.FileCache) (int, error) { return fc.Clear(ctx) })
		},
	}
}

func (c *CLI) sweepCache(ctx context.Context, working, done string, fn func(context.Context, *cache.FileCache) (int, error)) error {
	fc, err := c.fileCache()
	if err != nil {
		return err
	}
	spin := newSpinner(ctx, working)
	spin.Start()
	n, err := fn(ctx, fc)
	if err != nil {
		spin.StopWithError(err.Error())
		return err
	}
	spin.StopWithSuccess(fmt.Sprintf(done, n))
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
