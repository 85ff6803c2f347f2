package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pdext/pkg/cache"
	"github.com/matzehuels/pdext/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart and geometry cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			clr, ok := ch.(cache.Clearer)
			if !ok {
				printWarning(cmd.OutOrStdout(), "Backend %q has nothing to clear", c.Config.Cache.Backend)
				return nil
			}
			if err := clr.Clear(ctx); err != nil {
				return errors.Wrap(errors.ErrCodeInternal, err, "clear cache")
			}
			printSuccess(cmd.OutOrStdout(), "Cleared cache")
			printDetail(cmd.OutOrStdout(), "Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the
// file cache, the server otherwise.
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case cache.BackendRedis:
		return cfg.RedisURL
	case cache.BackendMongo:
		return cfg.MongoURI
	case cache.BackendNone:
		return "disabled"
	}
	if cfg.Dir != "" {
		return cfg.Dir
	}
	dir, err := cacheDir()
	if err != nil {
		return "unavailable: " + err.Error()
	}
	return dir
}
