package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// cacheCommand creates the cache command for managing the range cache.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the color-range cache",
		Long: `Manage the cache of computed color ranges.

The compose command memoizes per-panel color ranges keyed by the panel
data so repeated renders of the same arrays reuse their scales. The
cache lives under the XDG cache directory.`,
	}

	cmd.AddCommand(c.cachePathCommand())
	cmd.AddCommand(c.cacheClearCommand())

	return cmd
}

// cachePathCommand prints the cache directory.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				printError("%s", err)
				return err
			}
			printKeyValue("cache", dir)
			return nil
		},
	}
}

// cacheClearCommand removes all cached ranges.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached ranges",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				printError("%s", err)
				return err
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is already empty")
				return nil
			}
			if err := os.RemoveAll(dir); err != nil {
				printError("%s", err)
				return err
			}
			printSuccess("Cleared %s", dir)
			return nil
		},
	}
}
