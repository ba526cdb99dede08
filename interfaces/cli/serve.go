package cli

import (
	"fmt"

	"github.com/felixgeelhaar/fsagent/infrastructure/indexer"
	"github.com/felixgeelhaar/fsagent/infrastructure/logging"
	"github.com/felixgeelhaar/fsagent/infrastructure/mcp"
	"github.com/spf13/cobra"
)

// newServeCmd creates the serve command.
func (a *App) newServeCmd() *cobra.Command {
	var watchRoots []string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the filesystem tools over MCP stdio",
		Long: `Serve exposes the tool surface to an MCP client over stdin/stdout.
With --watch, indexed entries under the given roots are kept fresh from
filesystem change events on a best-effort basis.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()

			if len(watchRoots) > 0 || rt.cfg.Watch.Enabled {
				watcher, err := indexer.NewWatcher(rt.store, rt.protected)
				if err != nil {
					// Watching is best effort; searches still work from
					// explicit rebuilds.
					logging.Warn().Add(logging.Err(err)).Msg("filesystem watching unavailable")
				} else {
					defer watcher.Close()
					for _, root := range watchRoots {
						if err := watcher.Watch(root); err != nil {
							logging.Warn().Add(logging.Root(root)).Add(logging.Err(err)).Msg("watch failed")
						}
					}
					watcher.Start(ctx)
				}
			}

			srv := mcp.NewServer(mcp.ServerConfig{
				Name:       "fsagent",
				Version:    Version,
				Dispatcher: rt.dispatcher,
				Instructions: "Destructive operations return a confirmation token; " +
					"call confirm_action with it to execute, or cancel_action to abort.",
			})

			fmt.Fprintln(a.stderr, "fsagent serving on stdio")
			return srv.ServeStdio(ctx)
		},
	}

	cmd.Flags().StringSliceVar(&watchRoots, "watch", nil,
		"directories to watch for incremental index updates")

	return cmd
}
