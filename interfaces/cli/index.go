package cli

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
	"github.com/spf13/cobra"
)

// newIndexCmd creates the index command.
func (a *App) newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <root>...",
		Short: "Build or rebuild the file index over the given roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			roots := make([]string, 0, len(args))
			for _, raw := range args {
				root, err := rt.resolver.Resolve(raw, resolver.ModeExisting)
				if err != nil {
					return fmt.Errorf("resolve %q: %w", raw, err)
				}
				roots = append(roots, root)
			}

			res, err := rt.indexer.Build(cmd.Context(), roots)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Indexed %d entries (%d skipped) under %s\n",
				res.Indexed, res.Skipped, strings.Join(res.Roots, ", "))
			return nil
		},
	}
}
