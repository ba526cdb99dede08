package cli

import (
	"fmt"

	"github.com/felixgeelhaar/fsagent/domain/fsop"
	"github.com/felixgeelhaar/fsagent/domain/index"
	"github.com/felixgeelhaar/fsagent/infrastructure/resolver"
	"github.com/spf13/cobra"
)

// newSearchCmd creates the search command.
func (a *App) newSearchCmd() *cobra.Command {
	var (
		scope     string
		extension string
		limit     int
	)

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search the file index by name pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.newRuntime()
			if err != nil {
				return err
			}
			defer rt.close()

			resolvedScope := ""
			if scope != "" {
				resolvedScope, err = rt.resolver.Resolve(scope, resolver.ModeExisting)
				if err != nil {
					return fmt.Errorf("resolve scope %q: %w", scope, err)
				}
			}

			if limit <= 0 || limit > rt.cfg.Limits.MaxResults {
				limit = rt.cfg.Limits.MaxResults
			}

			entries, err := rt.search.Search(cmd.Context(), index.Query{
				NamePattern: args[0],
				Extension:   extension,
				Scope:       resolvedScope,
				Limit:       limit,
			})
			if err != nil {
				return err
			}

			if len(entries) == 0 {
				fmt.Fprintln(a.stdout, "No matches")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(a.stdout, "%s  %s  %s\n",
					e.ModifiedAt.Format("2006-01-02 15:04"),
					fsop.FormatSize(e.SizeBytes),
					e.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&scope, "scope", "", "restrict results to this directory or alias")
	cmd.Flags().StringVar(&extension, "ext", "", "filter by file extension")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")

	return cmd
}
