package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"reelsync/internal/pipeline"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var refresh bool
	var users []string
	var noGit bool
	var noNotify bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Fetch, reconcile, and regenerate all reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, closer, err := ctx.newPipeline(noGit, noNotify)
			if err != nil {
				return err
			}
			defer closer()

			summary, err := p.Sync(cmd.Context(), pipeline.SyncOptions{
				Users:   users,
				Refresh: refresh,
			})
			if err != nil {
				if errors.Is(err, pipeline.ErrLocked) {
					return errors.New("another sync is already running; try again once it finishes")
				}
				return err
			}

			printSummary(cmd, ctx, summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch even when cached data is fresh")
	cmd.Flags().StringSliceVar(&users, "user", nil, "Limit the run to specific usernames")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "Skip committing report changes")
	cmd.Flags().BoolVar(&noNotify, "no-notify", false, "Skip notifications")
	return cmd
}

func printSummary(cmd *cobra.Command, ctx *commandContext, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()

	rows := make([][]string, 0, len(summary.Results))
	for _, result := range summary.Results {
		rows = append(rows, []string{
			result.Username,
			strconv.Itoa(len(result.Watchlist)),
			strconv.Itoa(len(result.Available)),
			strconv.Itoa(len(result.Missing)),
			strconv.Itoa(len(result.Undiscovered)),
		})
	}
	printTable(out,
		[]string{"User", "Watchlist", "Available", "Missing", "Undiscovered"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignRight},
	)

	if len(summary.Failed) > 0 {
		names := make([]string, 0, len(summary.Failed))
		for name := range summary.Failed {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "Skipped %s: %v\n", name, summary.Failed[name])
		}
	}

	if cfg, err := ctx.ensureConfig(); err == nil {
		fmt.Fprintf(out, "Reports: %s\n", cfg.ReportsDir())
	}
	if summary.Changed {
		fmt.Fprintln(out, "Reports updated")
	} else {
		fmt.Fprintln(out, "Reports unchanged")
	}
}
