package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsync/internal/reconcile"
	"reelsync/internal/report"
)

// newReportCommand regenerates reports from cached data without hitting the
// network. Useful after editing the library or tuning matcher settings.
func newReportCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [username...]",
		Short: "Rebuild reports from cached data, without fetching",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := ctx.cacheStore()
			if err != nil {
				return err
			}
			scanner, err := ctx.scanner()
			if err != nil {
				return err
			}
			engine, err := ctx.engine()
			if err != nil {
				return err
			}

			users, err := resolveUsers(args, cfg.Letterboxd.Users)
			if err != nil {
				return err
			}

			inv, err := scanner.Scan()
			if err != nil {
				return err
			}

			results := make([]reconcile.Result, 0, len(users))
			for _, user := range users {
				dataset, err := loadCachedDataset(cache, user)
				if err != nil {
					return err
				}
				results = append(results, engine.Reconcile(dataset, inv))
			}

			var pairs []reconcile.PairResult
			for i := 0; i < len(results); i++ {
				for j := i + 1; j < len(results); j++ {
					pairs = append(pairs, engine.Intersect(results[i], results[j]))
				}
			}

			changed, err := report.WriteAll(cfg.ReportsDir(), results, pairs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reports: %s\n", cfg.ReportsDir())
			if changed {
				fmt.Fprintln(out, "Reports updated")
			} else {
				fmt.Fprintln(out, "Reports unchanged")
			}
			return nil
		},
	}

	return cmd
}
