package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reelsync/internal/reconcile"
)

func newSharedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shared <username> <username>",
		Short: "Show the watchlist overlap between two users",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			inv, err := scanner.Scan()
			if err != nil {
				return err
			}

			results := make([]reconcile.Result, 2)
			for i, user := range args {
				dataset, err := loadCachedDataset(cache, user)
				if err != nil {
					return err
				}
				results[i] = engine.Reconcile(dataset, inv)
			}

			pair := engine.Intersect(results[0], results[1])
			out := cmd.OutOrStdout()
			if pair.SharedTotal() == 0 {
				fmt.Fprintf(out, "%s and %s share no watchlist entries\n", pair.UserA, pair.UserB)
				return nil
			}

			rows := make([][]string, 0, pair.SharedTotal())
			for _, record := range pair.SharedAvailable {
				rows = append(rows, []string{record.String(), "in library"})
			}
			for _, record := range pair.SharedMissing {
				rows = append(rows, []string{record.String(), "missing"})
			}
			printTable(out,
				[]string{"Title", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft},
			)
			fmt.Fprintf(out, "%d shared, %d ready to watch\n", pair.SharedTotal(), len(pair.SharedAvailable))
			return nil
		},
	}
}
