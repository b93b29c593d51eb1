package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the media library and report what was found",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner, err := ctx.scanner()
			if err != nil {
				return err
			}

			inv, err := scanner.Scan()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Movies: %d\n", len(inv.Movies))
			fmt.Fprintf(out, "TV: %d\n", len(inv.TV))

			if list {
				rows := make([][]string, 0, inv.Size())
				for _, record := range inv.Movies {
					rows = append(rows, []string{"movie", record.String()})
				}
				for _, record := range inv.TV {
					rows = append(rows, []string{"tv", record.String()})
				}
				printTable(out,
					[]string{"Kind", "Title"},
					rows,
					[]columnAlignment{alignLeft, alignLeft},
				)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List every entry found")
	return cmd
}
