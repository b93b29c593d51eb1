package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/setup"
)

func newSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "setup",
		Short:       "Interactively create a configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := ctx.configPath()
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			} else {
				expanded, err := config.ExpandPath(target)
				if err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
				target = expanded
			}

			cfg, err := setup.Run(cmd.InOrStdin(), cmd.OutOrStdout(), target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nWrote configuration to %s\n", target)
			fmt.Fprintf(out, "Users: %s\n", strings.Join(cfg.Letterboxd.Users, ", "))
			fmt.Fprintln(out, "Run `reelsync sync` to fetch and build your first reports.")
			return nil
		},
	}
}
