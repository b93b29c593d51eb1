package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reelsync/internal/fetchcache"
	"reelsync/internal/media"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "fetch [username...]",
		Short: "Download Letterboxd lists into the local cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}
			cache, err := ctx.cacheStore()
			if err != nil {
				return err
			}

			users, err := resolveUsers(args, cfg.Letterboxd.Users)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			maxAge := cfg.CacheMaxAge()
			for _, user := range users {
				user = strings.ToLower(strings.TrimSpace(user))
				if !refresh {
					watched, watchedErr := cache.Read(user, media.DatasetWatched)
					watchlist, watchlistErr := cache.Read(user, media.DatasetWatchlist)
					if watchedErr == nil && watchlistErr == nil &&
						fetchcache.IsFresh(watched, maxAge) && fetchcache.IsFresh(watchlist, maxAge) {
						fmt.Fprintf(out, "%s: cache is fresh (use --refresh to refetch)\n", user)
						continue
					}
				}

				dataset, err := client.FetchUser(cmd.Context(), user)
				if err != nil {
					return fmt.Errorf("fetch %s: %w", user, err)
				}
				if err := storeDataset(cache, dataset); err != nil {
					return fmt.Errorf("cache %s: %w", user, err)
				}
				fmt.Fprintf(out, "%s: %d watched, %d on watchlist\n",
					user, len(dataset.Watched), len(dataset.Watchlist))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refetch even when cached data is fresh")
	return cmd
}
