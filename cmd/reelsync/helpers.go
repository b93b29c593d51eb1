package main

import (
	"errors"
	"fmt"

	"reelsync/internal/fetchcache"
	"reelsync/internal/media"
)

// loadCachedDataset assembles a user dataset from the cache without touching
// the network. Entry age does not matter here; offline commands prefer stale
// data over no data.
func loadCachedDataset(cache *fetchcache.Store, username string) (media.UserDataset, error) {
	watched, err := cache.Read(username, media.DatasetWatched)
	if err != nil {
		if errors.Is(err, fetchcache.ErrMiss) {
			return media.UserDataset{}, fmt.Errorf("no cached data for %s; run `reelsync fetch %s` first", username, username)
		}
		return media.UserDataset{}, err
	}
	watchlist, err := cache.Read(username, media.DatasetWatchlist)
	if err != nil {
		if errors.Is(err, fetchcache.ErrMiss) {
			return media.UserDataset{}, fmt.Errorf("no cached watchlist for %s; run `reelsync fetch %s` first", username, username)
		}
		return media.UserDataset{}, err
	}

	fetchedAt := watched.FetchedAt
	if watchlist.FetchedAt.Before(fetchedAt) {
		fetchedAt = watchlist.FetchedAt
	}
	return media.UserDataset{
		Username:  username,
		Watched:   watched.Records,
		Watchlist: watchlist.Plain(),
		FetchedAt: fetchedAt,
	}, nil
}

// storeDataset writes both lists for the dataset's user.
func storeDataset(cache *fetchcache.Store, dataset media.UserDataset) error {
	watched := fetchcache.Entry{Records: dataset.Watched, FetchedAt: dataset.FetchedAt}
	if err := cache.Write(dataset.Username, media.DatasetWatched, watched); err != nil {
		return err
	}

	var rated []media.RatedRecord
	for _, record := range dataset.Watchlist {
		rated = append(rated, media.RatedRecord{Record: record})
	}
	watchlist := fetchcache.Entry{Records: rated, FetchedAt: dataset.FetchedAt}
	return cache.Write(dataset.Username, media.DatasetWatchlist, watchlist)
}

// resolveUsers falls back to the configured user list when args is empty.
func resolveUsers(args, configured []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(configured) == 0 {
		return nil, errors.New("no usernames given and none configured under [letterboxd]")
	}
	return configured, nil
}
