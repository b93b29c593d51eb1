package letterboxd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/media"
)

// ErrUserNotFound indicates the profile does not exist (or is not public).
var ErrUserNotFound = errors.New("letterboxd user not found")

const userAgent = "reelsync/1.0 (+https://github.com/reelsync/reelsync)"

// Options describes client construction parameters.
type Options struct {
	BaseURL        string
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	MaxPages       int
	FetchRatings   bool
}

// OptionsFromConfig maps the letterboxd config section onto client options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		BaseURL:        cfg.Letterboxd.BaseURL,
		RequestDelay:   cfg.RequestDelay(),
		RequestTimeout: time.Duration(cfg.Letterboxd.RequestTimeout) * time.Second,
		MaxPages:       cfg.Letterboxd.MaxPages,
		FetchRatings:   cfg.Letterboxd.FetchRatings,
	}
}

// Client fetches user datasets from Letterboxd.
type Client struct {
	baseURL      string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxPages     int
	fetchRatings bool
	logger       *slog.Logger
}

// NewClient creates a scraping client. A nil logger disables logging.
func NewClient(opts Options, logger *slog.Logger) *Client {
	limit := rate.Inf
	if opts.RequestDelay > 0 {
		limit = rate.Every(opts.RequestDelay)
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 128
	}
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:      opts.BaseURL,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      rate.NewLimiter(limit, 1),
		maxPages:     maxPages,
		fetchRatings: opts.FetchRatings,
		logger:       logging.NewComponentLogger(logger, "letterboxd"),
	}
}

// FetchUser scrapes the user's watched films and watchlist.
func (c *Client) FetchUser(ctx context.Context, username string) (media.UserDataset, error) {
	dataset := media.UserDataset{Username: username}

	watched, err := c.fetchList(ctx, fmt.Sprintf("/%s/films/", username))
	if err != nil {
		return media.UserDataset{}, fmt.Errorf("fetch watched films for %s: %w", username, err)
	}
	if !c.fetchRatings {
		for i := range watched {
			watched[i].Rating = 0
		}
	}
	dataset.Watched = media.DedupeRated(watched)

	watchlist, err := c.fetchList(ctx, fmt.Sprintf("/%s/watchlist/", username))
	if err != nil {
		return media.UserDataset{}, fmt.Errorf("fetch watchlist for %s: %w", username, err)
	}
	dataset.Watchlist = media.Dedupe(media.Plain(watchlist))

	dataset.FetchedAt = time.Now().UTC()
	c.logger.Info("fetched user dataset",
		logging.String("user", username),
		logging.Int("watched", len(dataset.Watched)),
		logging.Int("watchlist", len(dataset.Watchlist)))
	return dataset, nil
}

// fetchList walks the numbered pages of one list until a page comes back
// empty or the page cap is reached.
func (c *Client) fetchList(ctx context.Context, listPath string) ([]media.RatedRecord, error) {
	var records []media.RatedRecord

	for page := 1; page <= c.maxPages; page++ {
		url := c.baseURL + listPath
		if page > 1 {
			url = fmt.Sprintf("%s%spage/%d/", c.baseURL, listPath, page)
		}

		doc, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		pageRecords := parsePosters(doc)
		if len(pageRecords) == 0 {
			break
		}
		records = append(records, pageRecords...)

		c.logger.Debug("scraped page",
			logging.String("url", url),
			logging.Int("records", len(pageRecords)))
	}

	return records, nil
}

func (c *Client) get(ctx context.Context, url string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("request %s: unexpected status %s", url, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
