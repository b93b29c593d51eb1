package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"reelsync/internal/config"
	"reelsync/internal/fetchcache"
	"reelsync/internal/gitsync"
	"reelsync/internal/history"
	"reelsync/internal/inventory"
	"reelsync/internal/letterboxd"
	"reelsync/internal/logging"
	"reelsync/internal/match"
	"reelsync/internal/notify"
	"reelsync/internal/pipeline"
	"reelsync/internal/reconcile"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) configPath() string {
	if c.configFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.configFlag)
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(c.configPath())
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) cacheStore() (*fetchcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return fetchcache.NewStore(cfg.Paths.CacheDir, logger), nil
}

func (c *commandContext) engine() (*reconcile.Engine, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	opts := match.Options{
		Threshold:   cfg.Matcher.Threshold,
		YearPenalty: cfg.Matcher.YearPenalty,
	}
	return reconcile.NewEngine(opts, logger), nil
}

func (c *commandContext) scanner() (*inventory.Scanner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return inventory.NewScanner(cfg.Library.MoviesDir, cfg.Library.TVDir, logger), nil
}

func (c *commandContext) client() (*letterboxd.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return letterboxd.NewClient(letterboxd.OptionsFromConfig(cfg), logger), nil
}

// newPipeline assembles the full sync pipeline. The returned closer releases
// the history database and must be called when the command finishes.
func (c *commandContext) newPipeline(noGit, noNotify bool) (*pipeline.Pipeline, func() error, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, nil, err
	}
	fetcher, err := c.client()
	if err != nil {
		return nil, nil, err
	}
	scanner, err := c.scanner()
	if err != nil {
		return nil, nil, err
	}
	cache, err := c.cacheStore()
	if err != nil {
		return nil, nil, err
	}
	engine, err := c.engine()
	if err != nil {
		return nil, nil, err
	}

	historyStore, err := history.Open(cfg.HistoryDBPath())
	if err != nil {
		return nil, nil, err
	}
	closer := historyStore.Close

	var git *gitsync.Syncer
	if cfg.Git.Enabled && !noGit {
		git = gitsync.New(cfg.Paths.DataDir, cfg.Git.Remote, cfg.Git.Push, logger)
	}

	notifier := notify.NewService(cfg)
	if noNotify {
		notifier = notify.Noop()
	}

	p, err := pipeline.New(pipeline.Deps{
		Config:   cfg,
		Fetcher:  fetcher,
		Scanner:  scanner,
		Cache:    cache,
		Engine:   engine,
		History:  historyStore,
		Git:      git,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return p, closer, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
