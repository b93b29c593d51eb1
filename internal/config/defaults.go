package config

const (
	defaultDataDir           = "~/.local/share/reelsync"
	defaultStateDir          = "~/.local/share/reelsync/state"
	defaultLogDir            = "~/.local/share/reelsync/logs"
	defaultLetterboxdBaseURL = "https://letterboxd.com"
	defaultRequestDelayMS    = 1000
	defaultRequestTimeout    = 30
	defaultMaxPages          = 128
	defaultMoviesDir         = "~/media/movies"
	defaultTVDir             = "~/media/tv"
	defaultMatchThreshold    = 0.85
	defaultYearPenalty       = 0.8
	defaultCacheMaxAgeHours  = 24
	defaultGitRemote         = "origin"
	defaultNotifyTimeout     = 10
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir(),
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Letterboxd: Letterboxd{
			BaseURL:        defaultLetterboxdBaseURL,
			RequestDelayMS: defaultRequestDelayMS,
			RequestTimeout: defaultRequestTimeout,
			MaxPages:       defaultMaxPages,
			FetchRatings:   true,
		},
		Library: Library{
			MoviesDir: defaultMoviesDir,
			TVDir:     defaultTVDir,
		},
		Matcher: Matcher{
			Threshold:   defaultMatchThreshold,
			YearPenalty: defaultYearPenalty,
		},
		Cache: Cache{
			MaxAgeHours: defaultCacheMaxAgeHours,
		},
		Git: Git{
			Remote: defaultGitRemote,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
