package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/housingworker/internal/extract"
	apperrors "sjsage522/housingworker/pkg/errors"
)

// Browser modes
const (
	BrowserModeChrome = "chrome"
	BrowserModeStatic = "static"
)

// DefaultListingSearchURL is the aggregator search page bounded to the campus area
const DefaultListingSearchURL = "https://www.zillow.com/new-brunswick-nj/rentals/?searchQueryState=%7B%22pagination%22%3A%7B%7D%2C%22mapBounds%22%3A%7B%22west%22%3A-74.47%2C%22east%22%3A-74.43%2C%22south%22%3A40.48%2C%22north%22%3A40.50%7D%7D"

// Config represents the application configuration
type Config struct {
	// HTTP API
	Port               int
	RateLimitPerMinute int
	CORSAllowedOrigins []string

	// Redis stream publisher, disabled when RedisAddr is empty
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Memcache configuration, in-process cache when empty
	MemcacheAddr string

	// Browser configuration
	BrowserMode       string
	ChromeAddr        string
	Headless          bool
	BrowserProxy      string
	UserAgent         string
	NavigationTimeout time.Duration

	// Scrape configuration
	TargetBlockTime  time.Duration
	TargetPause      time.Duration
	ListingSearchURL string
	ListingLimit     int
	TargetsFile      string
	Targets          []Target

	// Scheduling
	ScrapeAt        string
	ScrapeTimezone  string
	ScrapeInterval  time.Duration
	ScrapeOnStartup bool

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	port, _ := strconv.Atoi(getEnv("PORT", "3001"))
	rateLimit, _ := strconv.Atoi(getEnv("RATE_LIMIT_PER_MINUTE", "100"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	headless, _ := strconv.ParseBool(getEnv("BROWSER_HEADLESS", "true"))
	navTimeout, _ := strconv.Atoi(getEnv("NAVIGATION_TIMEOUT_SECONDS", "60"))
	blockSeconds, _ := strconv.Atoi(getEnv("TARGET_BLOCK_SECONDS", "300"))
	pauseMillis, _ := strconv.Atoi(getEnv("TARGET_PAUSE_MS", "0"))
	listingLimit, _ := strconv.Atoi(getEnv("LISTING_LIMIT", "10"))
	interval, _ := strconv.Atoi(getEnv("SCRAPE_INTERVAL_SECONDS", "0"))
	onStartup, _ := strconv.ParseBool(getEnv("SCRAPE_ON_STARTUP", "true"))

	cfg := &Config{
		Port:                 port,
		RateLimitPerMinute:   rateLimit,
		CORSAllowedOrigins:   splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "housing"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		MemcacheAddr:         os.Getenv("MEMCACHE_ADDR"),
		BrowserMode:          getEnv("BROWSER_MODE", BrowserModeChrome),
		ChromeAddr:           os.Getenv("CHROME_ADDR"),
		Headless:             headless,
		BrowserProxy:         os.Getenv("BROWSER_PROXY"),
		UserAgent:            getEnv("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		NavigationTimeout:    time.Duration(navTimeout) * time.Second,
		TargetBlockTime:      time.Duration(blockSeconds) * time.Second,
		TargetPause:          time.Duration(pauseMillis) * time.Millisecond,
		ListingSearchURL:     getEnv("LISTING_SEARCH_URL", DefaultListingSearchURL),
		ListingLimit:         listingLimit,
		TargetsFile:          os.Getenv("TARGETS_FILE"),
		ScrapeAt:             getEnv("SCRAPE_AT", "06:00"),
		ScrapeTimezone:       getEnv("SCRAPE_TIMEZONE", "Local"),
		ScrapeInterval:       time.Duration(interval) * time.Second,
		ScrapeOnStartup:      onStartup,
		Environment:          getEnv("HOUSING_ENVIRONMENT", "development"),
	}

	cfg.Targets = DefaultTargets()
	if cfg.TargetsFile != "" {
		targets, err := LoadTargets(cfg.TargetsFile)
		if err != nil {
			return nil, apperrors.NewConfiguration("failed to load targets file", err)
		}
		cfg.Targets = targets
	}

	return cfg, nil
}

// Validate checks the configuration for values the worker cannot run with
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return apperrors.NewConfiguration(fmt.Sprintf("invalid port %d", c.Port), nil)
	}
	if c.BrowserMode != BrowserModeChrome && c.BrowserMode != BrowserModeStatic {
		return apperrors.NewConfiguration(fmt.Sprintf("unknown browser mode %q", c.BrowserMode), nil)
	}
	if c.NavigationTimeout <= 0 {
		return apperrors.NewConfiguration("navigation timeout must be positive", nil)
	}
	if c.ListingLimit <= 0 || c.ListingLimit > extract.MaxListings {
		return apperrors.NewConfiguration(fmt.Sprintf("listing limit must be between 1 and %d", extract.MaxListings), nil)
	}
	if c.RedisAddr != "" && c.RedisStreamCount <= 0 {
		return apperrors.NewConfiguration("redis stream count must be positive", nil)
	}
	if c.ScrapeInterval == 0 {
		if _, _, err := ParseClock(c.ScrapeAt); err != nil {
			return apperrors.NewConfiguration("invalid SCRAPE_AT", err)
		}
	}
	if _, err := c.Location(); err != nil {
		return apperrors.NewConfiguration("invalid SCRAPE_TIMEZONE", err)
	}
	return validateTargets(c.Targets)
}

// Location resolves the scrape timezone
func (c *Config) Location() (*time.Location, error) {
	if c.ScrapeTimezone == "" || c.ScrapeTimezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.ScrapeTimezone)
}

// ParseClock parses a "HH:MM" wall-clock time
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
