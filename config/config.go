package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"sjsage522/clienreader/pkg/errors"
)

// Cache backends for the second cache tier
const (
	CacheBackendNone     = "none"
	CacheBackendSQLite   = "sqlite"
	CacheBackendMemcache = "memcache"
	CacheBackendRedis    = "redis"
)

// Config represents the application configuration
type Config struct {
	// Forum origin used to absolutize relative links
	BaseURL string

	// Cache configuration
	MenuCacheTTL   time.Duration
	ListCacheTTL   time.Duration
	DetailCacheTTL time.Duration
	DiskCacheTTL   time.Duration
	CacheBackend   string

	// SQLite configuration (disk tier, visited posts, custom boards)
	SQLitePath string

	// Memcache configuration
	MemcacheAddr string

	// Redis configuration
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int

	// Fetch configuration
	FetchTimeout   time.Duration
	FetchRPS       float64
	FetchBlockTime time.Duration

	// Extraction behaviour
	SkipNotices          bool
	LegacyCommentContent bool

	// Watch worker configuration
	WatchBoards   []string
	WatchSchedule string
	MetricsAddr   string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLength, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "500"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	fetchBlock, _ := strconv.Atoi(getEnv("FETCH_BLOCK_SECONDS", "500"))
	fetchRPS, _ := strconv.ParseFloat(getEnv("FETCH_RPS", "2"), 64)

	return &Config{
		BaseURL:              strings.TrimRight(getEnv("CLIEN_BASE_URL", "https://m.clien.net"), "/"),
		MenuCacheTTL:         getDuration("CACHE_MENU_TTL", 10*time.Hour),
		ListCacheTTL:         getDuration("CACHE_LIST_TTL", 10*time.Hour),
		DetailCacheTTL:       getDuration("CACHE_DETAIL_TTL", 10*time.Hour),
		DiskCacheTTL:         getDuration("CACHE_DISK_TTL", 24*time.Hour),
		CacheBackend:         strings.ToLower(getEnv("CACHE_BACKEND", CacheBackendSQLite)),
		SQLitePath:           getEnv("SQLITE_PATH", "data/clien.db"),
		MemcacheAddr:         getEnv("MEMCACHE_ADDR", "localhost:11211"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "clien_posts"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLength,
		FetchTimeout:         time.Duration(fetchTimeout) * time.Second,
		FetchRPS:             fetchRPS,
		FetchBlockTime:       time.Duration(fetchBlock) * time.Second,
		SkipNotices:          getBool("SKIP_NOTICES", true),
		LegacyCommentContent: getBool("LEGACY_COMMENT_CONTENT", false),
		WatchBoards:          getList("WATCH_BOARDS", []string{"/service/board/park", "/service/board/jirum"}),
		WatchSchedule:        getEnv("WATCH_SCHEDULE", "@every 60s"),
		MetricsAddr:          getEnv("METRICS_ADDR", ":9090"),
		Environment:          getEnv("CLIEN_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for values the pipeline cannot run with
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.NewConfiguration("CLIEN_BASE_URL must be an absolute URL", err)
	}

	for name, ttl := range map[string]time.Duration{
		"CACHE_MENU_TTL":   c.MenuCacheTTL,
		"CACHE_LIST_TTL":   c.ListCacheTTL,
		"CACHE_DETAIL_TTL": c.DetailCacheTTL,
		"CACHE_DISK_TTL":   c.DiskCacheTTL,
	} {
		if ttl <= 0 {
			return errors.NewConfiguration(name+" must be positive", nil)
		}
	}

	switch c.CacheBackend {
	case CacheBackendNone, CacheBackendSQLite, CacheBackendMemcache, CacheBackendRedis:
	default:
		return errors.NewConfiguration("unknown CACHE_BACKEND "+strconv.Quote(c.CacheBackend), nil)
	}

	if c.RedisStreamCount < 1 {
		return errors.NewConfiguration("REDIS_STREAM_COUNT must be at least 1", nil)
	}
	if c.FetchTimeout <= 0 {
		return errors.NewConfiguration("FETCH_TIMEOUT_SECONDS must be positive", nil)
	}
	if c.FetchRPS <= 0 {
		return errors.NewConfiguration("FETCH_RPS must be positive", nil)
	}

	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}

func getList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
