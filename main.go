package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"sjsage522/clienreader/config"
	"sjsage522/clienreader/helpers"
	"sjsage522/clienreader/internal/crawler"
	"sjsage522/clienreader/internal/render"
	"sjsage522/clienreader/logger"
	"sjsage522/clienreader/services/cache"
	"sjsage522/clienreader/services/metrics"
	"sjsage522/clienreader/services/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	metrics.MustRegister(prometheus.DefaultRegisterer)

	// Set up context with cancellation on shutdown signals
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewMain().Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Configuration. Loaded from the environment when nil.
	Config *config.Config

	services *Services
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases all services.
func (m *Main) Close() {
	if m.services != nil {
		m.services.Cleanup()
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("clienreader"),
		kong.Description("Read Clien boards, posts and comments from the terminal"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'clienreader --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Load and validate configuration
	cfg := m.Config
	if cfg == nil {
		cfg = config.LoadConfig()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	services, err := initializeServices(ctx, cfg)
	if err != nil {
		return err
	}
	m.services = services
	defer m.Close()

	deps.Config = cfg
	deps.Store = services.Store
	deps.Repo = crawler.NewRepository(services.Fetcher, crawler.Options{
		BaseURL:              cfg.BaseURL,
		SkipNotices:          cfg.SkipNotices,
		LegacyCommentContent: cfg.LegacyCommentContent,
		MenuTTL:              cfg.MenuCacheTTL,
		ListTTL:              cfg.ListCacheTTL,
		DetailTTL:            cfg.DetailCacheTTL,
		Secondary:            services.Secondary,
		SecondaryTTL:         cfg.DiskCacheTTL,
		BlockCache:           services.Block,
		BlockTime:            cfg.FetchBlockTime,
		Visited:              services.Store,
		Boards:               services.Store,
	})
	deps.Converter = render.NewConverter()

	return kongCtx.Run(deps)
}

// Services holds all the initialized services
type Services struct {
	Fetcher   *helpers.Fetcher
	Store     *store.Store
	Secondary cache.CacheService
	Block     cache.CacheService

	closers []func() error
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.LogError("main", err, "cleanup failed")
		}
	}
	s.closers = nil
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	log := logger.ForComponent("main")
	services := &Services{
		Fetcher: helpers.NewFetcher(
			helpers.WithTimeout(cfg.FetchTimeout),
			helpers.WithRateLimit(cfg.FetchRPS),
		),
	}

	// The sqlite store always backs visited posts and custom boards
	db, err := store.Open(cfg.SQLitePath)
	if err != nil {
		return nil, err
	}
	services.Store = db
	services.closers = append(services.closers, db.Close)

	switch cfg.CacheBackend {
	case config.CacheBackendSQLite:
		services.Secondary = db
		if n, err := db.PurgeExpired(); err != nil {
			log.Warn().Err(err).Msg("failed to purge expired cache entries")
		} else if n > 0 {
			log.Debug().Int64("purged", n).Msg("expired cache entries removed")
		}
	case config.CacheBackendMemcache:
		mc := cache.NewMemcacheService(cfg.MemcacheAddr)
		if err := mc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.MemcacheAddr).Msg("memcache unreachable, continuing without shared cache")
		} else {
			services.Secondary = mc
			logger.LogInfo("main", "Connected to Memcache at %s", cfg.MemcacheAddr)
		}
	case config.CacheBackendRedis:
		rc := cache.NewRedisService(ctx, cfg.RedisAddr, cfg.RedisDB, "clien:cache:")
		services.closers = append(services.closers, rc.Close)
		if err := rc.Ping(); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing without shared cache")
		} else {
			services.Secondary = rc
			logger.LogInfo("main", "Connected to Redis at %s (DB: %d)", cfg.RedisAddr, cfg.RedisDB)
		}
	}

	services.Block = services.Secondary
	if services.Block == nil {
		services.Block = cache.NewMemoryService(nil)
	}

	return services, nil
}
