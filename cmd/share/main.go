// Command share serves only the public share link surface: the HTML view,
// the passcode form and the JSON redemption endpoint.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"imagehub/pkg/cache"
	"imagehub/pkg/config"
	"imagehub/pkg/http"
	"imagehub/pkg/logging"
	"imagehub/pkg/security"
	"imagehub/pkg/service"
	"imagehub/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewLogger(logging.LevelError).Error(context.Background(), "config", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.LogLevel(cfg.Log.Level))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(ctx, "share server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Revocations happen in the api process. Without Redis this process
	// cannot see them evict anything, so it reads the database every time.
	shareCache, closeCache, err := cache.Open(cfg.Redis.URL, false)
	if err != nil {
		return err
	}
	defer closeCache()

	shareService := service.NewShareService(
		storage.NewPostgresShareStorage(pool),
		storage.NewPostgresImageStorage(pool),
		shareCache,
		logger,
		service.ShareConfig{
			PublicOrigin:    cfg.Server.PublicOrigin,
			DefaultValidity: cfg.Share.DefaultValidity,
			MaxValidity:     cfg.Share.MaxValidity,
			CacheTTL:        cfg.Share.CacheTTL,
		},
	)

	handler := http.NewHandler(http.Options{
		Shares: shareService,
		Views:  http.NewViews(),
		CSRF:   security.NewCSRFTokenManager(),
		Logger: logger,
	})

	r := http.NewRouter(logger, http.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        cfg.Metrics.Enabled,
	})
	http.SetupShareRoutes(r, handler)

	return http.Serve(ctx, cfg.Server, r, logger)
}
