// Command sweep deletes share records whose expiry has passed. Expired
// records already fail redemption; this only reclaims space.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"imagehub/pkg/cache"
	"imagehub/pkg/config"
	"imagehub/pkg/logging"
	"imagehub/pkg/service"
	"imagehub/pkg/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to a YAML config file")
	interval := flag.Duration("interval", 0, "repeat every interval; run once when zero")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.WithCorrelationID(ctx)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewLogger(logging.LevelError).Error(ctx, "config", "error", err)
		os.Exit(1)
	}
	logger := logging.NewLogger(logging.LogLevel(cfg.Log.Level))

	if err := run(ctx, cfg, logger, *interval); err != nil {
		logger.Error(ctx, "sweep stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger, interval time.Duration) error {
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	// Purging never reads through the cache.
	shareService := service.NewShareService(
		storage.NewPostgresShareStorage(pool),
		storage.NewPostgresImageStorage(pool),
		cache.NopShareCache{},
		logger,
		service.ShareConfig{DefaultValidity: cfg.Share.DefaultValidity, MaxValidity: cfg.Share.MaxValidity},
	)

	return sweep(ctx, shareService, logger, interval)
}

type purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// sweep purges once, then every interval until ctx is done. A failed pass is
// fatal only in one-shot mode.
func sweep(ctx context.Context, p purger, logger *logging.Logger, interval time.Duration) error {
	if _, err := p.PurgeExpired(ctx); err != nil {
		if interval <= 0 {
			return err
		}
		logger.Error(ctx, "purge failed", "error", err)
	}
	if interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "sweep shutting down")
			return nil
		case <-ticker.C:
			if _, err := p.PurgeExpired(ctx); err != nil {
				logger.Error(ctx, "purge failed", "error", err)
			}
		}
	}
}
