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
	"imagehub/pkg/media"
	mediamemory "imagehub/pkg/media/memory"
	"imagehub/pkg/media/s3"
	"imagehub/pkg/middleware"
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
		logger.Error(ctx, "api server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logging.Logger) error {
	// DB connection
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := storage.Migrate(ctx, pool); err != nil {
		return err
	}

	// Revocation runs here, so an in-process cache is evicted by it.
	shareCache, closeCache, err := cache.Open(cfg.Redis.URL, true)
	if err != nil {
		return err
	}
	defer closeCache()

	mediaStore, err := newMediaStore(ctx, cfg.Media)
	if err != nil {
		return err
	}

	// Storage
	imageStorage := storage.NewPostgresImageStorage(pool)
	profileStorage := storage.NewPostgresProfileStorage(pool)
	shareStorage := storage.NewPostgresShareStorage(pool)

	// Services
	imageService := service.NewImageService(imageStorage, mediaStore, logger)
	profileService := service.NewProfileService(profileStorage, imageStorage, mediaStore, logger)
	shareService := service.NewShareService(shareStorage, imageStorage, shareCache, logger, service.ShareConfig{
		PublicOrigin:    cfg.Server.PublicOrigin,
		DefaultValidity: cfg.Share.DefaultValidity,
		MaxValidity:     cfg.Share.MaxValidity,
		CacheTTL:        cfg.Share.CacheTTL,
	})

	// OAuth Middleware
	oauthMiddleware, err := middleware.NewOAuthMiddleware(ctx, middleware.OAuthConfig{
		IssuerURL: cfg.OIDC.IssuerURL,
		Audience:  cfg.OIDC.Audience,
	}, logger)
	if err != nil {
		return err
	}

	handler := http.NewHandler(http.Options{
		Images:         imageService,
		Profiles:       profileService,
		Shares:         shareService,
		Views:          http.NewViews(),
		CSRF:           security.NewCSRFTokenManager(),
		Logger:         logger,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	r := http.NewRouter(logger, http.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        cfg.Metrics.Enabled,
	})
	http.SetupRoutes(r, handler, oauthMiddleware.Authenticate(cfg.OIDC.RequiredScopes...))

	return http.Serve(ctx, cfg.Server, r, logger)
}

func newMediaStore(ctx context.Context, cfg config.Media) (media.Store, error) {
	if cfg.Driver == "memory" {
		return mediamemory.NewStorage(cfg.PublicBaseURL), nil
	}
	return s3.NewStorage(ctx, s3.Options{
		Bucket:          cfg.Bucket,
		Region:          cfg.Region,
		Endpoint:        cfg.Endpoint,
		AccessKeyID:     cfg.AccessKeyID,
		SecretAccessKey: cfg.SecretAccessKey,
		PublicBaseURL:   cfg.PublicBaseURL,
	})
}
