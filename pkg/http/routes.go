package http

import (
	"net/http"

	"imagehub/pkg/logging"
	"imagehub/pkg/metrics"
	"imagehub/pkg/middleware"
	"imagehub/pkg/security"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	AllowedOrigins []string
	Metrics        bool
}

// NewRouter builds the mux with the middleware shared by every binary.
func NewRouter(logger *logging.Logger, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if opts.Metrics {
		r.Use(metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", PasscodeHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Metrics {
		r.Handle("/metrics", metrics.Handler())
	}
	return r
}

// SetupRoutes mounts the authenticated API and the public share routes.
func SetupRoutes(r chi.Router, handler *Handler, authenticate func(http.Handler) http.Handler) {
	SetupPublicRoutes(r, handler)

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/categories", handler.Categories)

			r.Post("/images", handler.UploadImage)
			r.Get("/images", handler.ListImages)
			r.Get("/images/{id}", handler.GetImage)
			r.Patch("/images/{id}", handler.UpdateImage)
			r.Delete("/images/{id}", handler.DeleteImage)

			r.Post("/images/{id}/shares", handler.CreateShare)
			r.Get("/images/{id}/shares", handler.ListShares)
			r.Delete("/shares/{token}", handler.RevokeShare)

			r.Get("/profile", handler.GetProfile)
			r.Put("/profile", handler.UpdateProfile)
			r.Get("/favorites", handler.ListFavorites)
			r.Put("/favorites/{imageID}", handler.ToggleFavorite)
			r.Get("/recommendations", handler.Recommendations)
		})

		r.Get("/shared/{token}", handler.RedeemShare)
	})
}

// SetupPublicRoutes mounts only what an anonymous link holder can reach.
func SetupPublicRoutes(r chi.Router, handler *Handler) {
	r.Get("/health", handler.HealthCheck)
	r.Get("/share/{token}", handler.ShareView)
	r.With(security.CSRFMiddleware(handler.csrf)).Post("/share/{token}", handler.SubmitPasscode)
}

// SetupShareRoutes is the redemption-only surface.
func SetupShareRoutes(r chi.Router, handler *Handler) {
	SetupPublicRoutes(r, handler)
	r.Get("/v1/shared/{token}", handler.RedeemShare)
}
