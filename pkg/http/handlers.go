package http

import (
	"errors"
	"net/http"

	"imagehub/pkg/logging"
	"imagehub/pkg/security"
	"imagehub/pkg/service"

	"github.com/go-chi/render"
)

// Handler serves the JSON API and the public share pages. The image and
// profile services may be nil for a redemption-only deployment.
type Handler struct {
	images         *service.ImageService
	profiles       *service.ProfileService
	shares         *service.ShareService
	views          *Views
	csrf           *security.CSRFTokenManager
	logger         *logging.Logger
	maxUploadBytes int64
}

type Options struct {
	Images         *service.ImageService
	Profiles       *service.ProfileService
	Shares         *service.ShareService
	Views          *Views
	CSRF           *security.CSRFTokenManager
	Logger         *logging.Logger
	MaxUploadBytes int64
}

func NewHandler(opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	return &Handler{
		images:         opts.Images,
		profiles:       opts.Profiles,
		shares:         opts.Shares,
		views:          opts.Views,
		csrf:           opts.CSRF,
		logger:         opts.Logger,
		maxUploadBytes: opts.MaxUploadBytes,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidLink),
		errors.Is(err, service.ErrResourceMissing),
		errors.Is(err, service.ErrImageNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrExpiredLink):
		return http.StatusGone
	case errors.Is(err, service.ErrPasscodeRequired),
		errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, service.ErrInvalidValidity),
		errors.Is(err, service.ErrInvalidImage),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: service.UserMessage(err)})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorResponse{Error: msg})
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
