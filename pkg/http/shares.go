package http

import (
	"errors"
	"io"
	"math"
	"net/http"
	"time"

	"imagehub/pkg/middleware"
	"imagehub/pkg/service"

	"github.com/foolin/goview"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// PasscodeHeader carries the share passcode on JSON redemption requests.
const PasscodeHeader = "X-Share-Passcode"

// createShareRequest takes the validity either as a Go duration string
// ("36h") or as whole days. Neither set selects the configured default.
type createShareRequest struct {
	Validity  string `json:"validity"`
	DaysValid int64  `json:"days_valid"`
	Passcode  string `json:"passcode"`
}

func (req createShareRequest) validity() (time.Duration, error) {
	if req.Validity != "" {
		return time.ParseDuration(req.Validity)
	}
	if req.DaysValid > maxDaysValid || req.DaysValid < -maxDaysValid {
		return 0, errDaysOutOfRange
	}
	return time.Duration(req.DaysValid) * 24 * time.Hour, nil
}

// maxDaysValid is the largest day count a time.Duration can hold.
const maxDaysValid = math.MaxInt64 / int64(24*time.Hour)

var errDaysOutOfRange = errors.New("days_valid out of range")

func (h *Handler) CreateShare(w http.ResponseWriter, r *http.Request) {
	var req createShareRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.badRequest(w, r, "invalid request")
		return
	}

	validity, err := req.validity()
	if err != nil {
		h.badRequest(w, r, "invalid validity")
		return
	}

	link, err := h.shares.Issue(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "id"), service.IssueShareRequest{
		Validity: validity,
		Passcode: req.Passcode,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, link)
}

func (h *Handler) ListShares(w http.ResponseWriter, r *http.Request) {
	links, err := h.shares.ListShares(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, links)
}

func (h *Handler) RevokeShare(w http.ResponseWriter, r *http.Request) {
	if err := h.shares.Revoke(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "token")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RedeemShare is the JSON form of a share link.
func (h *Handler) RedeemShare(w http.ResponseWriter, r *http.Request) {
	shared, err := h.shares.Redeem(r.Context(), chi.URLParam(r, "token"), r.Header.Get(PasscodeHeader))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	render.JSON(w, r, shared)
}

// ShareView renders the shared image, or the passcode form for protected
// links.
func (h *Handler) ShareView(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	shared, err := h.shares.Redeem(r.Context(), token, "")
	if errors.Is(err, service.ErrPasscodeRequired) {
		h.renderPasscodeForm(w, r, token, http.StatusOK, false)
		return
	}
	h.renderShare(w, r, shared, err)
}

// SubmitPasscode handles the passcode form. It runs behind the CSRF check.
func (h *Handler) SubmitPasscode(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	shared, err := h.shares.Redeem(r.Context(), token, r.FormValue("passcode"))
	if errors.Is(err, service.ErrPasscodeRequired) {
		h.renderPasscodeForm(w, r, token, http.StatusUnauthorized, true)
		return
	}
	if err == nil {
		// A form token is good until the passcode is accepted once.
		h.csrf.InvalidateForRequest(r)
	}
	h.renderShare(w, r, shared, err)
}

func (h *Handler) renderShare(w http.ResponseWriter, r *http.Request, shared *service.SharedImage, err error) {
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.Error(r.Context(), "share view failed", "error", err)
		}
		h.views.Render(w, status, "error", goview.M{
			"Title":   errorTitle(err),
			"Message": service.UserMessage(err),
		})
		return
	}

	h.views.Render(w, http.StatusOK, "share", goview.M{
		"Title": shared.Title,
		"Image": shared,
	})
}

func (h *Handler) renderPasscodeForm(w http.ResponseWriter, r *http.Request, token string, status int, failed bool) {
	csrfToken, err := h.csrf.IssueForRequest(w, r)
	if err != nil {
		h.logger.Error(r.Context(), "csrf token generation failed", "error", err)
		http.Error(w, "Something went wrong", http.StatusInternalServerError)
		return
	}
	h.views.Render(w, status, "passcode", goview.M{
		"Title":     "Passcode required",
		"Token":     token,
		"CSRFToken": csrfToken,
		"Failed":    failed,
	})
}

func errorTitle(err error) string {
	switch {
	case errors.Is(err, service.ErrExpiredLink):
		return "Link expired"
	case errors.Is(err, service.ErrInvalidLink):
		return "Invalid link"
	case errors.Is(err, service.ErrResourceMissing):
		return "Image not found"
	default:
		return "Something went wrong"
	}
}
