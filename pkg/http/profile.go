package http

import (
	"net/http"
	"strconv"
	"strings"

	"imagehub/pkg/middleware"
	"imagehub/pkg/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type updateProfileRequest struct {
	Username  string   `json:"username"`
	Interests []string `json:"interests"`
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profiles.GetProfile(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

// UpdateProfile accepts JSON, or a multipart form when a "photo" file is
// included. Multipart interests are comma separated.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateProfileInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			h.badRequest(w, r, "invalid upload")
			return
		}
		in.Username = r.FormValue("username")
		if interests := r.FormValue("interests"); interests != "" {
			in.Interests = strings.Split(interests, ",")
		}
		if file, header, err := r.FormFile("photo"); err == nil {
			defer file.Close()
			in.Photo = &service.Photo{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Body:        file,
			}
		}
	} else {
		var req updateProfileRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.badRequest(w, r, "invalid request")
			return
		}
		in.Username = req.Username
		in.Interests = req.Interests
	}

	profile, err := h.profiles.UpdateProfile(r.Context(), middleware.IdentityFromContext(r.Context()), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, profile)
}

func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	favorite, err := h.profiles.ToggleFavorite(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "imageID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, map[string]bool{"favorite": favorite})
}

// ListFavorites takes ?owned=true to keep only the caller's own images.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ownedOnly, _ := strconv.ParseBool(r.URL.Query().Get("owned"))
	images, err := h.profiles.ListFavorites(r.Context(), middleware.IdentityFromContext(r.Context()), ownedOnly)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, images)
}

func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	images, err := h.profiles.Recommendations(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, images)
}
