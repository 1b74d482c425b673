package http

import (
	"net/http"
	"strconv"

	"imagehub/pkg/middleware"
	"imagehub/pkg/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string][]string{"categories": h.images.Categories()})
}

// UploadImage accepts a multipart form with an "image" file part.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		h.badRequest(w, r, "invalid upload")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.badRequest(w, r, "image file is required")
		return
	}
	defer file.Close()

	isPublic, _ := strconv.ParseBool(r.FormValue("is_public"))

	image, err := h.images.Upload(r.Context(), middleware.IdentityFromContext(r.Context()), service.UploadImageInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    r.FormValue("category"),
		IsPublic:    isPublic,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, image)
}

func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	images, err := h.images.ListMine(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, images)
}

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.images.Get(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, image)
}

type updateImageRequest struct {
	IsPublic *bool `json:"is_public"`
}

func (h *Handler) UpdateImage(w http.ResponseWriter, r *http.Request) {
	var req updateImageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.IsPublic == nil {
		h.badRequest(w, r, "invalid request")
		return
	}

	image, err := h.images.SetVisibility(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "id"), *req.IsPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, image)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if err := h.images.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
