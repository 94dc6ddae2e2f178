package handler

import (
	"context"
	"net/http"

	"cortex_edu/internal/api/middleware"
	"cortex_edu/internal/app/service"
	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type RoadmapService interface {
	ListRoadmaps(ctx context.Context, page, size int, includeUnpublished bool) (*model.PaginatedRoadmaps, error)
	GetRoadmapDetails(ctx context.Context, slug string, isAdmin bool) (*model.RoadmapDetails, error)
	CreateRoadmap(ctx context.Context, req service.CreateRoadmapRequest) (*model.Roadmap, error)
	UpdateRoadmap(ctx context.Context, id uint64, req service.UpdateRoadmapRequest) (*model.Roadmap, error)
	UploadRoadmapImage(ctx context.Context, id uint64, img service.ImageUpload) (*model.Roadmap, error)
	DeleteRoadmap(ctx context.Context, id uint64) error
}

type RoadmapHandler struct {
	roadmapService RoadmapService
}

func NewRoadmapHandler(rs RoadmapService) *RoadmapHandler {
	return &RoadmapHandler{roadmapService: rs}
}

func (h *RoadmapHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(public chi.Router) {
		public.Use(middleware.OptionalAuth)
		public.Get("/", h.listRoadmaps)     // GET /api/v1/roadmaps
		public.Get("/{slug}", h.getRoadmap) // GET /api/v1/roadmaps/backend
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createRoadmap)
		adminRouter.Put("/{id}", h.updateRoadmap)
		adminRouter.Post("/{id}/image", h.uploadRoadmapImage) // multipart, field "image"
		adminRouter.Delete("/{id}", h.deleteRoadmap)
	})
}

// listRoadmaps shows unpublished roadmaps to admins only.
func (h *RoadmapHandler) listRoadmaps(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	resp, err := h.roadmapService.ListRoadmaps(r.Context(), page, size, middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *RoadmapHandler) getRoadmap(w http.ResponseWriter, r *http.Request) {
	details, err := h.roadmapService.GetRoadmapDetails(r.Context(), chi.URLParam(r, "slug"), middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}

func (h *RoadmapHandler) createRoadmap(w http.ResponseWriter, r *http.Request) {
	var req service.CreateRoadmapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	roadmap, err := h.roadmapService.CreateRoadmap(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, roadmap)
}

func (h *RoadmapHandler) updateRoadmap(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateRoadmapRequest
	if !decodeBody(w, r, &req) {
		return
	}
	roadmap, err := h.roadmapService.UpdateRoadmap(r.Context(), id, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, roadmap)
}

func (h *RoadmapHandler) uploadRoadmapImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	img, file, ok := readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	roadmap, err := h.roadmapService.UploadRoadmapImage(r.Context(), id, img)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, roadmap)
}

func (h *RoadmapHandler) deleteRoadmap(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.roadmapService.DeleteRoadmap(r.Context(), id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
