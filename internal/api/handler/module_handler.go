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

type ModuleService interface {
	ListModules(ctx context.Context, page, size int, courseID uint64) (*model.PaginatedModules, error)
	GetModule(ctx context.Context, slug string) (*model.Module, error)
	CreateModule(ctx context.Context, req service.CreateModuleRequest) (*model.Module, error)
	UpdateModule(ctx context.Context, id uint64, req service.UpdateModuleRequest) (*model.Module, error)
	UploadModuleImage(ctx context.Context, id uint64, img service.ImageUpload) (*model.Module, error)
	DeleteModule(ctx context.Context, id uint64) error
}

type ModuleHandler struct {
	moduleService ModuleService
}

func NewModuleHandler(ms ModuleService) *ModuleHandler {
	return &ModuleHandler{moduleService: ms}
}

func (h *ModuleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listModules) // GET /api/v1/modules?course_id=3
	r.Get("/{slug}", h.getModule)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createModule)
		adminRouter.Put("/{id}", h.updateModule)
		adminRouter.Post("/{id}/image", h.uploadModuleImage) // multipart, field "image"
		adminRouter.Delete("/{id}", h.deleteModule)
	})
}

func (h *ModuleHandler) listModules(w http.ResponseWriter, r *http.Request) {
	courseID, ok := uintQuery(w, r, "course_id")
	if !ok {
		return
	}
	page, size := pageParams(r)
	resp, err := h.moduleService.ListModules(r.Context(), page, size, courseID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *ModuleHandler) getModule(w http.ResponseWriter, r *http.Request) {
	module, err := h.moduleService.GetModule(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, module)
}

func (h *ModuleHandler) createModule(w http.ResponseWriter, r *http.Request) {
	var req service.CreateModuleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	module, err := h.moduleService.CreateModule(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, module)
}

func (h *ModuleHandler) updateModule(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateModuleRequest
	if !decodeBody(w, r, &req) {
		return
	}
	module, err := h.moduleService.UpdateModule(r.Context(), id, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, module)
}

func (h *ModuleHandler) uploadModuleImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	img, file, ok := readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	module, err := h.moduleService.UploadModuleImage(r.Context(), id, img)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, module)
}

func (h *ModuleHandler) deleteModule(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.moduleService.DeleteModule(r.Context(), id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
