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

type LessonService interface {
	ListLessons(ctx context.Context, page, size int, moduleID uint64) (*model.PaginatedLessons, error)
	GetLesson(ctx context.Context, slug string) (*model.Lesson, error)
	CreateLesson(ctx context.Context, req service.CreateLessonRequest) (*model.Lesson, error)
	UpdateLesson(ctx context.Context, id uint64, req service.UpdateLessonRequest) (*model.Lesson, error)
	DeleteLesson(ctx context.Context, id uint64) error
}

type LessonHandler struct {
	lessonService LessonService
}

func NewLessonHandler(ls LessonService) *LessonHandler {
	return &LessonHandler{lessonService: ls}
}

func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listLessons) // GET /api/v1/lessons?module_id=3
	r.Get("/{slug}", h.getLesson)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createLesson)
		adminRouter.Put("/{id}", h.updateLesson)
		adminRouter.Delete("/{id}", h.deleteLesson)
	})
}

func (h *LessonHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	moduleID, ok := uintQuery(w, r, "module_id")
	if !ok {
		return
	}
	page, size := pageParams(r)
	resp, err := h.lessonService.ListLessons(r.Context(), page, size, moduleID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *LessonHandler) getLesson(w http.ResponseWriter, r *http.Request) {
	lesson, err := h.lessonService.GetLesson(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLessonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lesson, err := h.lessonService.CreateLesson(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, lesson)
}

func (h *LessonHandler) updateLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateLessonRequest
	if !decodeBody(w, r, &req) {
		return
	}
	lesson, err := h.lessonService.UpdateLesson(r.Context(), id, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) deleteLesson(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.lessonService.DeleteLesson(r.Context(), id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
