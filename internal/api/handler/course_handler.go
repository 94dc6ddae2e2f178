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

type CourseService interface {
	ListCourses(ctx context.Context, page, size int) (*model.PaginatedCourses, error)
	GetCourse(ctx context.Context, slug string) (*model.Course, error)
	CreateCourse(ctx context.Context, req service.CreateCourseRequest) (*model.Course, error)
	UpdateCourse(ctx context.Context, id uint64, req service.UpdateCourseRequest) (*model.Course, error)
	UploadCourseImage(ctx context.Context, id uint64, img service.ImageUpload) (*model.Course, error)
	DeleteCourse(ctx context.Context, id uint64) error
}

type CourseHandler struct {
	courseService CourseService
}

func NewCourseHandler(cs CourseService) *CourseHandler {
	return &CourseHandler{courseService: cs}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCourses)
	r.Get("/{slug}", h.getCourse)

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createCourse)
		adminRouter.Put("/{id}", h.updateCourse)
		adminRouter.Post("/{id}/image", h.uploadCourseImage) // multipart, field "image"
		adminRouter.Delete("/{id}", h.deleteCourse)
	})
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	resp, err := h.courseService.ListCourses(r.Context(), page, size)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	course, err := h.courseService.GetCourse(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	course, err := h.courseService.CreateCourse(r.Context(), req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req service.UpdateCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	course, err := h.courseService.UpdateCourse(r.Context(), id, req)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) uploadCourseImage(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	img, file, ok := readImage(w, r)
	if !ok {
		return
	}
	defer file.Close()

	course, err := h.courseService.UploadCourseImage(r.Context(), id, img)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(r.Context(), id); err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
