package handler

import (
	"context"
	"net/http"

	"cortex_edu/internal/api/middleware"
	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ExerciseService interface {
	ListExercises(ctx context.Context, page, size int, lessonID uint64) (*model.PaginatedExercises, error)
	GetExerciseDetails(ctx context.Context, slug string, userID uint64) (*model.ExerciseDetails, error)
}

type SolutionService interface {
	ListSolutions(ctx context.Context, exerciseSlug string, userID uint64) ([]model.SolutionResponse, error)
}

// ExerciseHandler is read-only: exercises are authored outside the API.
type ExerciseHandler struct {
	exerciseService ExerciseService
	solutionService SolutionService
}

func NewExerciseHandler(es ExerciseService, ss SolutionService) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: es, solutionService: ss}
}

func (h *ExerciseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listExercises) // GET /api/v1/exercises?lesson_id=7
	r.With(middleware.OptionalAuth).Get("/{slug}", h.getExercise)
	r.With(middleware.Authenticator).Get("/{slug}/solutions", h.listSolutions)
}

func (h *ExerciseHandler) listExercises(w http.ResponseWriter, r *http.Request) {
	lessonID, ok := uintQuery(w, r, "lesson_id")
	if !ok {
		return
	}
	page, size := pageParams(r)
	resp, err := h.exerciseService.ListExercises(r.Context(), page, size, lessonID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// getExercise attaches the caller's own solutions when the request is authenticated.
func (h *ExerciseHandler) getExercise(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	details, err := h.exerciseService.GetExerciseDetails(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, details)
}

func (h *ExerciseHandler) listSolutions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	solutions, err := h.solutionService.ListSolutions(r.Context(), chi.URLParam(r, "slug"), userID)
	if err != nil {
		common.RespondWithDomainError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, solutions)
}
