package service

import (
	"context"
	"fmt"

	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
	"cortex_edu/internal/platform/logger"
)

// ExerciseService serves exercises read-only; their content is owned by the
// repository sync job.
type ExerciseService struct {
	exerciseRepo repository.ExerciseRepository
	solutionRepo repository.SolutionRepository
	details      SnapshotCache[model.ExerciseDetails]
	pager        Pager
	log          *logger.Logger
}

func NewExerciseService(
	exerciseRepo repository.ExerciseRepository,
	solutionRepo repository.SolutionRepository,
	details SnapshotCache[model.ExerciseDetails],
	pager Pager,
	log *logger.Logger,
) *ExerciseService {
	if log == nil {
		log = logger.Nop()
	}
	return &ExerciseService{
		exerciseRepo: exerciseRepo,
		solutionRepo: solutionRepo,
		details:      cacheOrNoop(details),
		pager:        pager,
		log:          log,
	}
}

// ListExercises pages through exercises; lessonID 0 means every lesson.
func (s *ExerciseService) ListExercises(ctx context.Context, page, size int, lessonID uint64) (*model.PaginatedExercises, error) {
	p := s.pager.Page(page, size)
	exercises, total, err := s.exerciseRepo.List(ctx, p.Limit(), p.Offset(), lessonID)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(exercises, p.Number, p.Size, uint64(total))
	return &resp, nil
}

// GetExerciseDetails returns the editor view of an exercise. solution_responses holds
// the caller's own solutions; userID 0 is an anonymous caller and gets none.
func (s *ExerciseService) GetExerciseDetails(ctx context.Context, slug string, userID uint64) (*model.ExerciseDetails, error) {
	details, ok := s.details.Get(ctx, slug)
	if !ok {
		found, err := s.exerciseRepo.FindDetailsBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		details = *found
		details.SolutionResponses = []model.SolutionResponse{}
		s.details.Set(ctx, slug, details)
	}

	details.SolutionResponses = []model.SolutionResponse{}
	if userID == 0 {
		return &details, nil
	}
	solutions, err := s.solutionRepo.ListByUserAndExercise(ctx, userID, details.ID)
	if err != nil {
		return nil, fmt.Errorf("loading solutions for exercise %s: %w", slug, err)
	}
	details.SolutionResponses = solutions
	return &details, nil
}
