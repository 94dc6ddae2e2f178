package service

import (
	"context"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
)

type SolutionService struct {
	exerciseRepo repository.ExerciseRepository
	solutionRepo repository.SolutionRepository
}

func NewSolutionService(exerciseRepo repository.ExerciseRepository, solutionRepo repository.SolutionRepository) *SolutionService {
	return &SolutionService{exerciseRepo: exerciseRepo, solutionRepo: solutionRepo}
}

// ListSolutions returns the caller's solutions for the exercise, each with its submissions.
func (s *SolutionService) ListSolutions(ctx context.Context, exerciseSlug string, userID uint64) ([]model.SolutionResponse, error) {
	if userID == 0 {
		return nil, common.ErrUnauthorized
	}
	exercise, err := s.exerciseRepo.FindBySlug(ctx, exerciseSlug)
	if err != nil {
		return nil, err
	}
	return s.solutionRepo.ListByUserAndExercise(ctx, userID, exercise.ID)
}
