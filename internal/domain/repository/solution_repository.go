package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/domain/model"
)

type SolutionRepository interface {
	// ListByUserAndExercise returns the user's solutions, oldest first, each with its
	// submissions in submission order.
	ListByUserAndExercise(ctx context.Context, userID, exerciseID uint64) ([]model.SolutionResponse, error)
}

type pgSolutionRepository struct {
	db *sql.DB
}

func NewPgSolutionRepository(db *sql.DB) SolutionRepository {
	return &pgSolutionRepository{db: db}
}

func (r *pgSolutionRepository) ListByUserAndExercise(ctx context.Context, userID, exerciseID uint64) ([]model.SolutionResponse, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, exercise_id, status, points_earned
		 FROM solutions WHERE user_id = $1 AND exercise_id = $2
		 ORDER BY created_at, id`, userID, exerciseID)
	if err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListByUserAndExercise: %w", err)
	}
	defer rows.Close()

	solutions := []model.SolutionResponse{}
	index := map[uint64]int{}
	var ids []int64
	for rows.Next() {
		s := model.SolutionResponse{Submissions: []model.SubmissionResponse{}}
		if err := rows.Scan(&s.ID, &s.UserID, &s.ExerciseID, &s.Status, &s.PointsEarned); err != nil {
			return nil, fmt.Errorf("pgSolutionRepository.ListByUserAndExercise scan: %w", err)
		}
		index[s.ID] = len(solutions)
		ids = append(ids, int64(s.ID))
		solutions = append(solutions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolutionRepository.ListByUserAndExercise rows: %w", err)
	}
	if len(ids) == 0 {
		return solutions, nil
	}

	subRows, err := r.db.QueryContext(ctx,
		`SELECT id, code, language_id, stdin, expected_output, solution_id
		 FROM submissions WHERE solution_id = ANY($1::bigint[])
		 ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("pgSolutionRepository submissions: %w", err)
	}
	defer subRows.Close()

	for subRows.Next() {
		var sub model.SubmissionResponse
		if err := subRows.Scan(&sub.ID, &sub.Code, &sub.LanguageID, &sub.Stdin, &sub.ExpectedOutput, &sub.SolutionID); err != nil {
			return nil, fmt.Errorf("pgSolutionRepository submissions scan: %w", err)
		}
		i := index[sub.SolutionID]
		solutions[i].Submissions = append(solutions[i].Submissions, sub)
	}
	if err := subRows.Err(); err != nil {
		return nil, fmt.Errorf("pgSolutionRepository submissions rows: %w", err)
	}
	return solutions, nil
}
