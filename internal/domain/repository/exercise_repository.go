package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/domain/model"
)

// ExerciseRepository is read-only: exercises are authored by the repository sync job.
// Solution lists on returned records are empty; callers attach them.
type ExerciseRepository interface {
	// List pages through exercises; lessonID 0 lists every lesson.
	List(ctx context.Context, limit, offset int, lessonID uint64) ([]model.Exercise, int, error)
	FindBySlug(ctx context.Context, slug string) (*model.Exercise, error)
	FindDetailsBySlug(ctx context.Context, slug string) (*model.ExerciseDetails, error)
}

type pgExerciseRepository struct {
	db *sql.DB
}

func NewPgExerciseRepository(db *sql.DB) ExerciseRepository {
	return &pgExerciseRepository{db: db}
}

const exerciseColumns = `
	e.id, e.slug, e.title, e.points, e.instructions, e.hints, e.lesson_id,
	e.github_path, e.last_github_sync`

func exerciseFields(e *model.Exercise) []any {
	return []any{&e.ID, &e.Slug, &e.Title, &e.Points, &e.Instructions, &e.Hints, &e.LessonID,
		&e.GithubPath, &e.LastGithubSync}
}

func (r *pgExerciseRepository) List(ctx context.Context, limit, offset int, lessonID uint64) ([]model.Exercise, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM exercises e WHERE ($1::bigint = 0 OR e.lesson_id = $1)`, lessonID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+exerciseColumns+` FROM exercises e
		 WHERE ($1::bigint = 0 OR e.lesson_id = $1)
		 ORDER BY e.id
		 LIMIT $2 OFFSET $3`, lessonID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List: %w", err)
	}
	defer rows.Close()

	exercises := []model.Exercise{}
	for rows.Next() {
		e := model.Exercise{SolutionResponses: []model.SolutionResponse{}}
		if err := rows.Scan(exerciseFields(&e)...); err != nil {
			return nil, 0, fmt.Errorf("pgExerciseRepository.List scan: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgExerciseRepository.List rows: %w", err)
	}
	return exercises, total, nil
}

func (r *pgExerciseRepository) FindBySlug(ctx context.Context, slug string) (*model.Exercise, error) {
	e := model.Exercise{SolutionResponses: []model.SolutionResponse{}}
	err := r.db.QueryRowContext(ctx, `SELECT `+exerciseColumns+` FROM exercises e WHERE e.slug = $1`, slug).
		Scan(exerciseFields(&e)...)
	if err != nil {
		return nil, notFoundOr("pgExerciseRepository.FindBySlug", err)
	}
	return &e, nil
}

func (r *pgExerciseRepository) FindDetailsBySlug(ctx context.Context, slug string) (*model.ExerciseDetails, error) {
	d := model.ExerciseDetails{Exercise: model.Exercise{SolutionResponses: []model.SolutionResponse{}}}
	dest := append(exerciseFields(&d.Exercise), &d.Language, &d.InitialCode, &d.TestCode, &d.LessonName, &d.FileName)

	err := r.db.QueryRowContext(ctx,
		`SELECT `+exerciseColumns+`, lang.name, e.initial_code, e.test_code, l.name, e.file_name
		 FROM exercises e
		 JOIN lessons l ON l.id = e.lesson_id
		 JOIN languages lang ON lang.id = e.language_id
		 WHERE e.slug = $1`, slug).Scan(dest...)
	if err != nil {
		return nil, notFoundOr("pgExerciseRepository.FindDetailsBySlug", err)
	}
	return &d, nil
}
