package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/domain/model"
)

type LessonRepository interface {
	// List pages through lessons; moduleID 0 lists every module.
	List(ctx context.Context, limit, offset int, moduleID uint64) ([]model.Lesson, int, error)
	FindByID(ctx context.Context, id uint64) (*model.Lesson, error)
	FindBySlug(ctx context.Context, slug string) (*model.Lesson, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, lesson *model.Lesson) (uint64, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	Delete(ctx context.Context, id uint64) error
}

type pgLessonRepository struct {
	db *sql.DB
}

func NewPgLessonRepository(db *sql.DB) LessonRepository {
	return &pgLessonRepository{db: db}
}

var lessonColumns = `
	l.id, l.name, l.content, l.credits, l.slug, l.module_id, m.name,
	COALESCE((SELECT json_agg(e.id ORDER BY e.id) FROM exercises e WHERE e.lesson_id = l.id), '[]'),
	` + ts("l.created_at") + `, ` + ts("l.updated_at")

const lessonFrom = ` FROM lessons l JOIN modules m ON m.id = l.module_id`

func scanLesson(row rowScanner) (*model.Lesson, error) {
	var (
		l            model.Lesson
		updatedAt    sql.NullString
		exercisesRaw []byte
	)
	if err := row.Scan(&l.ID, &l.Name, &l.Content, &l.Credits, &l.Slug, &l.ModuleID, &l.ModuleName,
		&exercisesRaw, &l.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if l.ExerciseIDs, err = decodeList[uint64](exercisesRaw); err != nil {
		return nil, err
	}
	l.UpdatedAt = optionalString(updatedAt)
	return &l, nil
}

func (r *pgLessonRepository) List(ctx context.Context, limit, offset int, moduleID uint64) ([]model.Lesson, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM lessons l WHERE ($1::bigint = 0 OR l.module_id = $1)`, moduleID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgLessonRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+lessonColumns+lessonFrom+`
		 WHERE ($1::bigint = 0 OR l.module_id = $1)
		 ORDER BY l.created_at DESC, l.id DESC
		 LIMIT $2 OFFSET $3`, moduleID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgLessonRepository.List: %w", err)
	}
	defer rows.Close()

	lessons := []model.Lesson{}
	for rows.Next() {
		l, err := scanLesson(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgLessonRepository.List scan: %w", err)
		}
		lessons = append(lessons, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgLessonRepository.List rows: %w", err)
	}
	return lessons, total, nil
}

func (r *pgLessonRepository) FindByID(ctx context.Context, id uint64) (*model.Lesson, error) {
	l, err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+lessonFrom+` WHERE l.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("pgLessonRepository.FindByID", err)
	}
	return l, nil
}

func (r *pgLessonRepository) FindBySlug(ctx context.Context, slug string) (*model.Lesson, error) {
	l, err := scanLesson(r.db.QueryRowContext(ctx, `SELECT `+lessonColumns+lessonFrom+` WHERE l.slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr("pgLessonRepository.FindBySlug", err)
	}
	return l, nil
}

func (r *pgLessonRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM lessons WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgLessonRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgLessonRepository) Create(ctx context.Context, l *model.Lesson) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO lessons (name, content, credits, slug, module_id)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		l.Name, l.Content, l.Credits, l.Slug, l.ModuleID).Scan(&id)
	if err != nil {
		return 0, mapWriteError("pgLessonRepository.Create", err)
	}
	return id, nil
}

func (r *pgLessonRepository) Update(ctx context.Context, l *model.Lesson) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lessons SET name = $1, content = $2, credits = $3, slug = $4, module_id = $5,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		l.Name, l.Content, l.Credits, l.Slug, l.ModuleID, l.ID)
	if err != nil {
		return mapWriteError("pgLessonRepository.Update", err)
	}
	return requireAffected(res)
}

func (r *pgLessonRepository) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.Delete: %w", err)
	}
	return requireAffected(res)
}
