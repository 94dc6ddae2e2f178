package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/domain/model"
)

type CourseRepository interface {
	List(ctx context.Context, limit, offset int) ([]model.Course, int, error)
	// ListByRoadmap returns the roadmap's courses in roadmap order.
	ListByRoadmap(ctx context.Context, roadmapID uint64) ([]model.Course, error)
	FindByID(ctx context.Context, id uint64) (*model.Course, error)
	FindBySlug(ctx context.Context, slug string) (*model.Course, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, course *model.Course) (uint64, error)
	Update(ctx context.Context, course *model.Course) error
	Delete(ctx context.Context, id uint64) error
}

type pgCourseRepository struct {
	db *sql.DB
}

func NewPgCourseRepository(db *sql.DB) CourseRepository {
	return &pgCourseRepository{db: db}
}

var courseColumns = `
	c.id, c.name, c.description, c.slug, c.image_url,
	COALESCE((SELECT json_agg(r.slug ORDER BY r.slug)
	          FROM roadmap_courses rc JOIN roadmaps r ON r.id = rc.roadmap_id
	          WHERE rc.course_id = c.id), '[]'),
	COALESCE((SELECT json_agg(t.name ORDER BY t.name)
	          FROM course_tags ct JOIN tags t ON t.id = ct.tag_id
	          WHERE ct.course_id = c.id), '[]'),
	COALESCE((SELECT json_agg(m.id ORDER BY m.id) FROM modules m WHERE m.course_id = c.id), '[]'),
	` + ts("c.created_at") + `, ` + ts("c.updated_at")

func scanCourse(row rowScanner) (*model.Course, error) {
	var (
		c                           model.Course
		imageURL, updatedAt         sql.NullString
		roadmapsRaw, tagsRaw, idRaw []byte
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &imageURL,
		&roadmapsRaw, &tagsRaw, &idRaw, &c.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.RoadmapSlugs, err = decodeList[string](roadmapsRaw); err != nil {
		return nil, err
	}
	if c.TagNames, err = decodeList[string](tagsRaw); err != nil {
		return nil, err
	}
	if c.ModuleIDs, err = decodeList[uint64](idRaw); err != nil {
		return nil, err
	}
	c.ImageURL = optionalString(imageURL)
	c.UpdatedAt = optionalString(updatedAt)
	return &c, nil
}

func collectCourses(rows *sql.Rows) ([]model.Course, error) {
	defer rows.Close()
	courses := []model.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, *c)
	}
	return courses, rows.Err()
}

func (r *pgCourseRepository) List(ctx context.Context, limit, offset int) ([]model.Course, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM courses`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses c
		 ORDER BY c.created_at DESC, c.id DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.List: %w", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.List scan: %w", err)
	}
	return courses, total, nil
}

func (r *pgCourseRepository) ListByRoadmap(ctx context.Context, roadmapID uint64) ([]model.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+courseColumns+` FROM courses c
		 JOIN roadmap_courses member ON member.course_id = c.id
		 WHERE member.roadmap_id = $1
		 ORDER BY member.position, c.id`, roadmapID)
	if err != nil {
		return nil, fmt.Errorf("pgCourseRepository.ListByRoadmap: %w", err)
	}
	courses, err := collectCourses(rows)
	if err != nil {
		return nil, fmt.Errorf("pgCourseRepository.ListByRoadmap scan: %w", err)
	}
	return courses, nil
}

func (r *pgCourseRepository) FindByID(ctx context.Context, id uint64) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("pgCourseRepository.FindByID", err)
	}
	return c, nil
}

func (r *pgCourseRepository) FindBySlug(ctx context.Context, slug string) (*model.Course, error) {
	c, err := scanCourse(r.db.QueryRowContext(ctx, `SELECT `+courseColumns+` FROM courses c WHERE c.slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr("pgCourseRepository.FindBySlug", err)
	}
	return c, nil
}

func (r *pgCourseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgCourseRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgCourseRepository) Create(ctx context.Context, c *model.Course) (uint64, error) {
	var id uint64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO courses (name, description, slug, image_url)
			 VALUES ($1, $2, $3, $4) RETURNING id`,
			c.Name, c.Description, c.Slug, nullableString(c.ImageURL)).Scan(&id)
		if err != nil {
			return mapWriteError("pgCourseRepository.Create", err)
		}
		if err := replaceTags(ctx, tx, "course_tags", "course_id", id, c.TagNames); err != nil {
			return mapWriteError("pgCourseRepository tags", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *pgCourseRepository) Update(ctx context.Context, c *model.Course) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE courses SET name = $1, description = $2, slug = $3, image_url = $4,
			        updated_at = CURRENT_TIMESTAMP
			 WHERE id = $5`,
			c.Name, c.Description, c.Slug, nullableString(c.ImageURL), c.ID)
		if err != nil {
			return mapWriteError("pgCourseRepository.Update", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if err := replaceTags(ctx, tx, "course_tags", "course_id", c.ID, c.TagNames); err != nil {
			return mapWriteError("pgCourseRepository tags", err)
		}
		return nil
	})
}

func (r *pgCourseRepository) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.Delete: %w", err)
	}
	return requireAffected(res)
}
