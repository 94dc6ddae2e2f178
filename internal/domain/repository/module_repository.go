package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/domain/model"
)

type ModuleRepository interface {
	// List pages through modules; courseID 0 lists every course.
	List(ctx context.Context, limit, offset int, courseID uint64) ([]model.Module, int, error)
	FindByID(ctx context.Context, id uint64) (*model.Module, error)
	FindBySlug(ctx context.Context, slug string) (*model.Module, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, module *model.Module) (uint64, error)
	Update(ctx context.Context, module *model.Module) error
	Delete(ctx context.Context, id uint64) error
}

type pgModuleRepository struct {
	db *sql.DB
}

func NewPgModuleRepository(db *sql.DB) ModuleRepository {
	return &pgModuleRepository{db: db}
}

var moduleColumns = `
	m.id, m.name, m.description, m.slug, m.course_id, c.name, m.image_url,
	COALESCE((SELECT json_agg(l.id ORDER BY l.id) FROM lessons l WHERE l.module_id = m.id), '[]'),
	` + ts("m.created_at") + `, ` + ts("m.updated_at")

const moduleFrom = ` FROM modules m JOIN courses c ON c.id = m.course_id`

func scanModule(row rowScanner) (*model.Module, error) {
	var (
		m                   model.Module
		imageURL, updatedAt sql.NullString
		lessonsRaw          []byte
	)
	if err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Slug, &m.CourseID, &m.CourseName,
		&imageURL, &lessonsRaw, &m.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if m.LessonIDs, err = decodeList[uint64](lessonsRaw); err != nil {
		return nil, err
	}
	m.ImageURL = optionalString(imageURL)
	m.UpdatedAt = optionalString(updatedAt)
	return &m, nil
}

func (r *pgModuleRepository) List(ctx context.Context, limit, offset int, courseID uint64) ([]model.Module, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM modules m WHERE ($1::bigint = 0 OR m.course_id = $1)`, courseID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgModuleRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+moduleColumns+moduleFrom+`
		 WHERE ($1::bigint = 0 OR m.course_id = $1)
		 ORDER BY m.created_at DESC, m.id DESC
		 LIMIT $2 OFFSET $3`, courseID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgModuleRepository.List: %w", err)
	}
	defer rows.Close()

	modules := []model.Module{}
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgModuleRepository.List scan: %w", err)
		}
		modules = append(modules, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgModuleRepository.List rows: %w", err)
	}
	return modules, total, nil
}

func (r *pgModuleRepository) FindByID(ctx context.Context, id uint64) (*model.Module, error) {
	m, err := scanModule(r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+moduleFrom+` WHERE m.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("pgModuleRepository.FindByID", err)
	}
	return m, nil
}

func (r *pgModuleRepository) FindBySlug(ctx context.Context, slug string) (*model.Module, error) {
	m, err := scanModule(r.db.QueryRowContext(ctx, `SELECT `+moduleColumns+moduleFrom+` WHERE m.slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr("pgModuleRepository.FindBySlug", err)
	}
	return m, nil
}

func (r *pgModuleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM modules WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgModuleRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgModuleRepository) Create(ctx context.Context, m *model.Module) (uint64, error) {
	var id uint64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO modules (name, description, slug, course_id, image_url)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		m.Name, m.Description, m.Slug, m.CourseID, nullableString(m.ImageURL)).Scan(&id)
	if err != nil {
		return 0, mapWriteError("pgModuleRepository.Create", err)
	}
	return id, nil
}

func (r *pgModuleRepository) Update(ctx context.Context, m *model.Module) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE modules SET name = $1, description = $2, slug = $3, course_id = $4, image_url = $5,
		        updated_at = CURRENT_TIMESTAMP
		 WHERE id = $6`,
		m.Name, m.Description, m.Slug, m.CourseID, nullableString(m.ImageURL), m.ID)
	if err != nil {
		return mapWriteError("pgModuleRepository.Update", err)
	}
	return requireAffected(res)
}

func (r *pgModuleRepository) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM modules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgModuleRepository.Delete: %w", err)
	}
	return requireAffected(res)
}
