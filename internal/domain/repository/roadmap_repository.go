package repository

import (
	"context"
	"database/sql"
	"fmt"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"
)

type RoadmapRepository interface {
	List(ctx context.Context, limit, offset int, includeUnpublished bool) ([]model.Roadmap, int, error)
	FindByID(ctx context.Context, id uint64) (*model.Roadmap, error)
	FindBySlug(ctx context.Context, slug string) (*model.Roadmap, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	// Create stores title, description, slug, image, publication flag, tags and the
	// ordered course membership (by course slug) and returns the new id.
	Create(ctx context.Context, roadmap *model.Roadmap) (uint64, error)
	Update(ctx context.Context, roadmap *model.Roadmap) error
	Delete(ctx context.Context, id uint64) error
}

type pgRoadmapRepository struct {
	db *sql.DB
}

func NewPgRoadmapRepository(db *sql.DB) RoadmapRepository {
	return &pgRoadmapRepository{db: db}
}

var roadmapColumns = `
	r.id, r.title, r.description, r.slug, r.image_url,
	COALESCE((SELECT json_agg(t.name ORDER BY t.name)
	          FROM roadmap_tags rt JOIN tags t ON t.id = rt.tag_id
	          WHERE rt.roadmap_id = r.id), '[]'),
	r.is_published,
	COALESCE((SELECT json_agg(c.slug ORDER BY rc.position, c.id)
	          FROM roadmap_courses rc JOIN courses c ON c.id = rc.course_id
	          WHERE rc.roadmap_id = r.id), '[]'),
	` + ts("r.created_at") + `, ` + ts("r.updated_at")

func scanRoadmap(row rowScanner) (*model.Roadmap, error) {
	var (
		r                   model.Roadmap
		imageURL, updatedAt sql.NullString
		tagsRaw, coursesRaw []byte
	)
	if err := row.Scan(&r.ID, &r.Title, &r.Description, &r.Slug, &imageURL,
		&tagsRaw, &r.IsPublished, &coursesRaw, &r.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if r.TagNames, err = decodeList[string](tagsRaw); err != nil {
		return nil, err
	}
	if r.CourseSlugs, err = decodeList[string](coursesRaw); err != nil {
		return nil, err
	}
	r.ImageURL = optionalString(imageURL)
	r.UpdatedAt = optionalString(updatedAt)
	return &r, nil
}

func (r *pgRoadmapRepository) List(ctx context.Context, limit, offset int, includeUnpublished bool) ([]model.Roadmap, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roadmaps r WHERE ($1 OR r.is_published)`, includeUnpublished).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgRoadmapRepository.List count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roadmapColumns+` FROM roadmaps r
		 WHERE ($1 OR r.is_published)
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT $2 OFFSET $3`, includeUnpublished, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgRoadmapRepository.List: %w", err)
	}
	defer rows.Close()

	roadmaps := []model.Roadmap{}
	for rows.Next() {
		rm, err := scanRoadmap(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("pgRoadmapRepository.List scan: %w", err)
		}
		roadmaps = append(roadmaps, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgRoadmapRepository.List rows: %w", err)
	}
	return roadmaps, total, nil
}

func (r *pgRoadmapRepository) FindByID(ctx context.Context, id uint64) (*model.Roadmap, error) {
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, `SELECT `+roadmapColumns+` FROM roadmaps r WHERE r.id = $1`, id))
	if err != nil {
		return nil, notFoundOr("pgRoadmapRepository.FindByID", err)
	}
	return rm, nil
}

func (r *pgRoadmapRepository) FindBySlug(ctx context.Context, slug string) (*model.Roadmap, error) {
	rm, err := scanRoadmap(r.db.QueryRowContext(ctx, `SELECT `+roadmapColumns+` FROM roadmaps r WHERE r.slug = $1`, slug))
	if err != nil {
		return nil, notFoundOr("pgRoadmapRepository.FindBySlug", err)
	}
	return rm, nil
}

func (r *pgRoadmapRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM roadmaps WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("pgRoadmapRepository.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgRoadmapRepository) Create(ctx context.Context, rm *model.Roadmap) (uint64, error) {
	var id uint64
	err := inTx(ctx, r.db, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO roadmaps (title, description, slug, image_url, is_published)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			rm.Title, rm.Description, rm.Slug, nullableString(rm.ImageURL), rm.IsPublished).Scan(&id)
		if err != nil {
			return mapWriteError("pgRoadmapRepository.Create", err)
		}
		return r.writeMemberships(ctx, tx, id, rm)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *pgRoadmapRepository) Update(ctx context.Context, rm *model.Roadmap) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE roadmaps SET title = $1, description = $2, slug = $3, image_url = $4,
			        is_published = $5, updated_at = CURRENT_TIMESTAMP
			 WHERE id = $6`,
			rm.Title, rm.Description, rm.Slug, nullableString(rm.ImageURL), rm.IsPublished, rm.ID)
		if err != nil {
			return mapWriteError("pgRoadmapRepository.Update", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		return r.writeMemberships(ctx, tx, rm.ID, rm)
	})
}

func (r *pgRoadmapRepository) writeMemberships(ctx context.Context, tx *sql.Tx, id uint64, rm *model.Roadmap) error {
	if err := replaceTags(ctx, tx, "roadmap_tags", "roadmap_id", id, rm.TagNames); err != nil {
		return mapWriteError("pgRoadmapRepository tags", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM roadmap_courses WHERE roadmap_id = $1`, id); err != nil {
		return fmt.Errorf("pgRoadmapRepository courses: %w", err)
	}
	if len(rm.CourseSlugs) == 0 {
		return nil
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO roadmap_courses (roadmap_id, course_id, position)
		 SELECT $1, c.id, array_position($2::text[], c.slug)
		 FROM courses c WHERE c.slug = ANY($2::text[])`, id, rm.CourseSlugs)
	if err != nil {
		return mapWriteError("pgRoadmapRepository courses", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgRoadmapRepository courses: %w", err)
	}
	if int(n) != countDistinct(rm.CourseSlugs) {
		return fmt.Errorf("roadmap references an unknown course slug: %w", common.ErrValidation)
	}
	return nil
}

func (r *pgRoadmapRepository) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM roadmaps WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgRoadmapRepository.Delete: %w", err)
	}
	return requireAffected(res)
}

func countDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}
