package service

import (
	"context"
	"fmt"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
	"cortex_edu/internal/platform/logger"
)

type RoadmapService struct {
	roadmapRepo repository.RoadmapRepository
	courseRepo  repository.CourseRepository
	details     SnapshotCache[model.RoadmapDetails]
	images      ImageStore
	pager       Pager
	log         *logger.Logger
}

func NewRoadmapService(
	roadmapRepo repository.RoadmapRepository,
	courseRepo repository.CourseRepository,
	details SnapshotCache[model.RoadmapDetails],
	images ImageStore,
	pager Pager,
	log *logger.Logger,
) *RoadmapService {
	if log == nil {
		log = logger.Nop()
	}
	return &RoadmapService{
		roadmapRepo: roadmapRepo,
		courseRepo:  courseRepo,
		details:     cacheOrNoop(details),
		images:      images,
		pager:       pager,
		log:         log,
	}
}

type CreateRoadmapRequest struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	Description string                 `json:"description,omitempty" validate:"max=10000"`
	ImageURL    model.Optional[string] `json:"image_url,omitzero" validate:"omitempty,url"`
	TagNames    []string               `json:"tag_names,omitempty" validate:"max=20,dive,required,max=50"`
	IsPublished bool                   `json:"is_published,omitempty"`
	CourseSlugs []string               `json:"course_slugs,omitempty" validate:"dive,required"`
}

// UpdateRoadmapRequest changes only the keys present in the payload. A null image_url
// removes the image.
type UpdateRoadmapRequest struct {
	Title       model.Optional[string]   `json:"title,omitzero" validate:"omitempty,max=200"`
	Description model.Optional[string]   `json:"description,omitzero" validate:"omitempty,max=10000"`
	ImageURL    model.Optional[string]   `json:"image_url,omitzero" validate:"omitempty,url"`
	TagNames    model.Optional[[]string] `json:"tag_names,omitzero" validate:"omitempty,max=20,dive,required,max=50"`
	IsPublished model.Optional[bool]     `json:"is_published,omitzero"`
	CourseSlugs model.Optional[[]string] `json:"course_slugs,omitzero" validate:"omitempty,dive,required"`
}

func (s *RoadmapService) ListRoadmaps(ctx context.Context, page, size int, includeUnpublished bool) (*model.PaginatedRoadmaps, error) {
	p := s.pager.Page(page, size)
	roadmaps, total, err := s.roadmapRepo.List(ctx, p.Limit(), p.Offset(), includeUnpublished)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(roadmaps, p.Number, p.Size, uint64(total))
	return &resp, nil
}

// GetRoadmapDetails returns the roadmap with its courses in roadmap order. Unpublished
// roadmaps are reported as not found unless the caller is an admin.
func (s *RoadmapService) GetRoadmapDetails(ctx context.Context, slug string, isAdmin bool) (*model.RoadmapDetails, error) {
	details, ok := s.details.Get(ctx, slug)
	if !ok {
		roadmap, err := s.roadmapRepo.FindBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		courses, err := s.courseRepo.ListByRoadmap(ctx, roadmap.ID)
		if err != nil {
			return nil, fmt.Errorf("loading courses of roadmap %s: %w", slug, err)
		}
		details = model.RoadmapDetails{Roadmap: *roadmap, Courses: courses}
		s.details.Set(ctx, slug, details)
	}

	if !details.IsPublished && !isAdmin {
		return nil, common.ErrNotFound
	}
	return &details, nil
}

func (s *RoadmapService) CreateRoadmap(ctx context.Context, req CreateRoadmapRequest) (*model.Roadmap, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	slug, err := uniqueSlug(ctx, req.Title, s.roadmapRepo.SlugExists)
	if err != nil {
		return nil, err
	}
	roadmap := &model.Roadmap{
		Title:       req.Title,
		Description: req.Description,
		Slug:        slug,
		ImageURL:    req.ImageURL,
		TagNames:    req.TagNames,
		IsPublished: req.IsPublished,
		CourseSlugs: req.CourseSlugs,
	}

	id, err := s.roadmapRepo.Create(ctx, roadmap)
	if err != nil {
		return nil, fmt.Errorf("failed to create roadmap: %w", err)
	}
	s.log.Info("roadmap.created", "id", id, "slug", slug)
	return s.roadmapRepo.FindByID(ctx, id)
}

func (s *RoadmapService) UpdateRoadmap(ctx context.Context, id uint64, req UpdateRoadmapRequest) (*model.Roadmap, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	roadmap, err := s.roadmapRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldSlug := roadmap.Slug

	if err := applyRequired(&roadmap.Title, req.Title, "title"); err != nil {
		return nil, err
	}
	if err := applyRequired(&roadmap.Description, req.Description, "description"); err != nil {
		return nil, err
	}
	if err := applyRequired(&roadmap.TagNames, req.TagNames, "tag_names"); err != nil {
		return nil, err
	}
	if err := applyRequired(&roadmap.IsPublished, req.IsPublished, "is_published"); err != nil {
		return nil, err
	}
	if err := applyRequired(&roadmap.CourseSlugs, req.CourseSlugs, "course_slugs"); err != nil {
		return nil, err
	}
	applyNullable(&roadmap.ImageURL, req.ImageURL)

	if req.Title.IsPresent() {
		roadmap.Slug, err = renamedSlug(ctx, oldSlug, roadmap.Title, s.roadmapRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	if err := s.roadmapRepo.Update(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("failed to update roadmap: %w", err)
	}
	s.details.Invalidate(ctx, oldSlug, roadmap.Slug)
	return s.roadmapRepo.FindByID(ctx, id)
}

// UploadRoadmapImage stores img and points the roadmap's image_url at it.
func (s *RoadmapService) UploadRoadmapImage(ctx context.Context, id uint64, img ImageUpload) (*model.Roadmap, error) {
	roadmap, err := s.roadmapRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := storeImage(ctx, s.images, "roadmaps", roadmap.Slug, img)
	if err != nil {
		return nil, err
	}

	roadmap.ImageURL = model.Some(url)
	if err := s.roadmapRepo.Update(ctx, roadmap); err != nil {
		return nil, fmt.Errorf("failed to update roadmap image: %w", err)
	}
	s.details.Invalidate(ctx, roadmap.Slug)
	s.log.Info("roadmap.image_uploaded", "id", id, "url", url)
	return s.roadmapRepo.FindByID(ctx, id)
}

func (s *RoadmapService) DeleteRoadmap(ctx context.Context, id uint64) error {
	roadmap, err := s.roadmapRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.roadmapRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.details.Invalidate(ctx, roadmap.Slug)
	s.log.Info("roadmap.deleted", "id", id, "slug", roadmap.Slug)
	return nil
}
