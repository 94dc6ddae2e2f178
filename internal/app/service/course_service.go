package service

import (
	"context"
	"fmt"

	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
)

type CourseService struct {
	courseRepo     repository.CourseRepository
	roadmapDetails SnapshotCache[model.RoadmapDetails]
	images         ImageStore
	pager          Pager
}

// NewCourseService takes the roadmap details cache because cached roadmaps embed full
// course records.
func NewCourseService(courseRepo repository.CourseRepository, roadmapDetails SnapshotCache[model.RoadmapDetails], images ImageStore, pager Pager) *CourseService {
	return &CourseService{courseRepo: courseRepo, roadmapDetails: cacheOrNoop(roadmapDetails), images: images, pager: pager}
}

type CreateCourseRequest struct {
	Name        string                 `json:"name" validate:"required,max=200"`
	Description string                 `json:"description,omitempty" validate:"max=10000"`
	ImageURL    model.Optional[string] `json:"image_url,omitzero" validate:"omitempty,url"`
	TagNames    []string               `json:"tag_names,omitempty" validate:"max=20,dive,required,max=50"`
}

type UpdateCourseRequest struct {
	Name        model.Optional[string]   `json:"name,omitzero" validate:"omitempty,max=200"`
	Description model.Optional[string]   `json:"description,omitzero" validate:"omitempty,max=10000"`
	ImageURL    model.Optional[string]   `json:"image_url,omitzero" validate:"omitempty,url"`
	TagNames    model.Optional[[]string] `json:"tag_names,omitzero" validate:"omitempty,max=20,dive,required,max=50"`
}

func (s *CourseService) ListCourses(ctx context.Context, page, size int) (*model.PaginatedCourses, error) {
	p := s.pager.Page(page, size)
	courses, total, err := s.courseRepo.List(ctx, p.Limit(), p.Offset())
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(courses, p.Number, p.Size, uint64(total))
	return &resp, nil
}

func (s *CourseService) GetCourse(ctx context.Context, slug string) (*model.Course, error) {
	return s.courseRepo.FindBySlug(ctx, slug)
}

func (s *CourseService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*model.Course, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Name, s.courseRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	id, err := s.courseRepo.Create(ctx, &model.Course{
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug,
		ImageURL:    req.ImageURL,
		TagNames:    req.TagNames,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return s.courseRepo.FindByID(ctx, id)
}

func (s *CourseService) UpdateCourse(ctx context.Context, id uint64, req UpdateCourseRequest) (*model.Course, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyRequired(&course.Name, req.Name, "name"); err != nil {
		return nil, err
	}
	if err := applyRequired(&course.Description, req.Description, "description"); err != nil {
		return nil, err
	}
	if err := applyRequired(&course.TagNames, req.TagNames, "tag_names"); err != nil {
		return nil, err
	}
	applyNullable(&course.ImageURL, req.ImageURL)

	if req.Name.IsPresent() {
		course.Slug, err = renamedSlug(ctx, course.Slug, course.Name, s.courseRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return s.courseRepo.FindByID(ctx, id)
}

func (s *CourseService) UploadCourseImage(ctx context.Context, id uint64, img ImageUpload) (*model.Course, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := storeImage(ctx, s.images, "courses", course.Slug, img)
	if err != nil {
		return nil, err
	}

	course.ImageURL = model.Some(url)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course image: %w", err)
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return s.courseRepo.FindByID(ctx, id)
}

func (s *CourseService) DeleteCourse(ctx context.Context, id uint64) error {
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return nil
}
