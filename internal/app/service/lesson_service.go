package service

import (
	"context"
	"fmt"

	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
)

type LessonService struct {
	lessonRepo      repository.LessonRepository
	exerciseDetails SnapshotCache[model.ExerciseDetails]
	pager           Pager
}

// NewLessonService takes the exercise details cache because cached exercises carry
// their lesson's name.
func NewLessonService(lessonRepo repository.LessonRepository, exerciseDetails SnapshotCache[model.ExerciseDetails], pager Pager) *LessonService {
	return &LessonService{lessonRepo: lessonRepo, exerciseDetails: cacheOrNoop(exerciseDetails), pager: pager}
}

type CreateLessonRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Content  string `json:"content,omitempty"`
	Credits  uint32 `json:"credits,omitempty" validate:"max=1000"`
	ModuleID uint64 `json:"module_id" validate:"required"`
}

type UpdateLessonRequest struct {
	Name     model.Optional[string] `json:"name,omitzero" validate:"omitempty,max=200"`
	Content  model.Optional[string] `json:"content,omitzero"`
	Credits  model.Optional[uint32] `json:"credits,omitzero" validate:"omitempty,max=1000"`
	ModuleID model.Optional[uint64] `json:"module_id,omitzero" validate:"omitempty,gt=0"`
}

// ListLessons pages through lessons; moduleID 0 means every module.
func (s *LessonService) ListLessons(ctx context.Context, page, size int, moduleID uint64) (*model.PaginatedLessons, error) {
	p := s.pager.Page(page, size)
	lessons, total, err := s.lessonRepo.List(ctx, p.Limit(), p.Offset(), moduleID)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(lessons, p.Number, p.Size, uint64(total))
	return &resp, nil
}

func (s *LessonService) GetLesson(ctx context.Context, slug string) (*model.Lesson, error) {
	return s.lessonRepo.FindBySlug(ctx, slug)
}

func (s *LessonService) CreateLesson(ctx context.Context, req CreateLessonRequest) (*model.Lesson, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Name, s.lessonRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	id, err := s.lessonRepo.Create(ctx, &model.Lesson{
		Name:     req.Name,
		Content:  req.Content,
		Credits:  req.Credits,
		Slug:     slug,
		ModuleID: req.ModuleID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create lesson: %w", err)
	}
	return s.lessonRepo.FindByID(ctx, id)
}

func (s *LessonService) UpdateLesson(ctx context.Context, id uint64, req UpdateLessonRequest) (*model.Lesson, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	lesson, err := s.lessonRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyRequired(&lesson.Name, req.Name, "name"); err != nil {
		return nil, err
	}
	if err := applyRequired(&lesson.Content, req.Content, "content"); err != nil {
		return nil, err
	}
	if err := applyRequired(&lesson.Credits, req.Credits, "credits"); err != nil {
		return nil, err
	}
	if err := applyRequired(&lesson.ModuleID, req.ModuleID, "module_id"); err != nil {
		return nil, err
	}

	if req.Name.IsPresent() {
		lesson.Slug, err = renamedSlug(ctx, lesson.Slug, lesson.Name, s.lessonRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	if err := s.lessonRepo.Update(ctx, lesson); err != nil {
		return nil, fmt.Errorf("failed to update lesson: %w", err)
	}
	s.exerciseDetails.InvalidateAll(ctx)
	return s.lessonRepo.FindByID(ctx, id)
}

func (s *LessonService) DeleteLesson(ctx context.Context, id uint64) error {
	if err := s.lessonRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.exerciseDetails.InvalidateAll(ctx)
	return nil
}
