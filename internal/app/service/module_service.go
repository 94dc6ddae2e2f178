package service

import (
	"context"
	"fmt"

	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
)

type ModuleService struct {
	moduleRepo     repository.ModuleRepository
	roadmapDetails SnapshotCache[model.RoadmapDetails]
	images         ImageStore
	pager          Pager
}

func NewModuleService(moduleRepo repository.ModuleRepository, roadmapDetails SnapshotCache[model.RoadmapDetails], images ImageStore, pager Pager) *ModuleService {
	return &ModuleService{moduleRepo: moduleRepo, roadmapDetails: cacheOrNoop(roadmapDetails), images: images, pager: pager}
}

type CreateModuleRequest struct {
	Name        string                 `json:"name" validate:"required,max=200"`
	Description string                 `json:"description,omitempty" validate:"max=10000"`
	CourseID    uint64                 `json:"course_id" validate:"required"`
	ImageURL    model.Optional[string] `json:"image_url,omitzero" validate:"omitempty,url"`
}

type UpdateModuleRequest struct {
	Name        model.Optional[string] `json:"name,omitzero" validate:"omitempty,max=200"`
	Description model.Optional[string] `json:"description,omitzero" validate:"omitempty,max=10000"`
	CourseID    model.Optional[uint64] `json:"course_id,omitzero" validate:"omitempty,gt=0"`
	ImageURL    model.Optional[string] `json:"image_url,omitzero" validate:"omitempty,url"`
}

// ListModules pages through modules; courseID 0 means every course.
func (s *ModuleService) ListModules(ctx context.Context, page, size int, courseID uint64) (*model.PaginatedModules, error) {
	p := s.pager.Page(page, size)
	modules, total, err := s.moduleRepo.List(ctx, p.Limit(), p.Offset(), courseID)
	if err != nil {
		return nil, err
	}
	resp := model.NewPaginatedResponse(modules, p.Number, p.Size, uint64(total))
	return &resp, nil
}

func (s *ModuleService) GetModule(ctx context.Context, slug string) (*model.Module, error) {
	return s.moduleRepo.FindBySlug(ctx, slug)
}

func (s *ModuleService) CreateModule(ctx context.Context, req CreateModuleRequest) (*model.Module, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	slug, err := uniqueSlug(ctx, req.Name, s.moduleRepo.SlugExists)
	if err != nil {
		return nil, err
	}

	id, err := s.moduleRepo.Create(ctx, &model.Module{
		Name:        req.Name,
		Description: req.Description,
		Slug:        slug,
		CourseID:    req.CourseID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create module: %w", err)
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return s.moduleRepo.FindByID(ctx, id)
}

func (s *ModuleService) UpdateModule(ctx context.Context, id uint64, req UpdateModuleRequest) (*model.Module, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	module, err := s.moduleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyRequired(&module.Name, req.Name, "name"); err != nil {
		return nil, err
	}
	if err := applyRequired(&module.Description, req.Description, "description"); err != nil {
		return nil, err
	}
	if err := applyRequired(&module.CourseID, req.CourseID, "course_id"); err != nil {
		return nil, err
	}
	applyNullable(&module.ImageURL, req.ImageURL)

	if req.Name.IsPresent() {
		module.Slug, err = renamedSlug(ctx, module.Slug, module.Name, s.moduleRepo.SlugExists)
		if err != nil {
			return nil, err
		}
	}

	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, fmt.Errorf("failed to update module: %w", err)
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return s.moduleRepo.FindByID(ctx, id)
}

func (s *ModuleService) UploadModuleImage(ctx context.Context, id uint64, img ImageUpload) (*model.Module, error) {
	module, err := s.moduleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := storeImage(ctx, s.images, "modules", module.Slug, img)
	if err != nil {
		return nil, err
	}

	module.ImageURL = model.Some(url)
	if err := s.moduleRepo.Update(ctx, module); err != nil {
		return nil, fmt.Errorf("failed to update module image: %w", err)
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return s.moduleRepo.FindByID(ctx, id)
}

func (s *ModuleService) DeleteModule(ctx context.Context, id uint64) error {
	if err := s.moduleRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.roadmapDetails.InvalidateAll(ctx)
	return nil
}
