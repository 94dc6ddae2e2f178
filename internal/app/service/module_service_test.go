package service

import (
	"context"
	"errors"
	"testing"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"
)

type fakeModuleRepo struct {
	modules map[uint64]model.Module
	nextID  uint64
}

func (r *fakeModuleRepo) List(_ context.Context, limit, offset int, courseID uint64) ([]model.Module, int, error) {
	var all []model.Module
	for id := uint64(1); id <= r.nextID; id++ {
		if m, ok := r.modules[id]; ok && (courseID == 0 || m.CourseID == courseID) {
			all = append(all, m)
		}
	}
	return window(all, limit, offset), len(all), nil
}

func (r *fakeModuleRepo) FindByID(_ context.Context, id uint64) (*model.Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &m, nil
}

func (r *fakeModuleRepo) FindBySlug(_ context.Context, slug string) (*model.Module, error) {
	for _, m := range r.modules {
		if m.Slug == slug {
			return &m, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeModuleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeModuleRepo) Create(_ context.Context, m *model.Module) (uint64, error) {
	r.nextID++
	stored := *m
	stored.ID = r.nextID
	stored.LessonIDs = []uint64{}
	r.modules[stored.ID] = stored
	return stored.ID, nil
}

func (r *fakeModuleRepo) Update(_ context.Context, m *model.Module) error {
	if _, ok := r.modules[m.ID]; !ok {
		return common.ErrNotFound
	}
	r.modules[m.ID] = *m
	return nil
}

func (r *fakeModuleRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.modules[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.modules, id)
	return nil
}

func TestModuleLifecycle(t *testing.T) {
	repo := &fakeModuleRepo{modules: map[uint64]model.Module{}}
	roadmapCache := newMemoryCache[model.RoadmapDetails]()
	svc := NewModuleService(repo, roadmapCache, nil, NewPager(10, 100))
	ctx := context.Background()

	first, err := svc.CreateModule(ctx, CreateModuleRequest{
		Name:     "Collections",
		CourseID: 1,
		ImageURL: model.Some("https://cdn.example.com/collections.png"),
	})
	if err != nil {
		t.Fatalf("CreateModule: %v", err)
	}
	if first.Slug != "collections" {
		t.Fatalf("slug = %q", first.Slug)
	}
	second, err := svc.CreateModule(ctx, CreateModuleRequest{Name: "Collections", CourseID: 2})
	if err != nil {
		t.Fatalf("CreateModule duplicate name: %v", err)
	}
	if second.Slug != "collections-1" {
		t.Fatalf("second slug = %q", second.Slug)
	}
	if roadmapCache.invalidateAll != 2 {
		t.Fatalf("roadmap cache flushed %d times, want 2", roadmapCache.invalidateAll)
	}

	page, err := svc.ListModules(ctx, 0, 10, 2)
	if err != nil {
		t.Fatalf("ListModules: %v", err)
	}
	if page.TotalElements != 1 || page.Content[0].ID != second.ID {
		t.Fatalf("filtered page = %+v", page)
	}

	updated, err := svc.UpdateModule(ctx, first.ID, UpdateModuleRequest{
		Name:     model.Some("Maps and Slices"),
		ImageURL: model.Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateModule: %v", err)
	}
	if updated.Slug != "maps-and-slices" || !updated.ImageURL.IsNull() || updated.CourseID != 1 {
		t.Fatalf("updated = %+v", updated)
	}

	if _, err := svc.UpdateModule(ctx, first.ID, UpdateModuleRequest{CourseID: model.Null[uint64]()}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("null course_id: err = %v, want ErrValidation", err)
	}

	if err := svc.DeleteModule(ctx, first.ID); err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}
	if err := svc.DeleteModule(ctx, first.ID); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("second delete: err = %v, want ErrNotFound", err)
	}
}

func TestCreateModuleRequiresCourse(t *testing.T) {
	svc := NewModuleService(&fakeModuleRepo{modules: map[uint64]model.Module{}}, nil, nil, NewPager(10, 100))
	_, err := svc.CreateModule(context.Background(), CreateModuleRequest{Name: "Orphan"})
	if err == nil {
		t.Fatal("expected a validation error for a missing course_id")
	}
}
