package service

import (
	"context"
	"sort"
	"sync"

	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"
)

type memoryCache[T any] struct {
	mu            sync.Mutex
	entries       map[string]T
	invalidated   []string
	invalidateAll int
}

func newMemoryCache[T any]() *memoryCache[T] {
	return &memoryCache[T]{entries: map[string]T{}}
}

func (c *memoryCache[T]) Get(_ context.Context, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *memoryCache[T]) Set(_ context.Context, key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
}

func (c *memoryCache[T]) Invalidate(_ context.Context, keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.invalidated = append(c.invalidated, keys...)
}

func (c *memoryCache[T]) InvalidateAll(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.invalidateAll++
}

type fakeUserRepo struct {
	users  []*model.User
	nextID uint64
}

func (r *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return common.ErrConflict
		}
	}
	r.nextID++
	user.ID = r.nextID
	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *fakeUserRepo) find(match func(*model.User) bool) (*model.User, error) {
	for _, u := range r.users {
		if match(u) {
			found := *u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	return r.find(func(u *model.User) bool { return u.ID == id })
}

type fakeRoadmapRepo struct {
	roadmaps  map[uint64]model.Roadmap
	nextID    uint64
	listCalls int
}

func newFakeRoadmapRepo(seed ...model.Roadmap) *fakeRoadmapRepo {
	r := &fakeRoadmapRepo{roadmaps: map[uint64]model.Roadmap{}}
	for _, rm := range seed {
		r.roadmaps[rm.ID] = rm
		r.nextID = max(r.nextID, rm.ID)
	}
	return r
}

func (r *fakeRoadmapRepo) List(_ context.Context, limit, offset int, includeUnpublished bool) ([]model.Roadmap, int, error) {
	r.listCalls++
	var all []model.Roadmap
	for _, rm := range r.roadmaps {
		if includeUnpublished || rm.IsPublished {
			all = append(all, rm)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, limit, offset), len(all), nil
}

func (r *fakeRoadmapRepo) FindByID(_ context.Context, id uint64) (*model.Roadmap, error) {
	rm, ok := r.roadmaps[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &rm, nil
}

func (r *fakeRoadmapRepo) FindBySlug(_ context.Context, slug string) (*model.Roadmap, error) {
	for _, rm := range r.roadmaps {
		if rm.Slug == slug {
			return &rm, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeRoadmapRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeRoadmapRepo) Create(_ context.Context, rm *model.Roadmap) (uint64, error) {
	r.nextID++
	stored := *rm
	stored.ID = r.nextID
	stored.CreatedAt = "2024-01-01T00:00:00"
	stored.UpdatedAt = model.Null[string]()
	r.roadmaps[stored.ID] = stored
	return stored.ID, nil
}

func (r *fakeRoadmapRepo) Update(_ context.Context, rm *model.Roadmap) error {
	if _, ok := r.roadmaps[rm.ID]; !ok {
		return common.ErrNotFound
	}
	stored := *rm
	stored.UpdatedAt = model.Some("2024-01-02T00:00:00")
	r.roadmaps[rm.ID] = stored
	return nil
}

func (r *fakeRoadmapRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.roadmaps[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.roadmaps, id)
	return nil
}

type fakeCourseRepo struct {
	courses     map[uint64]model.Course
	members     map[uint64][]uint64 // roadmap id -> course ids in order
	nextID      uint64
	roadmapHits int
}

func newFakeCourseRepo(seed ...model.Course) *fakeCourseRepo {
	r := &fakeCourseRepo{courses: map[uint64]model.Course{}, members: map[uint64][]uint64{}}
	for _, c := range seed {
		r.courses[c.ID] = c
		r.nextID = max(r.nextID, c.ID)
	}
	return r
}

func (r *fakeCourseRepo) List(_ context.Context, limit, offset int) ([]model.Course, int, error) {
	var all []model.Course
	for _, c := range r.courses {
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, limit, offset), len(all), nil
}

func (r *fakeCourseRepo) ListByRoadmap(_ context.Context, roadmapID uint64) ([]model.Course, error) {
	r.roadmapHits++
	courses := []model.Course{}
	for _, id := range r.members[roadmapID] {
		courses = append(courses, r.courses[id])
	}
	return courses, nil
}

func (r *fakeCourseRepo) FindByID(_ context.Context, id uint64) (*model.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCourseRepo) FindBySlug(_ context.Context, slug string) (*model.Course, error) {
	for _, c := range r.courses {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeCourseRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeCourseRepo) Create(_ context.Context, c *model.Course) (uint64, error) {
	r.nextID++
	stored := *c
	stored.ID = r.nextID
	stored.RoadmapSlugs = []string{}
	stored.ModuleIDs = []uint64{}
	if stored.TagNames == nil {
		stored.TagNames = []string{}
	}
	stored.UpdatedAt = model.Null[string]()
	r.courses[stored.ID] = stored
	return stored.ID, nil
}

func (r *fakeCourseRepo) Update(_ context.Context, c *model.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return common.ErrNotFound
	}
	r.courses[c.ID] = *c
	return nil
}

func (r *fakeCourseRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.courses[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

type fakeExerciseRepo struct {
	exercises   []model.ExerciseDetails
	detailCalls int
}

func (r *fakeExerciseRepo) List(_ context.Context, limit, offset int, lessonID uint64) ([]model.Exercise, int, error) {
	var all []model.Exercise
	for _, d := range r.exercises {
		if lessonID == 0 || d.LessonID == lessonID {
			all = append(all, d.Exercise)
		}
	}
	return window(all, limit, offset), len(all), nil
}

func (r *fakeExerciseRepo) FindBySlug(_ context.Context, slug string) (*model.Exercise, error) {
	for _, d := range r.exercises {
		if d.Slug == slug {
			e := d.Exercise
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeExerciseRepo) FindDetailsBySlug(_ context.Context, slug string) (*model.ExerciseDetails, error) {
	r.detailCalls++
	for _, d := range r.exercises {
		if d.Slug == slug {
			found := d
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

type fakeSolutionRepo struct {
	solutions []model.SolutionResponse
}

func (r *fakeSolutionRepo) ListByUserAndExercise(_ context.Context, userID, exerciseID uint64) ([]model.SolutionResponse, error) {
	out := []model.SolutionResponse{}
	for _, s := range r.solutions {
		if s.UserID == userID && s.ExerciseID == exerciseID {
			out = append(out, s)
		}
	}
	return out, nil
}

func window[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := min(offset+limit, len(all))
	return all[offset:end]
}
