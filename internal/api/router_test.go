package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cortex_edu/internal/app/service"
	"cortex_edu/internal/common"
	"cortex_edu/internal/common/security"
	"cortex_edu/internal/domain/model"
)

type stubCatalog struct {
	lastIncludeUnpublished bool
	lastUserID             uint64
	lastLessonFilter       uint64
	lastUpdate             service.UpdateRoadmapRequest
	created                []service.CreateRoadmapRequest
	uploadedType           string
	uploadedBody           string
}

func (s *stubCatalog) Signup(context.Context, service.SignupRequest) (*service.AuthResponse, error) {
	return &service.AuthResponse{User: &model.User{ID: 1, Username: "ada"}, Token: "t"}, nil
}

func (s *stubCatalog) Login(_ context.Context, req service.LoginRequest) (*service.AuthResponse, error) {
	if req.Password != "right" {
		return nil, common.ErrUnauthorized
	}
	return &service.AuthResponse{User: &model.User{ID: 1}, Token: "t"}, nil
}

func (s *stubCatalog) ListRoadmaps(_ context.Context, page, size int, includeUnpublished bool) (*model.PaginatedRoadmaps, error) {
	s.lastIncludeUnpublished = includeUnpublished
	resp := model.NewPaginatedResponse([]model.Roadmap{}, uint32(page), uint32(size), 0)
	return &resp, nil
}

func (s *stubCatalog) GetRoadmapDetails(_ context.Context, slug string, _ bool) (*model.RoadmapDetails, error) {
	if slug != "backend" {
		return nil, common.ErrNotFound
	}
	return &model.RoadmapDetails{
		Roadmap: model.Roadmap{ID: 1, Title: "Backend", Slug: "backend", TagNames: []string{},
			CourseSlugs: []string{}, CreatedAt: "2024-01-01T00:00:00", UpdatedAt: model.Null[string]()},
		Courses: []model.Course{},
	}, nil
}

func (s *stubCatalog) CreateRoadmap(_ context.Context, req service.CreateRoadmapRequest) (*model.Roadmap, error) {
	s.created = append(s.created, req)
	return &model.Roadmap{ID: 2, Title: req.Title, Slug: "new", TagNames: []string{}, CourseSlugs: []string{}}, nil
}

func (s *stubCatalog) UpdateRoadmap(_ context.Context, id uint64, req service.UpdateRoadmapRequest) (*model.Roadmap, error) {
	s.lastUpdate = req
	return &model.Roadmap{ID: id, TagNames: []string{}, CourseSlugs: []string{}}, nil
}

func (s *stubCatalog) UploadRoadmapImage(_ context.Context, id uint64, img service.ImageUpload) (*model.Roadmap, error) {
	if !strings.HasPrefix(img.ContentType, "image/") {
		return nil, common.ErrValidation
	}
	body, err := io.ReadAll(img.Body)
	if err != nil {
		return nil, err
	}
	s.uploadedType, s.uploadedBody = img.ContentType, string(body)
	return &model.Roadmap{ID: id, ImageURL: model.Some("https://img.test/roadmaps/backend/1.png"),
		TagNames: []string{}, CourseSlugs: []string{}}, nil
}

func (s *stubCatalog) DeleteRoadmap(context.Context, uint64) error { return nil }

func (s *stubCatalog) ListCourses(context.Context, int, int) (*model.PaginatedCourses, error) {
	resp := model.NewPaginatedResponse[model.Course](nil, 0, 10, 0)
	return &resp, nil
}
func (s *stubCatalog) GetCourse(context.Context, string) (*model.Course, error) {
	return nil, common.ErrNotFound
}
func (s *stubCatalog) CreateCourse(context.Context, service.CreateCourseRequest) (*model.Course, error) {
	return &model.Course{}, nil
}
func (s *stubCatalog) UpdateCourse(context.Context, uint64, service.UpdateCourseRequest) (*model.Course, error) {
	return &model.Course{}, nil
}
func (s *stubCatalog) UploadCourseImage(context.Context, uint64, service.ImageUpload) (*model.Course, error) {
	return nil, common.ErrServiceUnavailable
}

func (s *stubCatalog) DeleteCourse(context.Context, uint64) error { return nil }

func (s *stubCatalog) ListModules(context.Context, int, int, uint64) (*model.PaginatedModules, error) {
	resp := model.NewPaginatedResponse[model.Module](nil, 0, 10, 0)
	return &resp, nil
}
func (s *stubCatalog) GetModule(context.Context, string) (*model.Module, error) {
	return nil, common.ErrNotFound
}
func (s *stubCatalog) CreateModule(context.Context, service.CreateModuleRequest) (*model.Module, error) {
	return &model.Module{}, nil
}
func (s *stubCatalog) UpdateModule(context.Context, uint64, service.UpdateModuleRequest) (*model.Module, error) {
	return &model.Module{}, nil
}
func (s *stubCatalog) UploadModuleImage(context.Context, uint64, service.ImageUpload) (*model.Module, error) {
	return nil, common.ErrServiceUnavailable
}

func (s *stubCatalog) DeleteModule(context.Context, uint64) error { return nil }

func (s *stubCatalog) ListLessons(context.Context, int, int, uint64) (*model.PaginatedLessons, error) {
	resp := model.NewPaginatedResponse[model.Lesson](nil, 0, 10, 0)
	return &resp, nil
}
func (s *stubCatalog) GetLesson(context.Context, string) (*model.Lesson, error) {
	return nil, common.ErrNotFound
}
func (s *stubCatalog) CreateLesson(context.Context, service.CreateLessonRequest) (*model.Lesson, error) {
	return &model.Lesson{}, nil
}
func (s *stubCatalog) UpdateLesson(context.Context, uint64, service.UpdateLessonRequest) (*model.Lesson, error) {
	return &model.Lesson{}, nil
}
func (s *stubCatalog) DeleteLesson(context.Context, uint64) error { return nil }

func (s *stubCatalog) ListExercises(_ context.Context, page, size int, lessonID uint64) (*model.PaginatedExercises, error) {
	s.lastLessonFilter = lessonID
	resp := model.NewPaginatedResponse([]model.Exercise{{ID: 1, Slug: "hello-world",
		SolutionResponses: []model.SolutionResponse{}}}, 0, 10, 1)
	return &resp, nil
}

func (s *stubCatalog) GetExerciseDetails(_ context.Context, slug string, userID uint64) (*model.ExerciseDetails, error) {
	s.lastUserID = userID
	return &model.ExerciseDetails{
		Exercise: model.Exercise{ID: 1, Slug: slug, SolutionResponses: []model.SolutionResponse{}},
		Language: "go", FileName: "main.go",
	}, nil
}

func (s *stubCatalog) ListSolutions(_ context.Context, _ string, userID uint64) ([]model.SolutionResponse, error) {
	s.lastUserID = userID
	return []model.SolutionResponse{{ID: 9, UserID: userID, Submissions: []model.SubmissionResponse{}}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *stubCatalog) {
	t.Helper()
	security.InitJWT([]byte("router-test-secret"), time.Hour)
	stub := &stubCatalog{}
	services := Services{
		Auth: stub, Roadmaps: stub, Courses: stub, Modules: stub,
		Lessons: stub, Exercises: stub, Solutions: stub,
	}
	return NewRouter(services, []string{"http://localhost:3000"}, nil), stub
}

func bearer(t *testing.T, userID uint64, role string) string {
	t.Helper()
	token, err := security.GenerateToken(userID, role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return "Bearer " + token
}

func serve(router http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := serve(router, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestRoadmapDetailsResponseIsDecodable(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/v1/roadmaps/backend", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	details, err := model.Decode[model.RoadmapDetails](rec.Body.Bytes())
	if err != nil {
		t.Fatalf("response does not decode as RoadmapDetails: %v", err)
	}
	if details.Slug != "backend" || !details.UpdatedAt.IsNull() {
		t.Errorf("details = %+v", details)
	}

	if rec := serve(router, http.MethodGet, "/api/v1/roadmaps/nope", "", ""); rec.Code != http.StatusNotFound {
		t.Errorf("missing roadmap status = %d", rec.Code)
	}
}

func TestListRoadmapsAdminSeesDrafts(t *testing.T) {
	router, stub := newTestRouter(t)

	serve(router, http.MethodGet, "/api/v1/roadmaps?page=0&size=5", "", "")
	if stub.lastIncludeUnpublished {
		t.Error("anonymous caller got unpublished roadmaps")
	}
	serve(router, http.MethodGet, "/api/v1/roadmaps", bearer(t, 1, model.RoleAdmin), "")
	if !stub.lastIncludeUnpublished {
		t.Error("admin did not get unpublished roadmaps")
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router, stub := newTestRouter(t)
	body := `{"title":"Frontend"}`

	if rec := serve(router, http.MethodPost, "/api/v1/roadmaps", "", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create = %d, want 401", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/api/v1/roadmaps", bearer(t, 2, model.RoleUser), body); rec.Code != http.StatusForbidden {
		t.Errorf("user create = %d, want 403", rec.Code)
	}
	if rec := serve(router, http.MethodPost, "/api/v1/roadmaps", "Bearer garbage", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token create = %d, want 401", rec.Code)
	}

	rec := serve(router, http.MethodPost, "/api/v1/roadmaps", bearer(t, 1, model.RoleAdmin), body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("admin create = %d body=%s", rec.Code, rec.Body.String())
	}
	if len(stub.created) != 1 || stub.created[0].Title != "Frontend" {
		t.Errorf("created = %+v", stub.created)
	}
	if rec := serve(router, http.MethodDelete, "/api/v1/roadmaps/1", bearer(t, 1, model.RoleAdmin), ""); rec.Code != http.StatusNoContent {
		t.Errorf("admin delete = %d", rec.Code)
	}
}

func TestRequestBodiesAreStrict(t *testing.T) {
	router, stub := newTestRouter(t)
	admin := bearer(t, 1, model.RoleAdmin)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"description":"x"}`},
		{"wrong type", `{"title":42}`},
		{"malformed", `{"title":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, http.MethodPost, "/api/v1/roadmaps", admin, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body=%s)", rec.Code, rec.Body.String())
			}
		})
	}
	if len(stub.created) != 0 {
		t.Errorf("service reached with invalid bodies: %+v", stub.created)
	}

	rec := serve(router, http.MethodPut, "/api/v1/roadmaps/1", admin, `{"image_url":null,"ignored":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d body=%s", rec.Code, rec.Body.String())
	}
	if !stub.lastUpdate.ImageURL.IsNull() || stub.lastUpdate.Title.IsSet() {
		t.Errorf("update request = %+v", stub.lastUpdate)
	}

	if rec := serve(router, http.MethodPut, "/api/v1/roadmaps/abc", admin, `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("non-numeric id = %d, want 400", rec.Code)
	}
}

func TestExerciseRoutes(t *testing.T) {
	router, stub := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/api/v1/exercises?lesson_id=7", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	if stub.lastLessonFilter != 7 {
		t.Errorf("lesson filter = %d", stub.lastLessonFilter)
	}
	page, err := model.Decode[model.PaginatedExercises](rec.Body.Bytes())
	if err != nil || len(page.Content) != 1 {
		t.Fatalf("list body = %v, %v", page, err)
	}
	if rec := serve(router, http.MethodGet, "/api/v1/exercises?lesson_id=x", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad lesson_id = %d", rec.Code)
	}

	serve(router, http.MethodGet, "/api/v1/exercises/hello-world", "", "")
	if stub.lastUserID != 0 {
		t.Errorf("anonymous details resolved user %d", stub.lastUserID)
	}
	rec = serve(router, http.MethodGet, "/api/v1/exercises/hello-world", bearer(t, 5, model.RoleUser), "")
	if stub.lastUserID != 5 {
		t.Errorf("details user = %d, want 5", stub.lastUserID)
	}
	if _, err := model.Decode[model.ExerciseDetails](rec.Body.Bytes()); err != nil {
		t.Errorf("details body does not decode: %v", err)
	}

	if rec := serve(router, http.MethodGet, "/api/v1/exercises/hello-world/solutions", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous solutions = %d, want 401", rec.Code)
	}
	rec = serve(router, http.MethodGet, "/api/v1/exercises/hello-world/solutions", bearer(t, 5, model.RoleUser), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("solutions = %d", rec.Code)
	}
	solutions, err := model.Decode[[]model.SolutionResponse](rec.Body.Bytes())
	if err != nil || len(solutions) != 1 || solutions[0].UserID != 5 {
		t.Errorf("solutions = %+v, %v", solutions, err)
	}
}

func TestLoginFailureStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := serve(router, http.MethodPost, "/api/v1/auth/login", "", `{"login_field":"ada","password":"wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("login = %d, want 401", rec.Code)
	}
	rec = serve(router, http.MethodPost, "/api/v1/auth/login", "", `{"login_field":"ada"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("login without password = %d, want 400", rec.Code)
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func imageRequest(t *testing.T, path, auth, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, "cover.png")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	return req
}

func TestUploadRoadmapImage(t *testing.T) {
	router, stub := newTestRouter(t)
	admin := bearer(t, 1, model.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, imageRequest(t, "/api/v1/roadmaps/1/image", admin, "image", pngHeader))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	if stub.uploadedType != "image/png" || stub.uploadedBody != string(pngHeader) {
		t.Fatalf("service saw %q with %d bytes", stub.uploadedType, len(stub.uploadedBody))
	}
	roadmap, err := model.Decode[model.Roadmap](rec.Body.Bytes())
	if err != nil {
		t.Fatalf("response does not decode as Roadmap: %v", err)
	}
	if !roadmap.ImageURL.IsPresent() {
		t.Errorf("image_url missing from %s", rec.Body.String())
	}

	cases := []struct {
		name string
		req  *http.Request
		want int
	}{
		{"not admin", imageRequest(t, "/api/v1/roadmaps/1/image", bearer(t, 2, model.RoleUser), "image", pngHeader), http.StatusForbidden},
		{"wrong field", imageRequest(t, "/api/v1/roadmaps/1/image", admin, "file", pngHeader), http.StatusBadRequest},
		{"not an image", imageRequest(t, "/api/v1/roadmaps/1/image", admin, "image", []byte("<html><body>hi</body></html>")), http.StatusBadRequest},
		{"too large", imageRequest(t, "/api/v1/roadmaps/1/image", admin, "image", append(pngHeader, make([]byte, 5<<20)...)), http.StatusRequestEntityTooLarge},
		{"uploads disabled", imageRequest(t, "/api/v1/courses/1/image", admin, "image", pngHeader), http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, tc.req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}
