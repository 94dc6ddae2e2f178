package api

import (
	"net/http"
	"time"

	"cortex_edu/internal/api/handler"
	"cortex_edu/internal/api/middleware"
	"cortex_edu/internal/common/security"
	"cortex_edu/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

type Services struct {
	Auth      handler.AuthService
	Roadmaps  handler.RoadmapService
	Courses   handler.CourseService
	Modules   handler.ModuleService
	Lessons   handler.LessonService
	Exercises handler.ExerciseService
	Solutions handler.SolutionService
}

func NewRouter(services Services, allowedOrigins []string, log *logger.Logger) http.Handler {
	if log == nil {
		log = logger.Nop()
	}
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog(log))
	r.Use(middleware.Recover(log))
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Searches for a token in "Authorization: Bearer T" and puts the verified claims in context.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(services.Auth)
		v1.Route("/auth", authHandler.RegisterRoutes)

		v1.Route("/roadmaps", handler.NewRoadmapHandler(services.Roadmaps).RegisterRoutes)
		v1.Route("/courses", handler.NewCourseHandler(services.Courses).RegisterRoutes)
		v1.Route("/modules", handler.NewModuleHandler(services.Modules).RegisterRoutes)
		v1.Route("/lessons", handler.NewLessonHandler(services.Lessons).RegisterRoutes)
		v1.Route("/exercises", handler.NewExerciseHandler(services.Exercises, services.Solutions).RegisterRoutes)
	})

	return r
}
