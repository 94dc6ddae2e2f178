package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cortex_edu/internal/api"
	"cortex_edu/internal/app/service"
	"cortex_edu/internal/common/security"
	"cortex_edu/internal/domain/model"
	"cortex_edu/internal/domain/repository"
	"cortex_edu/internal/platform/cache"
	"cortex_edu/internal/platform/config"
	"cortex_edu/internal/platform/database"
	"cortex_edu/internal/platform/logger"
	"cortex_edu/internal/platform/media"
)

func main() {
	// 1. Load Configuration
	config.Load()
	cfg := config.AppConfig

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("configuration loaded", "port", cfg.APIPort, "mode", cfg.LogMode)

	// 2. Initialize JWT
	security.InitJWT(cfg.JWTKey, cfg.JWTExp)

	ctx := context.Background()

	// 3. Initialize Database
	if err := database.Connect(ctx, cfg.DBConnStr); err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	defer database.Close()
	log.Info("database connected", "host", cfg.DBHost, "db", cfg.DBName)

	// 4. Initialize Redis; the API keeps serving from Postgres when it is unavailable.
	var (
		roadmapCache  service.SnapshotCache[model.RoadmapDetails]
		exerciseCache service.SnapshotCache[model.ExerciseDetails]
	)
	if err := cache.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
		log.Warn("redis unavailable, caching disabled", "error", err)
	} else {
		defer cache.CloseRedis()
		roadmapCache = cache.NewSnapshots[model.RoadmapDetails](cache.RDB, "roadmap_details", cfg.CacheTTL, log)
		exerciseCache = cache.NewSnapshots[model.ExerciseDetails](cache.RDB, "exercise_details", cfg.CacheTTL, log)
		log.Info("redis connected", "addr", cfg.RedisAddr)
	}

	// 5. Initialize image storage; uploads answer 503 without a bucket.
	var images service.ImageStore
	if cfg.GCSBucketName == "" {
		log.Warn("GCS_BUCKET_NAME not set, image uploads disabled")
	} else if bucket, err := media.NewBucket(ctx, cfg.GCSBucketName, cfg.MediaCDNDomain, cfg.GCPCredentials, log); err != nil {
		log.Warn("image storage unavailable, uploads disabled", "error", err)
	} else {
		defer bucket.Close()
		images = bucket
		log.Info("image storage ready", "bucket", cfg.GCSBucketName)
	}

	// 6. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	roadmapRepo := repository.NewPgRoadmapRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	moduleRepo := repository.NewPgModuleRepository(database.DB)
	lessonRepo := repository.NewPgLessonRepository(database.DB)
	exerciseRepo := repository.NewPgExerciseRepository(database.DB)
	solutionRepo := repository.NewPgSolutionRepository(database.DB)

	// 7. Initialize Services
	pager := service.NewPager(cfg.DefaultPageSize, cfg.MaxPageSize)
	services := api.Services{
		Auth:      service.NewAuthService(userRepo),
		Roadmaps:  service.NewRoadmapService(roadmapRepo, courseRepo, roadmapCache, images, pager, log),
		Courses:   service.NewCourseService(courseRepo, roadmapCache, images, pager),
		Modules:   service.NewModuleService(moduleRepo, roadmapCache, images, pager),
		Lessons:   service.NewLessonService(lessonRepo, exerciseCache, pager),
		Exercises: service.NewExerciseService(exerciseRepo, solutionRepo, exerciseCache, pager, log),
		Solutions: service.NewSolutionService(exerciseRepo, solutionRepo),
	}

	// 8. Initialize Router & HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(services, cfg.CORSAllowedOrigins, log),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen", "port", cfg.APIPort, "error", err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
		return
	}
	log.Info("server stopped gracefully")
}
