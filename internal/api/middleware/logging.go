package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"cortex_edu/internal/common"
	"cortex_edu/internal/platform/logger"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}

// AccessLog writes one structured line per request, tagged with chi's request id.
func AccessLog(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}
			next.ServeHTTP(sw, r)

			log.With(
				"request_id", chiMiddleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"bytes", sw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
			).Info("http request")
		})
	}
}

func Recover(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					log.With(
						"request_id", chiMiddleware.GetReqID(r.Context()),
						"panic", rec,
						"stack", string(debug.Stack()),
					).Error("panic recovered")
					common.RespondWithError(w, http.StatusInternalServerError, common.ErrInternalServer.Error())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
