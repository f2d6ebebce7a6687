package api

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/services"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const (
	learnerContextKey contextKey = "learner"
	learnerHeader                = "X-User-ID"
)

// learnerFromContext returns the resolved learner id. The middleware always
// sets one, so handlers can rely on it.
func learnerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(learnerContextKey).(string); ok {
		return v
	}
	return ""
}

// learnerMiddleware resolves the learner from the X-User-ID header, falling
// back to the configured default, and seeds the learner's rows on first sight.
func (s *Server) learnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(learnerHeader)
		if userID == "" {
			userID = s.DefaultUserID
		}

		s.seedMu.Lock()
		if s.seeded == nil {
			s.seeded = make(map[string]bool)
		}
		needsSeed := !s.seeded[userID]
		if needsSeed {
			s.seeded[userID] = true
		}
		s.seedMu.Unlock()

		if needsSeed {
			if err := services.SeedLearner(r.Context(), s.DB, userID); err != nil {
				logger.FromContext(r.Context()).Error("failed to seed learner %s: %v", userID, err)
				s.seedMu.Lock()
				delete(s.seeded, userID)
				s.seedMu.Unlock()
				handleError(w, r, err)
				return
			}
		}

		ctx := context.WithValue(r.Context(), learnerContextKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// generateRequestID creates a random request ID.
func generateRequestID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// loggingMiddleware logs HTTP requests with timing, status codes, and request IDs.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		log := logger.Default().WithFields(map[string]any{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		if r.RemoteAddr != "" {
			log = log.WithField("remote_addr", r.RemoteAddr)
		}

		ctx := logger.NewContext(r.Context(), log)
		r = r.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		log.Debug("request started")
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log = log.WithFields(map[string]any{
			"status":      wrapped.status,
			"size":        wrapped.size,
			"duration_ms": duration.Milliseconds(),
		})

		if wrapped.status >= 500 {
			log.Error("request completed with server error")
		} else if wrapped.status >= 400 {
			log.Warn("request completed with client error")
		} else {
			log.Info("request completed")
		}
	})
}

// recoveryMiddleware recovers from panics and logs them.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log := logger.FromContext(r.Context())
				log.Error("panic recovered: %v", rec)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
