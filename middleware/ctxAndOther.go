package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"deliciasmz/logging"
	"deliciasmz/models"
	"deliciasmz/utils"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

// Verifier turns a bearer token into a session.
type Verifier interface {
	Verify(ctx context.Context, token string) (models.Session, error)
}

type Auth struct {
	Verifier Verifier
}

func bearer(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authenticate rejects requests without a valid session.
func (a *Auth) Authenticate(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token := bearer(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Faça login para continuar.")
			return
		}
		sess, err := a.Verifier.Verify(r.Context(), token)
		if err != nil {
			utils.RespondWithErr(w, err)
			return
		}
		h(w, r.WithContext(utils.WithSession(r.Context(), sess)), ps)
	}
}

// OptionalAuth attaches the session when a valid token is present and
// otherwise lets the request through anonymously.
func (a *Auth) OptionalAuth(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if token := bearer(r); token != "" {
			if sess, err := a.Verifier.Verify(r.Context(), token); err == nil {
				r = r.WithContext(utils.WithSession(r.Context(), sess))
			}
		}
		h(w, r, ps)
	}
}

// WithDevice reads the X-Device-ID header into the request context.
func WithDevice(h httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		if id := strings.TrimSpace(r.Header.Get("X-Device-ID")); id != "" {
			r = r.WithContext(utils.WithDeviceID(r.Context(), id))
		}
		h(w, r, ps)
	}
}

func RecoverMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	log = logging.OrNop(log)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("🔥 Panic recovered", zap.Any("panic", err), zap.String("path", r.URL.Path))
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware logs one line per request.
func LoggingMiddleware(log *zap.Logger, next http.Handler) http.Handler {
	log = logging.OrNop(log)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Duration("took", time.Since(start)))
	})
}

func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}
