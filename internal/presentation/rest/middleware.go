package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/pkg/auth"
	"github.com/bibbank/loanrisk/pkg/observability"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware logs every request and records it in metrics. It must
// wrap the mux directly so the matched pattern is visible after dispatch.
func loggingMiddleware(logger *slog.Logger, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)
			metrics.ObserveHTTP(r.Method, route, rw.statusCode, elapsed)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"route", route,
				"status", rw.statusCode,
				"duration_ms", elapsed.Milliseconds(),
				"remote_addr", r.RemoteAddr,
			)
		})
	}
}

// rateLimitMiddleware rejects requests beyond the limiter's budget.
func rateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeStatus(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// applicantResolver turns an identifier (ID or email) into an applicant.
type applicantResolver interface {
	FindByIdentifier(ctx context.Context, identifier string) (model.Applicant, error)
}

// requireAdmin lets through only callers holding the admin role.
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.ClaimsFromContext(r.Context())
		if !ok || !claims.HasRole(auth.RoleAdmin) {
			writeStatus(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireSelfOrAdmin lets through admins and the applicant named by the
// {identifier} path segment. Unknown applicants look the same as foreign
// ones to non-admin callers.
func requireSelfOrAdmin(resolver applicantResolver, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := auth.ClaimsFromContext(r.Context())
			if !ok {
				writeStatus(w, http.StatusUnauthorized, "missing credentials")
				return
			}
			if claims.HasRole(auth.RoleAdmin) {
				next.ServeHTTP(w, r)
				return
			}

			a, err := resolver.FindByIdentifier(r.Context(), r.PathValue("identifier"))
			switch {
			case errors.Is(err, model.ErrNotFound):
				writeStatus(w, http.StatusForbidden, "forbidden")
				return
			case err != nil:
				writeError(w, r, logger, err)
				return
			case !claims.CanActFor(a.ID()):
				writeStatus(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
