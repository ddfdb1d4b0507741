package rest

import (
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/bibbank/loanrisk/pkg/auth"
	"github.com/bibbank/loanrisk/pkg/observability"
)

// RouterConfig carries everything the HTTP router needs.
type RouterConfig struct {
	Handler    *Handler
	Health     *HealthHandler
	JWTService *auth.JWTService
	Resolver   applicantResolver
	Metrics    *observability.Metrics
	// RateLimit and Burst configure the global token bucket. Zero disables it.
	RateLimit float64
	Burst     int
	Logger    *slog.Logger
}

// NewRouter registers every route and wraps the mux in the shared middleware.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := cfg.Handler
	authn := auth.HTTPMiddleware(cfg.JWTService, nil)
	self := requireSelfOrAdmin(cfg.Resolver, logger)

	banking := func(fn http.HandlerFunc) http.Handler { return authn(self(fn)) }
	admin := func(fn http.HandlerFunc) http.Handler { return authn(requireAdmin(fn)) }

	mux := http.NewServeMux()

	// Banking: the applicant themself or an admin.
	mux.Handle("GET /v1/banking/fraud-score/{identifier}", banking(h.getFraudScore))
	mux.Handle("GET /v1/banking/credit-score/{identifier}", banking(h.getCreditScore))
	mux.Handle("POST /v1/banking/loan-application/{identifier}", banking(h.applyForLoan))
	mux.Handle("PUT /v1/banking/profile/{identifier}", banking(h.submitProfile))
	mux.Handle("GET /v1/banking/loan-decision/{identifier}", banking(h.getLoanDecision))

	// Admin.
	mux.Handle("POST /v1/admin/applicants", admin(h.registerApplicant))
	mux.Handle("POST /v1/admin/fraud-status/{identifier}", admin(h.setFraudStatus))
	mux.Handle("POST /v1/admin/credit-score/{identifier}", admin(h.setCreditScore))
	mux.Handle("PATCH /v1/admin/loan-application/{identifier}/review", admin(h.reviewLoanApplication))
	mux.Handle("POST /v1/admin/risk-assessment/{identifier}", admin(h.assessRisk))
	mux.Handle("GET /v1/admin/loan-applications", admin(h.listLoanApplications))
	mux.Handle("GET /v1/admin/assessments", admin(h.listRiskAssessments))
	mux.Handle("GET /v1/admin/loans/active", admin(h.listActiveLoans))

	// Operations.
	if cfg.Health != nil {
		cfg.Health.RegisterRoutes(mux)
	}
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	var handler http.Handler = mux
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		handler = rateLimitMiddleware(rate.NewLimiter(rate.Limit(cfg.RateLimit), burst))(handler)
	}
	return loggingMiddleware(logger, cfg.Metrics)(handler)
}
