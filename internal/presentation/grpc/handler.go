package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/pkg/auth"
)

// ApplicantResolver turns an identifier (ID or email) into an applicant.
type ApplicantResolver interface {
	FindByIdentifier(ctx context.Context, identifier string) (model.Applicant, error)
}

// LoanRiskHandler is the gRPC handler for loan risk operations.
type LoanRiskHandler struct {
	UnimplementedLoanRiskServiceServer

	apply       *usecase.ApplyForLoanUseCase
	assess      *usecase.AssessRiskUseCase
	review      *usecase.ReviewLoanApplicationUseCase
	getDecision *usecase.GetLoanDecisionUseCase
	resolver    ApplicantResolver
	logger      *slog.Logger
}

// NewLoanRiskHandler creates a new handler with all use-case dependencies.
func NewLoanRiskHandler(
	apply *usecase.ApplyForLoanUseCase,
	assess *usecase.AssessRiskUseCase,
	review *usecase.ReviewLoanApplicationUseCase,
	getDecision *usecase.GetLoanDecisionUseCase,
	resolver ApplicantResolver,
	logger *slog.Logger,
) *LoanRiskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoanRiskHandler{
		apply:       apply,
		assess:      assess,
		review:      review,
		getDecision: getDecision,
		resolver:    resolver,
		logger:      logger,
	}
}

// ApplyForLoan submits a loan application for the caller or, for admins, anyone.
func (h *LoanRiskHandler) ApplyForLoan(ctx context.Context, req *ApplyForLoanRequest) (*ApplyForLoanResponse, error) {
	if err := h.authorizeApplicant(ctx, req.Identifier); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid amount %q", req.Amount)
	}

	resp, err := h.apply.Execute(ctx, dto.ApplyForLoanRequest{
		Identifier: req.Identifier,
		Amount:     &amount,
		Purpose:    req.Purpose,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &ApplyForLoanResponse{UserID: resp.UserID, Status: resp.Status, Message: resp.Message}, nil
}

// AssessRisk runs the risk assessment. Admin only.
func (h *LoanRiskHandler) AssessRisk(ctx context.Context, req *AssessRiskRequest) (*AssessRiskResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	resp, err := h.assess.Execute(ctx, dto.IdentifierRequest{Identifier: req.Identifier})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &AssessRiskResponse{
		UserID:           resp.UserID,
		RiskLevel:        resp.RiskLevel,
		Recommendation:   resp.Recommendation,
		LoanStatus:       resp.LoanStatus,
		CreditScoreCheck: resp.Assessment.CreditScoreCheck,
		DTIRatioCheck:    resp.Assessment.DTIRatioCheck,
		DTIRatio:         resp.Assessment.DTIRatio.String(),
		FraudFlags:       resp.Assessment.FraudFlags,
		AssessedDate:     resp.AssessedDate.Format(time.RFC3339),
	}, nil
}

// ReviewLoanApplication records a manual decision. Admin only.
func (h *LoanRiskHandler) ReviewLoanApplication(ctx context.Context, req *ReviewLoanApplicationRequest) (*ReviewLoanApplicationResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return nil, err
	}

	resp, err := h.review.Execute(ctx, dto.ReviewLoanRequest{Identifier: req.Identifier, Decision: req.Decision})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &ReviewLoanApplicationResponse{Status: resp.Status, Amount: resp.Amount.String(), Purpose: resp.Purpose}, nil
}

// GetLoanDecision reports where an applicant's loan stands.
func (h *LoanRiskHandler) GetLoanDecision(ctx context.Context, req *GetLoanDecisionRequest) (*GetLoanDecisionResponse, error) {
	if err := h.authorizeApplicant(ctx, req.Identifier); err != nil {
		return nil, err
	}

	resp, err := h.getDecision.Execute(ctx, dto.IdentifierRequest{Identifier: req.Identifier})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	out := &GetLoanDecisionResponse{
		UserID:         resp.UserID,
		Status:         resp.Status,
		Amount:         resp.Amount.String(),
		Purpose:        resp.Purpose,
		Recommendation: resp.Recommendation,
	}
	if resp.AssessedDate != nil {
		out.AssessedDate = resp.AssessedDate.Format(time.RFC3339)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func requireAdmin(ctx context.Context) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}
	if !claims.HasRole(auth.RoleAdmin) {
		return status.Error(codes.PermissionDenied, "admin role required")
	}
	return nil
}

func (h *LoanRiskHandler) authorizeApplicant(ctx context.Context, identifier string) error {
	claims, ok := auth.ClaimsFromContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing credentials")
	}
	if claims.HasRole(auth.RoleAdmin) {
		return nil
	}
	a, err := h.resolver.FindByIdentifier(ctx, identifier)
	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.PermissionDenied, "forbidden")
	case err != nil:
		return h.toStatus(ctx, err)
	case !claims.CanActFor(a.ID()):
		return status.Error(codes.PermissionDenied, "forbidden")
	}
	return nil
}

// toStatus maps domain errors onto gRPC status codes.
func (h *LoanRiskHandler) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, model.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrInvalidState):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, model.ErrConcurrentModification), errors.Is(err, port.ErrLockNotAcquired):
		return status.Error(codes.Aborted, err.Error())
	default:
		h.logger.ErrorContext(ctx, "grpc request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
