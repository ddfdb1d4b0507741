package usecase

import (
	"context"
	"time"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

// AssessRiskUseCase runs the automated assessment for a pending application.
type AssessRiskUseCase struct {
	workflow     *ApplicantWorkflow
	stateMachine *service.LoanStateMachine
}

// NewAssessRiskUseCase wires dependencies.
func NewAssessRiskUseCase(workflow *ApplicantWorkflow, stateMachine *service.LoanStateMachine) *AssessRiskUseCase {
	return &AssessRiskUseCase{workflow: workflow, stateMachine: stateMachine}
}

// Execute classifies the applicant and moves the loan to approved, declined
// or pending_review.
func (uc *AssessRiskUseCase) Execute(ctx context.Context, req dto.IdentifierRequest) (dto.AssessmentResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.AssessmentResponse{}, err
	}

	var result service.AssessmentResult
	a, err := uc.workflow.mutate(ctx, "AssessRisk", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		next, r, err := uc.stateMachine.RunAssessment(a, now)
		result = r
		return next, err
	})
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	uc.workflow.metrics.ObserveAssessment(result.Recommendation.String())
	uc.workflow.logger.Info("risk assessed",
		"applicant_id", a.ID(),
		"risk_level", result.RiskLevel.String(),
		"recommendation", result.Recommendation.String(),
		"loan_status", a.LoanStatus().String(),
	)
	return toAssessmentResponse(a, result), nil
}
