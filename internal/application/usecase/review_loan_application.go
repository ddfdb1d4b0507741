package usecase

import (
	"context"
	"time"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// ReviewLoanApplicationUseCase records an administrator's manual decision.
type ReviewLoanApplicationUseCase struct {
	workflow     *ApplicantWorkflow
	stateMachine *service.LoanStateMachine
}

// NewReviewLoanApplicationUseCase wires dependencies.
func NewReviewLoanApplicationUseCase(workflow *ApplicantWorkflow, stateMachine *service.LoanStateMachine) *ReviewLoanApplicationUseCase {
	return &ReviewLoanApplicationUseCase{workflow: workflow, stateMachine: stateMachine}
}

// Execute approves or declines an application referred for review.
func (uc *ReviewLoanApplicationUseCase) Execute(ctx context.Context, req dto.ReviewLoanRequest) (dto.LoanDetailsDTO, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanDetailsDTO{}, err
	}
	decision, err := valueobject.NewLoanStatus(req.Decision)
	if err != nil {
		return dto.LoanDetailsDTO{}, &model.ValidationError{Reason: err.Error()}
	}

	a, err := uc.workflow.mutate(ctx, "ReviewLoanApplication", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		return uc.stateMachine.ManualReview(a, decision, now)
	})
	if err != nil {
		return dto.LoanDetailsDTO{}, err
	}

	uc.workflow.logger.Info("loan application reviewed", "applicant_id", a.ID(), "decision", decision.String())
	loan := a.Loan()
	return dto.LoanDetailsDTO{Status: loan.Status.String(), Amount: loan.Amount, Purpose: loan.Purpose}, nil
}
