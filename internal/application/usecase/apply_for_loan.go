package usecase

import (
	"context"
	"time"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/service"
)

const appliedMessage = "Your loan application has been submitted and is pending a risk assessment."

// ApplyForLoanUseCase puts an applicant's loan into the assessment queue.
type ApplyForLoanUseCase struct {
	workflow     *ApplicantWorkflow
	stateMachine *service.LoanStateMachine
}

// NewApplyForLoanUseCase wires dependencies.
func NewApplyForLoanUseCase(workflow *ApplicantWorkflow, stateMachine *service.LoanStateMachine) *ApplyForLoanUseCase {
	return &ApplyForLoanUseCase{workflow: workflow, stateMachine: stateMachine}
}

// Execute applies for a loan. Fails with a StateError while another
// application is pending or approved.
func (uc *ApplyForLoanUseCase) Execute(ctx context.Context, req dto.ApplyForLoanRequest) (dto.ApplyForLoanResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplyForLoanResponse{}, err
	}

	a, err := uc.workflow.mutate(ctx, "ApplyForLoan", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		return uc.stateMachine.Apply(a, *req.Amount, req.Purpose, now)
	})
	if err != nil {
		return dto.ApplyForLoanResponse{}, err
	}

	uc.workflow.logger.Info("loan application submitted",
		"applicant_id", a.ID(),
		"amount", a.Loan().Amount.String(),
	)
	return dto.ApplyForLoanResponse{
		UserID:  a.ID(),
		Status:  a.LoanStatus().String(),
		Message: appliedMessage,
	}, nil
}
