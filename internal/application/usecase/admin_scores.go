package usecase

import (
	"context"
	"time"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// SetCreditScoreUseCase records a credit score supplied by an administrator.
type SetCreditScoreUseCase struct {
	workflow *ApplicantWorkflow
}

// NewSetCreditScoreUseCase wires dependencies.
func NewSetCreditScoreUseCase(workflow *ApplicantWorkflow) *SetCreditScoreUseCase {
	return &SetCreditScoreUseCase{workflow: workflow}
}

func (uc *SetCreditScoreUseCase) Execute(ctx context.Context, req dto.SetCreditScoreRequest) (dto.CreditScoreResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.CreditScoreResponse{}, err
	}
	a, err := uc.workflow.mutate(ctx, "SetCreditScore", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		return a.SetCreditScore(req.CreditScore, now)
	})
	if err != nil {
		return dto.CreditScoreResponse{}, err
	}
	return dto.CreditScoreResponse{UserID: a.ID(), CreditScore: a.CreditScore()}, nil
}

// SetFraudStatusUseCase records a fraud status supplied by an administrator.
type SetFraudStatusUseCase struct {
	workflow *ApplicantWorkflow
}

// NewSetFraudStatusUseCase wires dependencies.
func NewSetFraudStatusUseCase(workflow *ApplicantWorkflow) *SetFraudStatusUseCase {
	return &SetFraudStatusUseCase{workflow: workflow}
}

func (uc *SetFraudStatusUseCase) Execute(ctx context.Context, req dto.SetFraudStatusRequest) (dto.FraudScoreResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.FraudScoreResponse{}, err
	}
	status, err := valueobject.NewFraudStatus(req.Status)
	if err != nil {
		return dto.FraudScoreResponse{}, &model.ValidationError{Reason: err.Error()}
	}
	a, err := uc.workflow.mutate(ctx, "SetFraudStatus", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		return a.SetFraudStatus(status, now)
	})
	if err != nil {
		return dto.FraudScoreResponse{}, err
	}
	return dto.FraudScoreResponse{UserID: a.ID(), FraudStatus: a.FraudStatus().String()}, nil
}
