package usecase

import (
	"context"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/port"
)

// GetLoanDecisionUseCase reports the current loan status and last recommendation.
type GetLoanDecisionUseCase struct {
	repo port.ApplicantRepository
}

// NewGetLoanDecisionUseCase wires dependencies.
func NewGetLoanDecisionUseCase(repo port.ApplicantRepository) *GetLoanDecisionUseCase {
	return &GetLoanDecisionUseCase{repo: repo}
}

func (uc *GetLoanDecisionUseCase) Execute(ctx context.Context, req dto.IdentifierRequest) (dto.LoanDecisionResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.LoanDecisionResponse{}, err
	}
	a, err := find(ctx, uc.repo, "GetLoanDecision", req.Identifier)
	if err != nil {
		return dto.LoanDecisionResponse{}, err
	}
	return toLoanDecisionResponse(a), nil
}

// GetCreditScoreUseCase returns an applicant's credit score.
type GetCreditScoreUseCase struct {
	repo port.ApplicantRepository
}

// NewGetCreditScoreUseCase wires dependencies.
func NewGetCreditScoreUseCase(repo port.ApplicantRepository) *GetCreditScoreUseCase {
	return &GetCreditScoreUseCase{repo: repo}
}

func (uc *GetCreditScoreUseCase) Execute(ctx context.Context, req dto.IdentifierRequest) (dto.CreditScoreResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.CreditScoreResponse{}, err
	}
	a, err := find(ctx, uc.repo, "GetCreditScore", req.Identifier)
	if err != nil {
		return dto.CreditScoreResponse{}, err
	}
	return dto.CreditScoreResponse{UserID: a.ID(), CreditScore: a.CreditScore()}, nil
}

// GetFraudScoreUseCase returns an applicant's fraud status.
type GetFraudScoreUseCase struct {
	repo port.ApplicantRepository
}

// NewGetFraudScoreUseCase wires dependencies.
func NewGetFraudScoreUseCase(repo port.ApplicantRepository) *GetFraudScoreUseCase {
	return &GetFraudScoreUseCase{repo: repo}
}

func (uc *GetFraudScoreUseCase) Execute(ctx context.Context, req dto.IdentifierRequest) (dto.FraudScoreResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.FraudScoreResponse{}, err
	}
	a, err := find(ctx, uc.repo, "GetFraudScore", req.Identifier)
	if err != nil {
		return dto.FraudScoreResponse{}, err
	}
	return dto.FraudScoreResponse{UserID: a.ID(), FraudStatus: a.FraudStatus().String()}, nil
}
