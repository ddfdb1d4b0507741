package usecase

import (
	"context"
	"time"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// SubmitProfileUseCase replaces an applicant's financial profile.
type SubmitProfileUseCase struct {
	workflow *ApplicantWorkflow
}

// NewSubmitProfileUseCase wires dependencies.
func NewSubmitProfileUseCase(workflow *ApplicantWorkflow) *SubmitProfileUseCase {
	return &SubmitProfileUseCase{workflow: workflow}
}

// Execute validates and stores the profile. Allowed in any loan status.
func (uc *SubmitProfileUseCase) Execute(ctx context.Context, req dto.SubmitProfileRequest) (dto.ApplicantResponse, error) {
	if err := dto.Validate(req); err != nil {
		return dto.ApplicantResponse{}, err
	}

	profile, err := toProfile(req)
	if err != nil {
		return dto.ApplicantResponse{}, err
	}

	a, err := uc.workflow.mutate(ctx, "SubmitProfile", req.Identifier, func(a model.Applicant, now time.Time) (model.Applicant, error) {
		return a.SubmitProfile(profile, now)
	})
	if err != nil {
		return dto.ApplicantResponse{}, err
	}
	return toApplicantResponse(a), nil
}

func toProfile(req dto.SubmitProfileRequest) (model.Profile, error) {
	addr, err := valueobject.NewAddress(req.Address.Street, req.Address.City, req.Address.State, req.Address.ZipCode)
	if err != nil {
		return model.Profile{}, &model.ValidationError{Reason: err.Error()}
	}
	employment, err := valueobject.NewEmploymentStatus(req.EmploymentStatus)
	if err != nil {
		return model.Profile{}, &model.ValidationError{Reason: err.Error()}
	}
	return model.Profile{
		Address:          addr,
		EmploymentStatus: employment,
		MonthlyIncome:    *req.MonthlyIncome,
		MonthlyDebt:      *req.MonthlyDebt,
	}, nil
}
