package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
)

// RegisterApplicantUseCase creates applicant records. Stands in for the user
// subsystem that owns sign-up in a full deployment.
type RegisterApplicantUseCase struct {
	workflow *ApplicantWorkflow
}

// NewRegisterApplicantUseCase wires dependencies.
func NewRegisterApplicantUseCase(workflow *ApplicantWorkflow) *RegisterApplicantUseCase {
	return &RegisterApplicantUseCase{workflow: workflow}
}

// Execute validates the request, rejects duplicate emails and persists the applicant.
func (uc *RegisterApplicantUseCase) Execute(ctx context.Context, req dto.RegisterApplicantRequest) (dto.ApplicantResponse, error) {
	ctx, span := tracer.Start(ctx, "usecase.RegisterApplicant")
	defer span.End()

	if err := dto.Validate(req); err != nil {
		return dto.ApplicantResponse{}, err
	}

	_, err := uc.workflow.repo.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return dto.ApplicantResponse{}, &model.ValidationError{Reason: "email already taken"}
	case !errors.Is(err, model.ErrNotFound):
		return dto.ApplicantResponse{}, fmt.Errorf("check email: %w", err)
	}

	a, err := model.NewApplicant(req.Email, req.Name, uc.workflow.now())
	if err != nil {
		return dto.ApplicantResponse{}, err
	}
	if err := uc.workflow.commit(ctx, a); err != nil {
		return dto.ApplicantResponse{}, err
	}

	uc.workflow.logger.Info("applicant registered", "applicant_id", a.ID())
	return toApplicantResponse(a), nil
}
