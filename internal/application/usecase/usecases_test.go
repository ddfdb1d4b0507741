package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/event"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func TestRegisterApplicant_Success(t *testing.T) {
	f := newFixture()
	uc := usecase.NewRegisterApplicantUseCase(f.workflow)

	resp, err := uc.Execute(context.Background(), dto.RegisterApplicantRequest{
		Email: "Ada@Example.com",
		Name:  "Ada",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "ada@example.com", resp.Email)
	assert.Equal(t, model.DefaultCreditScore, resp.CreditScore)
	assert.Equal(t, "none", resp.LoanDetails.Status)
	assert.Equal(t, []string{event.TypeApplicantRegistered}, f.repo.eventTypes())
}

func TestRegisterApplicant_DuplicateEmail(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "ada"}))
	uc := usecase.NewRegisterApplicantUseCase(f.workflow)

	_, err := uc.Execute(context.Background(), dto.RegisterApplicantRequest{Email: "ada@example.com", Name: "Ada"})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "email already taken")
	assert.Empty(t, f.repo.saved)
}

func TestRegisterApplicant_InvalidRequest(t *testing.T) {
	f := newFixture()
	_, err := usecase.NewRegisterApplicantUseCase(f.workflow).Execute(context.Background(), dto.RegisterApplicantRequest{Email: "nope"})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, f.repo.saved)
}

func TestSubmitProfile_Success(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "sam", noProfile: true}))
	uc := usecase.NewSubmitProfileUseCase(f.workflow)

	resp, err := uc.Execute(context.Background(), dto.SubmitProfileRequest{
		Identifier:       "sam",
		Address:          &dto.AddressDTO{Street: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701"},
		EmploymentStatus: "self-employed",
		MonthlyIncome:    amount(4000),
		MonthlyDebt:      amount(800),
	})
	require.NoError(t, err)

	assert.Equal(t, "self-employed", resp.EmploymentStatus)
	require.NotNil(t, resp.Address)
	assert.Equal(t, "62701", resp.Address.ZipCode)
	assert.True(t, decimal.NewFromInt(4000).Equal(resp.MonthlyIncome))
	assert.Equal(t, []string{event.TypeProfileSubmitted}, f.repo.eventTypes())
}

func TestSubmitProfile_MissingAddress(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "sam", noProfile: true}))

	_, err := usecase.NewSubmitProfileUseCase(f.workflow).Execute(context.Background(), dto.SubmitProfileRequest{
		Identifier:       "sam",
		EmploymentStatus: "employed",
		MonthlyIncome:    amount(4000),
		MonthlyDebt:      amount(800),
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, f.repo.saved)
}

func TestApplyForLoan_Success(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "penny", creditScore: 680, income: 6250, debt: 2500}))

	resp, err := usecase.NewApplyForLoanUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ApplyForLoanRequest{
		Identifier: "penny",
		Amount:     amount(10000),
		Purpose:    "home improvement",
	})
	require.NoError(t, err)

	assert.Equal(t, "penny", resp.UserID)
	assert.Equal(t, "pending_assessment", resp.Status)
	assert.NotEmpty(t, resp.Message)
	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, valueobject.LoanStatusPendingAssessment, f.repo.saved[0].LoanStatus())
	assert.Equal(t, []string{event.TypeLoanApplied}, f.repo.eventTypes())
}

func TestApplyForLoan_AlreadyPending(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "penny", income: 100, status: valueobject.LoanStatusPendingReview}))

	_, err := usecase.NewApplyForLoanUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ApplyForLoanRequest{
		Identifier: "penny", Amount: amount(1000), Purpose: "car",
	})
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Empty(t, f.repo.saved)
	assert.Empty(t, f.repo.events)
}

func TestApplyForLoan_NonPositiveAmount(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "penny", income: 100}))

	_, err := usecase.NewApplyForLoanUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ApplyForLoanRequest{
		Identifier: "penny", Amount: amount(0), Purpose: "car",
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, f.locker.keys)
}

func TestAssessRisk_Outcomes(t *testing.T) {
	tests := []struct {
		name           string
		seed           seed
		wantStatus     string
		wantRec        string
		wantRisk       string
		wantDTI        string
		wantFlags      []string
		wantEventTypes []string
	}{
		{
			name:           "clean profile is approved",
			seed:           seed{id: "a", creditScore: 720, income: 10000, debt: 1000, status: valueobject.LoanStatusPendingAssessment},
			wantStatus:     "approved",
			wantRec:        "proceed",
			wantRisk:       "low",
			wantDTI:        "10",
			wantFlags:      []string{},
			wantEventTypes: []string{event.TypeRiskAssessed, event.TypeLoanApproved},
		},
		{
			name:           "borderline dti is referred",
			seed:           seed{id: "b", creditScore: 680, income: 6250, debt: 2500, status: valueobject.LoanStatusPendingAssessment},
			wantStatus:     "pending_review",
			wantRec:        "proceed_with_caution",
			wantRisk:       "medium",
			wantDTI:        "40",
			wantFlags:      []string{},
			wantEventTypes: []string{event.TypeRiskAssessed, event.TypeLoanReferredForReview},
		},
		{
			name:           "low credit score is declined",
			seed:           seed{id: "c", creditScore: 550, income: 10000, debt: 1000, status: valueobject.LoanStatusPendingAssessment},
			wantStatus:     "declined",
			wantRec:        "deny",
			wantRisk:       "high",
			wantDTI:        "10",
			wantFlags:      []string{"low_credit_score"},
			wantEventTypes: []string{event.TypeRiskAssessed, event.TypeLoanDeclined},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(seedApplicant(tt.seed))

			resp, err := usecase.NewAssessRiskUseCase(f.workflow, f.sm).Execute(context.Background(), dto.IdentifierRequest{Identifier: tt.seed.id})
			require.NoError(t, err)

			assert.Equal(t, tt.seed.id, resp.UserID)
			assert.Equal(t, tt.wantStatus, resp.LoanStatus)
			assert.Equal(t, tt.wantRec, resp.Recommendation)
			assert.Equal(t, tt.wantRisk, resp.RiskLevel)
			assert.Equal(t, tt.wantDTI, resp.Assessment.DTIRatio.String())
			assert.Equal(t, tt.wantFlags, resp.Assessment.FraudFlags)
			assert.Equal(t, tt.wantEventTypes, f.repo.eventTypes())

			stored, err := f.repo.FindByID(context.Background(), tt.seed.id)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.LoanStatus().String())
			ra, ok := stored.RiskAssessment()
			require.True(t, ok)
			assert.Equal(t, tt.wantRec, ra.Recommendation.String())
		})
	}
}

func TestAssessRisk_NotPending(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "a", creditScore: 720, income: 10000, debt: 1000}))

	_, err := usecase.NewAssessRiskUseCase(f.workflow, f.sm).Execute(context.Background(), dto.IdentifierRequest{Identifier: "a"})
	assert.ErrorIs(t, err, model.ErrInvalidState)
	assert.Empty(t, f.repo.saved)
}

func TestReviewLoanApplication(t *testing.T) {
	t.Run("approves referred loan", func(t *testing.T) {
		f := newFixture(seedApplicant(seed{
			id: "r", creditScore: 680, income: 6250, debt: 2500,
			status: valueobject.LoanStatusPendingReview, rec: valueobject.RecommendationProceedWithCaution,
		}))

		resp, err := usecase.NewReviewLoanApplicationUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ReviewLoanRequest{
			Identifier: "r", Decision: "approved",
		})
		require.NoError(t, err)

		assert.Equal(t, "approved", resp.Status)
		assert.Equal(t, "car", resp.Purpose)
		assert.Equal(t, []string{event.TypeLoanReviewed, event.TypeLoanApproved}, f.repo.eventTypes())
	})

	t.Run("rejects review outside pending_review", func(t *testing.T) {
		f := newFixture(seedApplicant(seed{id: "r", income: 100, status: valueobject.LoanStatusApproved}))

		_, err := usecase.NewReviewLoanApplicationUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ReviewLoanRequest{
			Identifier: "r", Decision: "declined",
		})
		assert.ErrorIs(t, err, model.ErrInvalidState)
		assert.Empty(t, f.repo.saved)
	})

	t.Run("rejects unknown decision", func(t *testing.T) {
		f := newFixture(seedApplicant(seed{id: "r", income: 100, status: valueobject.LoanStatusPendingReview}))

		_, err := usecase.NewReviewLoanApplicationUseCase(f.workflow, f.sm).Execute(context.Background(), dto.ReviewLoanRequest{
			Identifier: "r", Decision: "pending_review",
		})
		assert.ErrorIs(t, err, model.ErrValidation)
	})
}

func TestAdminScores(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "s", creditScore: 550, income: 100}))
	ctx := context.Background()

	credit, err := usecase.NewSetCreditScoreUseCase(f.workflow).Execute(ctx, dto.SetCreditScoreRequest{Identifier: "s@example.com", CreditScore: 810})
	require.NoError(t, err)
	assert.Equal(t, dto.CreditScoreResponse{UserID: "s", CreditScore: 810}, credit)

	fraud, err := usecase.NewSetFraudStatusUseCase(f.workflow).Execute(ctx, dto.SetFraudStatusRequest{Identifier: "s", Status: "high"})
	require.NoError(t, err)
	assert.Equal(t, dto.FraudScoreResponse{UserID: "s", FraudStatus: "high"}, fraud)

	gotCredit, err := usecase.NewGetCreditScoreUseCase(f.repo).Execute(ctx, dto.IdentifierRequest{Identifier: "s"})
	require.NoError(t, err)
	assert.Equal(t, 810, gotCredit.CreditScore)

	gotFraud, err := usecase.NewGetFraudScoreUseCase(f.repo).Execute(ctx, dto.IdentifierRequest{Identifier: "s"})
	require.NoError(t, err)
	assert.Equal(t, "high", gotFraud.FraudStatus)

	assert.Equal(t, []string{event.TypeCreditScoreSet, event.TypeFraudStatusSet}, f.repo.eventTypes())
}

func TestSetCreditScore_OutOfRange(t *testing.T) {
	f := newFixture(seedApplicant(seed{id: "s", income: 100}))

	_, err := usecase.NewSetCreditScoreUseCase(f.workflow).Execute(context.Background(), dto.SetCreditScoreRequest{Identifier: "s", CreditScore: 900})
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, f.repo.saved)
}

func TestGetLoanDecision(t *testing.T) {
	f := newFixture(
		seedApplicant(seed{id: "d", income: 100, status: valueobject.LoanStatusDeclined, rec: valueobject.RecommendationDeny}),
		seedApplicant(seed{id: "n", income: 100}),
	)
	uc := usecase.NewGetLoanDecisionUseCase(f.repo)

	resp, err := uc.Execute(context.Background(), dto.IdentifierRequest{Identifier: "d"})
	require.NoError(t, err)
	assert.Equal(t, "declined", resp.Status)
	assert.Equal(t, "deny", resp.Recommendation)
	require.NotNil(t, resp.AssessedDate)
	assert.True(t, past.Equal(*resp.AssessedDate))

	resp, err = uc.Execute(context.Background(), dto.IdentifierRequest{Identifier: "n"})
	require.NoError(t, err)
	assert.Equal(t, "none", resp.Status)
	assert.Empty(t, resp.Recommendation)
	assert.Nil(t, resp.AssessedDate)
}
