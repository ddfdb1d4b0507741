package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/application/usecase"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

func TestListLoanApplications_Defaults(t *testing.T) {
	repo := newMockRepo()

	_, err := usecase.NewListLoanApplicationsUseCase(repo).Execute(context.Background(), dto.ListRequest{})
	require.NoError(t, err)

	q := repo.lastQuery
	assert.Equal(t, 10, q.Limit)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, port.SortByCreatedAt, q.SortBy)
	assert.True(t, q.SortDesc)
	assert.NotContains(t, q.Statuses, valueobject.LoanStatusNone)
	assert.Len(t, q.Statuses, 4)
}

func TestListLoanApplications_QueryParsing(t *testing.T) {
	tests := []struct {
		name         string
		req          dto.ListRequest
		wantStatuses []valueobject.LoanStatus
		wantSort     port.SortField
		wantDesc     bool
		wantErr      bool
	}{
		{
			name:         "status filter",
			req:          dto.ListRequest{Status: "approved"},
			wantStatuses: []valueobject.LoanStatus{valueobject.LoanStatusApproved},
			wantSort:     port.SortByCreatedAt,
			wantDesc:     true,
		},
		{
			name:         "ascending without order suffix",
			req:          dto.ListRequest{Status: "declined", SortBy: "creditScore"},
			wantStatuses: []valueobject.LoanStatus{valueobject.LoanStatusDeclined},
			wantSort:     port.SortByCreditScore,
			wantDesc:     false,
		},
		{
			name:         "descending by name",
			req:          dto.ListRequest{Status: "pending_review", SortBy: "name:desc"},
			wantStatuses: []valueobject.LoanStatus{valueobject.LoanStatusPendingReview},
			wantSort:     port.SortByName,
			wantDesc:     true,
		},
		{
			name:    "pending_assessment is not a filter here",
			req:     dto.ListRequest{Status: "pending_assessment"},
			wantErr: true,
		},
		{
			name:    "unknown sort field",
			req:     dto.ListRequest{SortBy: "password:asc"},
			wantErr: true,
		},
		{
			name:    "limit above maximum",
			req:     dto.ListRequest{Limit: 1000},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepo()

			_, err := usecase.NewListLoanApplicationsUseCase(repo).Execute(context.Background(), tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, model.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatuses, repo.lastQuery.Statuses)
			assert.Equal(t, tt.wantSort, repo.lastQuery.SortBy)
			assert.Equal(t, tt.wantDesc, repo.lastQuery.SortDesc)
		})
	}
}

func TestListRiskAssessments_AllowsPendingAssessment(t *testing.T) {
	repo := newMockRepo()

	_, err := usecase.NewListRiskAssessmentsUseCase(repo).Execute(context.Background(), dto.ListRequest{Status: "pending_assessment"})
	require.NoError(t, err)
	assert.Equal(t, []valueobject.LoanStatus{valueobject.LoanStatusPendingAssessment}, repo.lastQuery.Statuses)
}

func TestListActiveLoans_IgnoresStatusFilter(t *testing.T) {
	repo := newMockRepo()

	_, err := usecase.NewListActiveLoansUseCase(repo).Execute(context.Background(), dto.ListRequest{Status: "declined"})
	require.NoError(t, err)
	assert.Equal(t, []valueobject.LoanStatus{valueobject.LoanStatusApproved}, repo.lastQuery.Statuses)
}

func TestListLoanApplications_Pagination(t *testing.T) {
	repo := newMockRepo()
	a := seedApplicant(seed{id: "p", income: 100, status: valueobject.LoanStatusApproved})
	repo.listFunc = func(_ context.Context, q port.ListQuery) (port.ApplicantPage, error) {
		return port.NewApplicantPage([]model.Applicant{a}, q, 21), nil
	}

	resp, err := usecase.NewListLoanApplicationsUseCase(repo).Execute(context.Background(), dto.ListRequest{Limit: 10, Page: 3})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Page)
	assert.Equal(t, 10, resp.Limit)
	assert.Equal(t, 3, resp.TotalPages)
	assert.Equal(t, 21, resp.TotalResults)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "p", resp.Results[0].ID)
	assert.Equal(t, 20, repo.lastQuery.Offset())
}
