package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/bibbank/loanrisk/internal/application/dto"
	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

const (
	defaultPageLimit = 10
	defaultPage      = 1
)

var sortFields = map[string]port.SortField{
	"createdAt":   port.SortByCreatedAt,
	"created_at":  port.SortByCreatedAt,
	"updatedAt":   port.SortByUpdatedAt,
	"updated_at":  port.SortByUpdatedAt,
	"creditScore": port.SortByCreditScore,
	"name":        port.SortByName,
	"email":       port.SortByEmail,
}

// listScope is the set of loan statuses a listing use case covers and the
// subset a caller may narrow it to.
type listScope struct {
	op         string
	base       []valueobject.LoanStatus
	filterable []valueobject.LoanStatus
}

var (
	loanApplicationsScope = listScope{
		op: "ListLoanApplications",
		base: []valueobject.LoanStatus{
			valueobject.LoanStatusPendingAssessment,
			valueobject.LoanStatusPendingReview,
			valueobject.LoanStatusApproved,
			valueobject.LoanStatusDeclined,
		},
		filterable: []valueobject.LoanStatus{
			valueobject.LoanStatusPendingReview,
			valueobject.LoanStatusApproved,
			valueobject.LoanStatusDeclined,
		},
	}
	riskAssessmentsScope = listScope{
		op: "ListRiskAssessments",
		base: []valueobject.LoanStatus{
			valueobject.LoanStatusPendingAssessment,
			valueobject.LoanStatusPendingReview,
			valueobject.LoanStatusApproved,
			valueobject.LoanStatusDeclined,
		},
		filterable: []valueobject.LoanStatus{
			valueobject.LoanStatusPendingAssessment,
			valueobject.LoanStatusPendingReview,
			valueobject.LoanStatusApproved,
			valueobject.LoanStatusDeclined,
		},
	}
	activeLoansScope = listScope{
		op:   "ListActiveLoans",
		base: []valueobject.LoanStatus{valueobject.LoanStatusApproved},
	}
)

// ListApplicantsUseCase pages through applicants in one listing scope.
type ListApplicantsUseCase struct {
	repo  port.ApplicantRepository
	scope listScope
}

// NewListLoanApplicationsUseCase lists every applicant that has applied,
// optionally narrowed to pending_review, approved or declined.
func NewListLoanApplicationsUseCase(repo port.ApplicantRepository) *ListApplicantsUseCase {
	return &ListApplicantsUseCase{repo: repo, scope: loanApplicationsScope}
}

// NewListRiskAssessmentsUseCase lists applications awaiting or past assessment.
func NewListRiskAssessmentsUseCase(repo port.ApplicantRepository) *ListApplicantsUseCase {
	return &ListApplicantsUseCase{repo: repo, scope: riskAssessmentsScope}
}

// NewListActiveLoansUseCase lists approved loans. Status filters are ignored.
func NewListActiveLoansUseCase(repo port.ApplicantRepository) *ListApplicantsUseCase {
	return &ListApplicantsUseCase{repo: repo, scope: activeLoansScope}
}

func (uc *ListApplicantsUseCase) Execute(ctx context.Context, req dto.ListRequest) (dto.PageResponse, error) {
	ctx, span := tracer.Start(ctx, "usecase."+uc.scope.op)
	defer span.End()

	q, err := uc.scope.query(req)
	if err != nil {
		return dto.PageResponse{}, err
	}

	page, err := uc.repo.List(ctx, q)
	if err != nil {
		return dto.PageResponse{}, fmt.Errorf("list applicants: %w", err)
	}
	return toPageResponse(page), nil
}

func (s listScope) query(req dto.ListRequest) (port.ListQuery, error) {
	if err := dto.Validate(req); err != nil {
		return port.ListQuery{}, err
	}

	q := port.ListQuery{
		Statuses: s.base,
		SortBy:   port.SortByCreatedAt,
		SortDesc: true,
		Limit:    req.Limit,
		Page:     req.Page,
	}
	if q.Limit == 0 {
		q.Limit = defaultPageLimit
	}
	if q.Page == 0 {
		q.Page = defaultPage
	}

	if req.Status != "" && len(s.filterable) > 0 {
		status, err := valueobject.NewLoanStatus(req.Status)
		if err != nil || !slices.Contains(s.filterable, status) {
			return port.ListQuery{}, &model.ValidationError{Reason: fmt.Sprintf("status filter %q is not allowed here", req.Status)}
		}
		q.Statuses = []valueobject.LoanStatus{status}
	}

	if req.SortBy != "" {
		field, order, _ := strings.Cut(req.SortBy, ":")
		col, ok := sortFields[field]
		if !ok {
			return port.ListQuery{}, &model.ValidationError{Reason: fmt.Sprintf("cannot sort by %q", field)}
		}
		q.SortBy = col
		q.SortDesc = order == "desc"
	}

	return q, nil
}
