package port

import (
	"context"
	"errors"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Repository port (driven/secondary adapter)
// ---------------------------------------------------------------------------

// ApplicantRepository persists and retrieves applicants.
//
// Save inserts new applicants and updates existing ones with optimistic
// locking on Version; a lost race returns model.ErrConcurrentModification.
// The applicant's pending domain events are stored in the same transaction
// so a committed state change never loses its events.
// Finders return *model.NotFoundError when nothing matches.
type ApplicantRepository interface {
	Save(ctx context.Context, a model.Applicant) error
	FindByID(ctx context.Context, id string) (model.Applicant, error)
	FindByEmail(ctx context.Context, email string) (model.Applicant, error)
	// FindByIdentifier accepts either an applicant ID or an email address.
	FindByIdentifier(ctx context.Context, identifier string) (model.Applicant, error)
	List(ctx context.Context, q ListQuery) (ApplicantPage, error)
}

// SortField names a column applicants can be ordered by.
type SortField string

const (
	SortByCreatedAt   SortField = "created_at"
	SortByUpdatedAt   SortField = "updated_at"
	SortByCreditScore SortField = "credit_score"
	SortByName        SortField = "name"
	SortByEmail       SortField = "email"
)

// ListQuery selects a page of applicants whose loan status is in Statuses.
type ListQuery struct {
	Statuses []valueobject.LoanStatus
	SortBy   SortField
	SortDesc bool
	Limit    int
	Page     int
}

// Offset returns the number of rows to skip for the requested page.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// ApplicantPage is one page of a List result.
type ApplicantPage struct {
	Applicants   []model.Applicant
	Page         int
	Limit        int
	TotalPages   int
	TotalResults int
}

// NewApplicantPage fills in TotalPages from total and limit.
func NewApplicantPage(applicants []model.Applicant, q ListQuery, total int) ApplicantPage {
	pages := 0
	if q.Limit > 0 {
		pages = (total + q.Limit - 1) / q.Limit
	}
	return ApplicantPage{
		Applicants:   applicants,
		Page:         q.Page,
		Limit:        q.Limit,
		TotalPages:   pages,
		TotalResults: total,
	}
}

// ---------------------------------------------------------------------------
// Locking port
// ---------------------------------------------------------------------------

// ErrLockNotAcquired is returned when another request holds the applicant lock.
var ErrLockNotAcquired = errors.New("applicant is locked by another request")

// ApplicantLocker serialises read-modify-write cycles per applicant.
type ApplicantLocker interface {
	// Lock acquires the lock for key and returns the function that releases it.
	Lock(ctx context.Context, key string) (unlock func(context.Context) error, err error)
}
