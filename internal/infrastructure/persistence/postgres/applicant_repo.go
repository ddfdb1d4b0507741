package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/loanrisk/internal/domain/model"
	"github.com/bibbank/loanrisk/internal/domain/port"
	"github.com/bibbank/loanrisk/internal/domain/valueobject"
	pgutil "github.com/bibbank/loanrisk/pkg/postgres"
)

const uniqueViolation = "23505"

const applicantColumns = `
	id, email, name, credit_score, employment_status,
	monthly_income, monthly_debt, fraud_status,
	address_street, address_city, address_state, address_zip_code,
	loan_status, loan_amount, loan_purpose,
	recommendation, assessed_date,
	version, created_at, updated_at`

// orderColumns whitelists ORDER BY targets; user input never reaches SQL text.
var orderColumns = map[port.SortField]string{
	port.SortByCreatedAt:   "created_at",
	port.SortByUpdatedAt:   "updated_at",
	port.SortByCreditScore: "credit_score",
	port.SortByName:        "name",
	port.SortByEmail:       "email",
}

// ApplicantRepo implements port.ApplicantRepository.
type ApplicantRepo struct {
	pool *pgxpool.Pool
}

// NewApplicantRepo creates a new repository backed by PostgreSQL.
func NewApplicantRepo(pool *pgxpool.Pool) *ApplicantRepo {
	return &ApplicantRepo{pool: pool}
}

// Save persists an applicant (upsert by ID with optimistic locking) and
// writes its pending domain events to the outbox in the same transaction.
// The stored version is bumped on every update and must match a.Version().
func (r *ApplicantRepo) Save(ctx context.Context, a model.Applicant) error {
	query := `
		INSERT INTO applicants (` + applicantColumns + `
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20)
		ON CONFLICT (id) DO UPDATE SET
			name              = EXCLUDED.name,
			credit_score      = EXCLUDED.credit_score,
			employment_status = EXCLUDED.employment_status,
			monthly_income    = EXCLUDED.monthly_income,
			monthly_debt      = EXCLUDED.monthly_debt,
			fraud_status      = EXCLUDED.fraud_status,
			address_street    = EXCLUDED.address_street,
			address_city      = EXCLUDED.address_city,
			address_state     = EXCLUDED.address_state,
			address_zip_code  = EXCLUDED.address_zip_code,
			loan_status       = EXCLUDED.loan_status,
			loan_amount       = EXCLUDED.loan_amount,
			loan_purpose      = EXCLUDED.loan_purpose,
			recommendation    = EXCLUDED.recommendation,
			assessed_date     = EXCLUDED.assessed_date,
			version           = applicants.version + 1,
			updated_at        = EXCLUDED.updated_at
		WHERE applicants.version = $18
	`
	s := a.Snapshot()

	var street, city, state, zip *string
	if s.Address != nil {
		street, city, state, zip = ptr(s.Address.Street()), ptr(s.Address.City()), ptr(s.Address.State()), ptr(s.Address.ZipCode())
	}
	var recommendation *string
	var assessedDate *time.Time
	if s.RiskAssessment != nil {
		recommendation = ptr(s.RiskAssessment.Recommendation.String())
		assessedDate = &s.RiskAssessment.AssessedDate
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, query,
			s.ID, s.Email, s.Name, s.CreditScore, s.EmploymentStatus.String(),
			s.MonthlyIncome, s.MonthlyDebt, s.FraudStatus.String(),
			street, city, state, zip,
			s.Loan.Status.String(), s.Loan.Amount, s.Loan.Purpose,
			recommendation, assessedDate,
			s.Version, s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return &model.ValidationError{Reason: "email already taken"}
			}
			return fmt.Errorf("save applicant: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("save applicant %s at version %d: %w", s.ID, s.Version, model.ErrConcurrentModification)
		}
		return insertOutbox(ctx, tx, a.DomainEvents())
	})
}

// FindByID retrieves a single applicant.
func (r *ApplicantRepo) FindByID(ctx context.Context, id string) (model.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE id = $1`
	return r.scanOne(ctx, id, query, id)
}

// FindByEmail retrieves a single applicant by case-insensitive email.
func (r *ApplicantRepo) FindByEmail(ctx context.Context, email string) (model.Applicant, error) {
	query := `SELECT ` + applicantColumns + ` FROM applicants WHERE LOWER(email) = LOWER($1)`
	return r.scanOne(ctx, email, query, email)
}

// FindByIdentifier treats a UUID-shaped identifier as an ID and anything
// else as an email address.
func (r *ApplicantRepo) FindByIdentifier(ctx context.Context, identifier string) (model.Applicant, error) {
	if _, err := uuid.Parse(identifier); err == nil {
		return r.FindByID(ctx, identifier)
	}
	return r.FindByEmail(ctx, identifier)
}

// List returns one page of applicants whose loan status is in q.Statuses.
// The count and the page are read in one transaction.
func (r *ApplicantRepo) List(ctx context.Context, q port.ListQuery) (port.ApplicantPage, error) {
	col, ok := orderColumns[q.SortBy]
	if !ok {
		col = orderColumns[port.SortByCreatedAt]
	}
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	statuses := make([]string, len(q.Statuses))
	for i, s := range q.Statuses {
		statuses[i] = s.String()
	}

	var (
		total      int
		applicants []model.Applicant
	)
	err := pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM applicants WHERE loan_status = ANY($1)`, statuses,
		).Scan(&total); err != nil {
			return fmt.Errorf("count applicants: %w", err)
		}

		query := fmt.Sprintf(`
			SELECT %s FROM applicants
			WHERE loan_status = ANY($1)
			ORDER BY %s %s, id ASC
			LIMIT $2 OFFSET $3`, applicantColumns, col, dir)
		var err error
		applicants, err = scanMany(ctx, tx, query, statuses, q.Limit, q.Offset())
		return err
	})
	if err != nil {
		return port.ApplicantPage{}, err
	}
	return port.NewApplicantPage(applicants, q, total), nil
}

// ---------------------------------------------------------------------------
// scan helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func (r *ApplicantRepo) scanOne(ctx context.Context, identifier, query string, args ...any) (model.Applicant, error) {
	a, err := scanApplicant(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Applicant{}, &model.NotFoundError{Identifier: identifier}
	}
	return a, err
}

func scanMany(ctx context.Context, q pgutil.Querier, query string, args ...any) ([]model.Applicant, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query applicants: %w", err)
	}
	defer rows.Close()

	var result []model.Applicant
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func scanApplicant(s scannable) (model.Applicant, error) {
	var (
		id, email, name            string
		creditScore                int
		employmentStr, fraudStr    string
		monthlyIncome, monthlyDebt decimal.Decimal
		street, city, state, zip   *string
		loanStatusStr, loanPurpose string
		loanAmount                 decimal.Decimal
		recommendationStr          *string
		assessedDate               *time.Time
		version                    int
		createdAt, updatedAt       time.Time
	)

	err := s.Scan(
		&id, &email, &name, &creditScore, &employmentStr,
		&monthlyIncome, &monthlyDebt, &fraudStr,
		&street, &city, &state, &zip,
		&loanStatusStr, &loanAmount, &loanPurpose,
		&recommendationStr, &assessedDate,
		&version, &createdAt, &updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Applicant{}, err
	}
	if err != nil {
		return model.Applicant{}, fmt.Errorf("scan applicant: %w", err)
	}

	employment, err := valueobject.NewEmploymentStatus(employmentStr)
	if err != nil {
		return model.Applicant{}, fmt.Errorf("parse employment status: %w", err)
	}
	fraud, err := valueobject.NewFraudStatus(fraudStr)
	if err != nil {
		return model.Applicant{}, fmt.Errorf("parse fraud status: %w", err)
	}
	loanStatus, err := valueobject.NewLoanStatus(loanStatusStr)
	if err != nil {
		return model.Applicant{}, fmt.Errorf("parse loan status: %w", err)
	}

	snap := model.ApplicantSnapshot{
		ID:               id,
		Email:            email,
		Name:             name,
		CreditScore:      creditScore,
		EmploymentStatus: employment,
		MonthlyIncome:    monthlyIncome,
		MonthlyDebt:      monthlyDebt,
		FraudStatus:      fraud,
		Loan: model.LoanApplication{
			Status:  loanStatus,
			Amount:  loanAmount,
			Purpose: loanPurpose,
		},
		Version:   version,
		CreatedAt: createdAt.UTC(),
		UpdatedAt: updatedAt.UTC(),
	}

	if street != nil {
		addr, err := valueobject.NewAddress(*street, deref(city), deref(state), deref(zip))
		if err != nil {
			return model.Applicant{}, fmt.Errorf("parse address: %w", err)
		}
		snap.Address = &addr
	}
	if recommendationStr != nil && assessedDate != nil {
		rec, err := valueobject.NewRecommendation(*recommendationStr)
		if err != nil {
			return model.Applicant{}, fmt.Errorf("parse recommendation: %w", err)
		}
		snap.RiskAssessment = &model.RiskAssessment{Recommendation: rec, AssessedDate: assessedDate.UTC()}
	}

	return model.ReconstructApplicant(snap), nil
}

func ptr(s string) *string { return &s }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
