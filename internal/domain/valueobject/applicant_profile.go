package valueobject

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// EmploymentStatus – immutable value object
// ---------------------------------------------------------------------------

// EmploymentStatus is the applicant's declared employment situation.
// The zero value means the applicant has not declared one yet.
type EmploymentStatus struct {
	value string
}

const (
	employmentEmployed     = "employed"
	employmentUnemployed   = "unemployed"
	employmentSelfEmployed = "self-employed"
	employmentStudent      = "student"
)

var (
	EmploymentStatusEmployed     = EmploymentStatus{value: employmentEmployed}
	EmploymentStatusUnemployed   = EmploymentStatus{value: employmentUnemployed}
	EmploymentStatusSelfEmployed = EmploymentStatus{value: employmentSelfEmployed}
	EmploymentStatusStudent      = EmploymentStatus{value: employmentStudent}
)

var validEmploymentStatuses = map[string]EmploymentStatus{
	employmentEmployed:     EmploymentStatusEmployed,
	employmentUnemployed:   EmploymentStatusUnemployed,
	employmentSelfEmployed: EmploymentStatusSelfEmployed,
	employmentStudent:      EmploymentStatusStudent,
}

// NewEmploymentStatus parses a declared employment status. The empty string
// yields the zero value without error so persisted "not declared" rows load.
func NewEmploymentStatus(s string) (EmploymentStatus, error) {
	if s == "" {
		return EmploymentStatus{}, nil
	}
	v, ok := validEmploymentStatuses[s]
	if !ok {
		return EmploymentStatus{}, fmt.Errorf("invalid employment status: %q", s)
	}
	return v, nil
}

func (e EmploymentStatus) String() string                    { return e.value }
func (e EmploymentStatus) IsZero() bool                      { return e.value == "" }
func (e EmploymentStatus) Equal(other EmploymentStatus) bool { return e.value == other.value }

// ---------------------------------------------------------------------------
// FraudStatus – immutable value object
// ---------------------------------------------------------------------------

// FraudStatus is the externally supplied fraud indicator for an applicant.
type FraudStatus struct {
	value string
}

var (
	FraudStatusLow  = FraudStatus{value: "low"}
	FraudStatusHigh = FraudStatus{value: "high"}
)

// NewFraudStatus creates a FraudStatus from a raw string.
func NewFraudStatus(s string) (FraudStatus, error) {
	switch s {
	case "low":
		return FraudStatusLow, nil
	case "high":
		return FraudStatusHigh, nil
	}
	return FraudStatus{}, fmt.Errorf("invalid fraud status: %q", s)
}

func (f FraudStatus) String() string               { return f.value }
func (f FraudStatus) IsZero() bool                 { return f.value == "" }
func (f FraudStatus) Equal(other FraudStatus) bool { return f.value == other.value }

// ---------------------------------------------------------------------------
// Address – immutable value object
// ---------------------------------------------------------------------------

// Address is a postal address. All four parts are required.
type Address struct {
	street  string
	city    string
	state   string
	zipCode string
}

// NewAddress validates and creates an Address.
func NewAddress(street, city, state, zipCode string) (Address, error) {
	parts := map[string]string{"street": street, "city": city, "state": state, "zipCode": zipCode}
	var missing []string
	for _, name := range []string{"street", "city", "state", "zipCode"} {
		if strings.TrimSpace(parts[name]) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Address{}, fmt.Errorf("address is missing %s", strings.Join(missing, ", "))
	}
	return Address{
		street:  strings.TrimSpace(street),
		city:    strings.TrimSpace(city),
		state:   strings.TrimSpace(state),
		zipCode: strings.TrimSpace(zipCode),
	}, nil
}

func (a Address) Street() string  { return a.street }
func (a Address) City() string    { return a.city }
func (a Address) State() string   { return a.state }
func (a Address) ZipCode() string { return a.zipCode }

// Equal returns true when every part matches.
func (a Address) Equal(other Address) bool { return a == other }

// ---------------------------------------------------------------------------
// Debt-to-income ratio
// ---------------------------------------------------------------------------

// ErrNonPositiveIncome is returned when a DTI ratio is requested for an
// applicant without income.
var ErrNonPositiveIncome = errors.New("monthly income must be positive")

var hundred = decimal.NewFromInt(100)

// DTIRatio returns monthly debt as a percentage of monthly income.
// Debt is scaled before dividing so ratios that land on whole percentages
// stay exact.
func DTIRatio(monthlyDebt, monthlyIncome decimal.Decimal) (decimal.Decimal, error) {
	if !monthlyIncome.IsPositive() {
		return decimal.Zero, ErrNonPositiveIncome
	}
	return monthlyDebt.Mul(hundred).Div(monthlyIncome), nil
}
