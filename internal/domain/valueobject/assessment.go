package valueobject

import "fmt"

// ---------------------------------------------------------------------------
// Recommendation – immutable value object
// ---------------------------------------------------------------------------

// Recommendation is the risk engine's verdict on a loan application.
type Recommendation struct {
	value string
}

const (
	recommendationNone               = "none"
	recommendationProceed            = "proceed"
	recommendationProceedWithCaution = "proceed_with_caution"
	recommendationDeny               = "deny"
)

var (
	RecommendationNone               = Recommendation{value: recommendationNone}
	RecommendationProceed            = Recommendation{value: recommendationProceed}
	RecommendationProceedWithCaution = Recommendation{value: recommendationProceedWithCaution}
	RecommendationDeny               = Recommendation{value: recommendationDeny}
)

var validRecommendations = map[string]Recommendation{
	recommendationNone:               RecommendationNone,
	recommendationProceed:            RecommendationProceed,
	recommendationProceedWithCaution: RecommendationProceedWithCaution,
	recommendationDeny:               RecommendationDeny,
}

// NewRecommendation creates a Recommendation from a raw string.
func NewRecommendation(s string) (Recommendation, error) {
	v, ok := validRecommendations[s]
	if !ok {
		return Recommendation{}, fmt.Errorf("invalid recommendation: %q", s)
	}
	return v, nil
}

func (r Recommendation) String() string                  { return r.value }
func (r Recommendation) IsZero() bool                    { return r.value == "" }
func (r Recommendation) Equal(other Recommendation) bool { return r.value == other.value }

// ---------------------------------------------------------------------------
// RiskLevel – immutable value object
// ---------------------------------------------------------------------------

// RiskLevel classifies an applicant as low, medium or high risk.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "low"}
	RiskLevelMedium = RiskLevel{value: "medium"}
	RiskLevelHigh   = RiskLevel{value: "high"}
)

// NewRiskLevel creates a RiskLevel from a raw string.
func NewRiskLevel(s string) (RiskLevel, error) {
	switch s {
	case "low":
		return RiskLevelLow, nil
	case "medium":
		return RiskLevelMedium, nil
	case "high":
		return RiskLevelHigh, nil
	}
	return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
}

func (l RiskLevel) String() string             { return l.value }
func (l RiskLevel) IsZero() bool               { return l.value == "" }
func (l RiskLevel) Equal(other RiskLevel) bool { return l.value == other.value }

// ---------------------------------------------------------------------------
// CheckResult – immutable value object
// ---------------------------------------------------------------------------

// CheckResult is the outcome of a single assessment check.
type CheckResult struct {
	value string
}

var (
	CheckResultPass       = CheckResult{value: "pass"}
	CheckResultBorderline = CheckResult{value: "borderline"}
	CheckResultFail       = CheckResult{value: "fail"}
)

func (c CheckResult) String() string               { return c.value }
func (c CheckResult) IsZero() bool                 { return c.value == "" }
func (c CheckResult) Equal(other CheckResult) bool { return c.value == other.value }

// ---------------------------------------------------------------------------
// FraudFlag – immutable value object
// ---------------------------------------------------------------------------

// FraudFlag names a disqualifying condition found during assessment.
type FraudFlag struct {
	value string
}

var (
	FraudFlagLowCreditScore   = FraudFlag{value: "low_credit_score"}
	FraudFlagHighDTIRatio     = FraudFlag{value: "high_dti_ratio"}
	FraudFlagHighFraudStatus  = FraudFlag{value: "high_fraud_status"}
	FraudFlagUnemployedStatus = FraudFlag{value: "unemployed_status"}
)

func (f FraudFlag) String() string { return f.value }

// FraudFlagStrings renders flags for transport and storage. It never returns nil.
func FraudFlagStrings(flags []FraudFlag) []string {
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		out = append(out, f.value)
	}
	return out
}
