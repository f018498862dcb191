// internal/models/verification.go
package models

type CheckStatus string

const (
	StatusPass    CheckStatus = "pass"
	StatusFail    CheckStatus = "fail"
	StatusWarning CheckStatus = "warning"
)

// ValidationCheck is one entry of the ordered validation report.
type ValidationCheck struct {
	Field      string      `json:"field"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Confidence int         `json:"confidence"`
}

// ApplicantData is what the applicant declared on the visa application.
type ApplicantData struct {
	FirstName           string `json:"firstName,omitempty"`
	LastName            string `json:"lastName,omitempty"`
	DateOfBirth         string `json:"dateOfBirth,omitempty"`
	Nationality         string `json:"nationality,omitempty"`
	PassportNumber      string `json:"passportNumber,omitempty"`
	VisaType            string `json:"visaType,omitempty"`
	PurposeOfVisit      string `json:"purposeOfVisit,omitempty"`
	IntendedArrivalDate string `json:"intendedArrivalDate,omitempty"`
}

// EligibilityPolicy holds the admissibility rules for one visa type.
// RequireBiometric is accepted but not evaluated.
type EligibilityPolicy struct {
	MinPassportValidity  int      `json:"minPassportValidity"`
	AllowedNationalities []string `json:"allowedNationalities,omitempty"`
	BlockedNationalities []string `json:"blockedNationalities,omitempty"`
	MinAge               *int     `json:"minAge,omitempty"`
	MaxAge               *int     `json:"maxAge,omitempty"`
	RequireBiometric     bool     `json:"requireBiometric,omitempty"`
}

type EligibilityResult struct {
	Eligible   bool   `json:"eligible"`
	Reason     string `json:"reason"`
	Confidence int    `json:"confidence"`
}

// VerificationResult is the aggregate returned for one verification request.
type VerificationResult struct {
	OverallConfidence  int               `json:"overallConfidence"`
	ExtractedFields    ExtractedDocument `json:"extractedFields"`
	ValidationChecks   []ValidationCheck `json:"validationChecks"`
	Eligibility        EligibilityResult `json:"eligibility"`
	RecommendedActions []string          `json:"recommendedActions"`
	Summary            string            `json:"summary"`
}

// CountStatus returns how many checks carry the given status.
func CountStatus(checks []ValidationCheck, status CheckStatus) int {
	n := 0
	for _, c := range checks {
		if c.Status == status {
			n++
		}
	}
	return n
}
