// Package eligibility evaluates an applicant's document against a visa
// eligibility policy.
package eligibility

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"docverify-workers/internal/models"
	"docverify-workers/internal/verification/dates"
)

const (
	EligibleConfidence   = 95
	IneligibleConfidence = 85

	SuccessReason = "Applicant meets all eligibility requirements"
)

// Evaluate collects every policy violation in a fixed order. A field that
// cannot be parsed produces its own issue and evaluation continues.
func Evaluate(doc models.ExtractedDocument, applicant models.ApplicantData, policy models.EligibilityPolicy, now time.Time) models.EligibilityResult {
	today := dates.Truncate(now)
	var issues []string

	if expiry, err := dates.Parse(doc.ExpiryDate.Value); err == nil {
		if months := dates.MonthsBetween(today, expiry); months < policy.MinPassportValidity {
			issues = append(issues, fmt.Sprintf("Passport must be valid for at least %d months (currently %d months)",
				policy.MinPassportValidity, months))
		}
	} else {
		issues = append(issues, "Cannot verify passport validity")
	}

	nationality := doc.Nationality.Value
	if len(policy.AllowedNationalities) > 0 && !slices.Contains(policy.AllowedNationalities, nationality) {
		issues = append(issues, nationalityIssue(nationality, applicant.VisaType))
	}
	if slices.Contains(policy.BlockedNationalities, nationality) {
		issues = append(issues, nationalityIssue(nationality, applicant.VisaType))
	}

	if dob, err := dates.Parse(doc.DateOfBirth.Value); err == nil {
		age := dates.AgeAt(dob, today)
		if policy.MinAge != nil && age < *policy.MinAge {
			issues = append(issues, fmt.Sprintf("Applicant must be at least %d years old", *policy.MinAge))
		}
		if policy.MaxAge != nil && age > *policy.MaxAge {
			issues = append(issues, fmt.Sprintf("Applicant must be at most %d years old", *policy.MaxAge))
		}
	} else {
		issues = append(issues, "Cannot verify applicant age")
	}

	if applicant.PassportNumber != "" && !doc.DocumentNumber.IsEmpty() &&
		applicant.PassportNumber != doc.DocumentNumber.Value {
		issues = append(issues, "Passport number mismatch between application and document")
	}

	if len(issues) > 0 {
		return models.EligibilityResult{
			Eligible:   false,
			Reason:     strings.Join(issues, "; "),
			Confidence: IneligibleConfidence,
		}
	}
	return models.EligibilityResult{
		Eligible:   true,
		Reason:     SuccessReason,
		Confidence: EligibleConfidence,
	}
}

func nationalityIssue(nationality, visaType string) string {
	if nationality == "" {
		nationality = "UNKNOWN"
	}
	if visaType == "" {
		visaType = "the requested"
	}
	return fmt.Sprintf("Nationality %s is not eligible for %s visa", nationality, visaType)
}
