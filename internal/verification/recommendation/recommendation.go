// Package recommendation turns validation and eligibility outcomes into the
// final verification result: overall confidence, summary and next actions.
package recommendation

import (
	"fmt"
	"math"
	"strings"

	"docverify-workers/internal/models"
)

const (
	DefaultConfidence = 50

	lowConfidenceThreshold  = 70
	highConfidenceThreshold = 90
)

const (
	ActionRejectValidation  = "REJECT: Critical validation failures detected"
	ActionRejectEligibility = "REJECT: Applicant does not meet eligibility requirements"
	ActionReviewConfidence  = "MANUAL REVIEW: Low extraction confidence"
	ActionReviewWarnings    = "MANUAL REVIEW: Warnings require attention"
	ActionApprove           = "APPROVE: All checks passed with high confidence"
	ActionReviewStandard    = "MANUAL REVIEW: Standard verification recommended"
)

// Decision is the routing outcome derived from the action list.
type Decision string

const (
	DecisionReject       Decision = "reject"
	DecisionManualReview Decision = "manual_review"
	DecisionApprove      Decision = "approve"
)

// OverallConfidence averages the key identity fields that were actually
// extracted. Fields with confidence 0 are ignored.
func OverallConfidence(doc models.ExtractedDocument) int {
	sum, n := 0, 0
	for _, f := range []models.ExtractedField{
		doc.DocumentNumber,
		doc.FirstName,
		doc.LastName,
		doc.DateOfBirth,
		doc.ExpiryDate,
		doc.Nationality,
	} {
		if f.Confidence > 0 {
			sum += f.Confidence
			n++
		}
	}
	if n == 0 {
		return DefaultConfidence
	}
	return int(math.Round(float64(sum) / float64(n)))
}

// Summary renders the one-sentence narrative of a verification.
func Summary(doc models.ExtractedDocument, checks []models.ValidationCheck, eligibility models.EligibilityResult) string {
	docType := orDefault(doc.DocumentType.Value, "Document")
	name := orDefault(doc.FullName(), "Unknown")
	nationality := orDefault(doc.Nationality.Value, "Unknown")

	outcome := "not eligible"
	if eligibility.Eligible {
		outcome = "eligible"
	}

	return fmt.Sprintf("%s verification for %s (%s): %d failed checks, %d warnings. Eligibility: %s (%s).",
		docType, name, nationality,
		models.CountStatus(checks, models.StatusFail),
		models.CountStatus(checks, models.StatusWarning),
		outcome, eligibility.Reason)
}

// Actions walks the priority chain and returns the first branch that applies.
func Actions(checks []models.ValidationCheck, eligibility models.EligibilityResult, overallConfidence int) []string {
	if models.CountStatus(checks, models.StatusFail) > 0 {
		actions := []string{ActionRejectValidation}
		for _, c := range checks {
			if c.Status == models.StatusFail {
				actions = append(actions, fmt.Sprintf("- Address %s: %s", c.Field, c.Message))
			}
		}
		return actions
	}

	if !eligibility.Eligible {
		return []string{ActionRejectEligibility, "- " + eligibility.Reason}
	}

	if overallConfidence < lowConfidenceThreshold {
		return []string{
			ActionReviewConfidence,
			fmt.Sprintf("- Overall confidence %d%% is below %d%%", overallConfidence, lowConfidenceThreshold),
			"- Request a clearer scan of the document",
		}
	}

	if models.CountStatus(checks, models.StatusWarning) > 0 {
		actions := []string{ActionReviewWarnings}
		for _, c := range checks {
			if c.Status == models.StatusWarning {
				actions = append(actions, fmt.Sprintf("- Review %s: %s", c.Field, c.Message))
			}
		}
		return actions
	}

	if overallConfidence >= highConfidenceThreshold {
		return []string{ActionApprove, "- Proceed with visa processing"}
	}

	return []string{ActionReviewStandard, "- Confirm extracted details against the physical document"}
}

// DecisionFor maps the leading action to a routing decision.
func DecisionFor(actions []string) Decision {
	if len(actions) == 0 {
		return DecisionManualReview
	}
	switch {
	case strings.HasPrefix(actions[0], "REJECT"):
		return DecisionReject
	case strings.HasPrefix(actions[0], "APPROVE"):
		return DecisionApprove
	default:
		return DecisionManualReview
	}
}

// Build assembles the verification result.
func Build(doc models.ExtractedDocument, checks []models.ValidationCheck, eligibility models.EligibilityResult) models.VerificationResult {
	if checks == nil {
		checks = []models.ValidationCheck{}
	}
	confidence := OverallConfidence(doc)
	return models.VerificationResult{
		OverallConfidence:  confidence,
		ExtractedFields:    doc,
		ValidationChecks:   checks,
		Eligibility:        eligibility,
		RecommendedActions: Actions(checks, eligibility, confidence),
		Summary:            Summary(doc, checks, eligibility),
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
