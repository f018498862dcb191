// internal/workers/document/check-eligibility/models.go
package checkeligibility

import (
	"encoding/json"

	"docverify-workers/internal/models"
)

type Input struct {
	ApplicationID     string                   `json:"applicationId" validate:"required"`
	ExtractedDocument models.ExtractedDocument `json:"extractedDocument"`
	ApplicantData     models.ApplicantData     `json:"applicantData"`
	// Policy is validated against the policy schema before decoding. An
	// absent policy imposes no nationality or age rules.
	Policy        json.RawMessage `json:"policy,omitempty"`
	ReferenceDate string          `json:"referenceDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Output struct {
	Eligibility models.EligibilityResult `json:"eligibility"`
	IsEligible  bool                     `json:"isEligible"`
}
