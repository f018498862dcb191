// internal/workers/document/build-verification-result/models.go
package buildverificationresult

import "docverify-workers/internal/models"

type Input struct {
	ApplicationID     string                   `json:"applicationId" validate:"required"`
	ExtractedDocument models.ExtractedDocument `json:"extractedDocument"`
	ValidationChecks  []models.ValidationCheck `json:"validationChecks" validate:"dive"`
	Eligibility       models.EligibilityResult `json:"eligibility"`
}

type Output struct {
	VerificationID       string                    `json:"verificationId"`
	VerificationResult   models.VerificationResult `json:"verificationResult"`
	Decision             string                    `json:"decision"`
	RequiresManualReview bool                      `json:"requiresManualReview"`
	CompletedAt          string                    `json:"completedAt"`
}
