// internal/workers/document/validate-document/models.go
package validatedocument

import "docverify-workers/internal/models"

type Input struct {
	ApplicationID     string                   `json:"applicationId" validate:"required"`
	ExtractedDocument models.ExtractedDocument `json:"extractedDocument"`
	// ReferenceDate replaces today's date, for re-running historic cases.
	ReferenceDate string `json:"referenceDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type Output struct {
	ValidationChecks []models.ValidationCheck `json:"validationChecks"`
	FailedChecks     int                      `json:"failedChecks"`
	Warnings         int                      `json:"warnings"`
}
