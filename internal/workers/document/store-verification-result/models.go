// internal/workers/document/store-verification-result/models.go
package storeverificationresult

import "docverify-workers/internal/models"

type Input struct {
	ApplicationID      string                    `json:"applicationId" validate:"required"`
	VerificationID     string                    `json:"verificationId" validate:"required,uuid"`
	Decision           string                    `json:"decision" validate:"required,oneof=approve reject manual_review"`
	VerificationResult models.VerificationResult `json:"verificationResult"`
}

type Output struct {
	Stored   bool   `json:"stored"`
	StoredAt string `json:"storedAt"`
}
