// internal/workers/document/index-verification-result/models.go
package indexverificationresult

import "docverify-workers/internal/models"

type Input struct {
	ApplicationID      string                    `json:"applicationId" validate:"required"`
	VerificationID     string                    `json:"verificationId" validate:"required,uuid"`
	Decision           string                    `json:"decision" validate:"required,oneof=approve reject manual_review"`
	VerificationResult models.VerificationResult `json:"verificationResult"`
}

type Output struct {
	Indexed bool   `json:"indexed"`
	Index   string `json:"index"`
}

// SearchDocument is the flattened form stored in the search index.
type SearchDocument struct {
	VerificationID    string   `json:"verificationId"`
	ApplicationID     string   `json:"applicationId"`
	Decision          string   `json:"decision"`
	OverallConfidence int      `json:"overallConfidence"`
	Eligible          bool     `json:"eligible"`
	EligibilityReason string   `json:"eligibilityReason"`
	DocumentType      string   `json:"documentType,omitempty"`
	DocumentNumber    string   `json:"documentNumber,omitempty"`
	Nationality       string   `json:"nationality,omitempty"`
	FullName          string   `json:"fullName,omitempty"`
	ExpiryDate        string   `json:"expiryDate,omitempty"`
	MRZPresent        bool     `json:"mrzPresent"`
	FailedChecks      int      `json:"failedChecks"`
	Warnings          int      `json:"warnings"`
	FailedFields      []string `json:"failedFields,omitempty"`
	Summary           string   `json:"summary"`
	IndexedAt         string   `json:"indexedAt"`
}
