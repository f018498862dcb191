// internal/workers/document/decode-mrz/models.go
package decodemrz

import "docverify-workers/internal/models"

type Input struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	RawText       string `json:"rawText"`
}

type Output struct {
	MRZFound  bool            `json:"mrzFound"`
	MRZLayout string          `json:"mrzLayout,omitempty"`
	MRZData   *models.MRZData `json:"mrzData,omitempty"`
}
