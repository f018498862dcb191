// internal/workers/document/extract-document-fields/models.go
package extractdocumentfields

import (
	"encoding/json"

	"docverify-workers/internal/models"
)

type Input struct {
	ApplicationID string          `json:"applicationId" validate:"required"`
	RawText       string          `json:"rawText"`
	MRZData       *models.MRZData `json:"mrzData,omitempty"`
	// RuleTable optionally replaces the worker's rule table for this job.
	RuleTable json.RawMessage `json:"ruleTable,omitempty"`
}

type Output struct {
	ExtractedDocument models.ExtractedDocument `json:"extractedDocument"`
	FieldsFound       int                      `json:"fieldsFound"`
}
