// internal/workers/document/extract-document-text/models.go
package extractdocumenttext

type Input struct {
	ApplicationID string `json:"applicationId" validate:"required"`
	DocumentImage string `json:"documentImage" validate:"required,base64"`
	MimeType      string `json:"mimeType" validate:"omitempty,oneof=image/jpeg image/png image/tiff application/pdf"`
}

type Output struct {
	RawText        string `json:"rawText"`
	TextConfidence int    `json:"textConfidence"`
	FromCache      bool   `json:"fromCache"`
}

// ocrRequest and ocrResponse are the wire shapes of the recognition service.
type ocrRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

type ocrResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

type cacheEntry struct {
	Text       string `json:"text"`
	Confidence int    `json:"confidence"`
}
