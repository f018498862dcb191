// internal/workers/document/extract-document-text/ocr.go
package extractdocumenttext

import (
	"context"
	"encoding/base64"
	"math"
	"strings"

	commonhttp "docverify-workers/internal/common/http"
)

// Recognition is the text read from one document image.
type Recognition struct {
	Text       string
	Confidence int
}

type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, mimeType string) (*Recognition, error)
}

type ocrClient struct {
	http    *commonhttp.Client
	baseURL string
	apiKey  string
}

// NewOCRClient talks to the recognition service at cfg.OCRBaseURL.
func NewOCRClient(cfg *Config) TextRecognizer {
	return &ocrClient{
		http:    commonhttp.NewClient(cfg.OCRTimeout, cfg.OCRMaxRetries),
		baseURL: strings.TrimRight(cfg.OCRBaseURL, "/"),
		apiKey:  cfg.OCRAPIKey,
	}
}

func (c *ocrClient) Recognize(ctx context.Context, image []byte, mimeType string) (*Recognition, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	var resp ocrResponse
	req := ocrRequest{Image: base64.StdEncoding.EncodeToString(image), MimeType: mimeType}
	if err := c.http.PostJSON(ctx, c.baseURL+"/v1/ocr", headers, req, &resp); err != nil {
		return nil, err
	}

	// The service reports confidence as a 0..1 ratio.
	conf := int(math.Round(resp.Confidence * 100))
	if conf < 0 {
		conf = 0
	}
	if conf > 100 {
		conf = 100
	}
	return &Recognition{Text: resp.Text, Confidence: conf}, nil
}
